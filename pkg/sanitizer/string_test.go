package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Aputure 600d Pro  ",
			want:  "Aputure 600d Pro",
		},
		{
			name:  "multiple spaces between words",
			input: "Aputure    600d",
			want:  "Aputure 600d",
		},
		{
			name:  "tabs and newlines",
			input: "Aputure\t\n600d",
			want:  "Aputure 600d",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Zeiss CP.3 — 25mm ",
			want:  "Zeiss CP.3 — 25mm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "spaces to underscores",
			input: "Camera Support",
			want:  "camera_support",
		},
		{
			name:  "punctuation stripped",
			input: "Grip & Electric!",
			want:  "grip_electric",
		},
		{
			name:  "collapse repeated separators",
			input: "audio --- recorders",
			want:  "audio_recorders",
		},
		{
			name:  "digits kept",
			input: "600d pro",
			want:  "600d_pro",
		},
		{
			name:  "empty",
			input: "  !!  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSerial(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "sn-00123a", "SN-00123A"},
		{"internal spaces", " sn 00123 a ", "SN00123A"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSerial(tt.input); got != tt.want {
				t.Errorf("NormalizeSerial(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeMetadata(t *testing.T) {
	got := SanitizeMetadata(map[string]string{
		"Cart Source ": "  web  spa ",
		"  ":           "dropped",
		"empty value":  "   ",
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(got), got)
	}
	if got["cart_source"] != "web spa" {
		t.Errorf("cart_source = %q, want %q", got["cart_source"], "web spa")
	}
}

func TestSanitizeSliceDedupes(t *testing.T) {
	got := SanitizeSlice([]string{" Lighting ", "lighting", "", "Grip"}, NormalizeLabel)

	want := []string{"lighting", "grip"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
