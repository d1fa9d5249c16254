package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already e164",
			input: "+14155552671",
			want:  "+14155552671",
		},
		{
			name:  "us national format",
			input: "(415) 555-2671",
			want:  "+14155552671",
		},
		{
			name:  "uk national format",
			input: "020 7946 0958",
			want:  "+442079460958",
		},
		{
			name:  "whitespace trimmed",
			input: "  +14155552671  ",
			want:  "+14155552671",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "garbage",
			input: "not-a-phone",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
