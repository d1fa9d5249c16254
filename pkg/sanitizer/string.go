package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses any run of whitespace into
// a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans a person/company/equipment name without changing case.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLabel cleans a category/site label and lowercases it.
func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}

// Slug reduces free text to a lowercase underscore-joined token, keeping
// letters and digits only.
func Slug(input string) string {
	p := Pipeline{
		func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		func(s string) string { return strings.Trim(reMultiUnderscore.ReplaceAllString(s, "_"), "_") },
	}
	return p.Apply(input)
}

// NormalizeSerial uppercases a serial number and strips internal whitespace.
func NormalizeSerial(serial string) string {
	serial = TrimAndNormalize(serial)
	serial = strings.ReplaceAll(serial, " ", "")
	return strings.ToUpper(serial)
}
