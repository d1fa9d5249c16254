package sanitizer

import "regexp"

// Strategy is a single normalization step; Pipeline chains them.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reMultiUnderscore   = regexp.MustCompile(`_+`)
)

// SanitizeSlice normalizes every element with the strategy, dropping empties
// and duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SanitizeMetadata normalizes free-form metadata keys to slugs and trims the
// values. Entries whose key or value collapses to empty are dropped.
func SanitizeMetadata(mp map[string]string) map[string]string {
	if mp == nil {
		return nil
	}
	normalized := map[string]string{}
	for key, value := range mp {
		k := Slug(key)
		v := TrimAndNormalize(value)
		if k == "" || v == "" {
			continue
		}
		normalized[k] = v
	}
	return normalized
}
