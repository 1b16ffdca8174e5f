package grading

import "unicode"

// Normalize lowercases, collapses whitespace runs to a single space, strips
// the punctuation set ". , ; : ! ?" and trims the ends. It is deterministic,
// locale independent and idempotent.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case isStrippedPunct(r):
			// skip
		default:
			if pendingSpace && len(out) > 0 {
				out = append(out, ' ')
			}
			pendingSpace = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

func isStrippedPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?':
		return true
	}
	return false
}
