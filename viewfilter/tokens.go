package viewfilter

import "strings"

func fold(s string) string {
	return strings.ToLower(s)
}

// Tokenize splits text on whitespace, drops blank tokens and, when fold is
// set, case folds them. Empty input yields a nil slice.
func Tokenize(text string, foldCase bool) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	if foldCase {
		for i, f := range fields {
			fields[i] = fold(f)
		}
	}
	return fields
}

// ExactlySame reports whether two token slices are identical element by element.
func ExactlySame(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameTokens reports whether two token slices describe the same set of
// non-blank tokens. Order and duplicates do not matter.
func SameTokens(a, b []string) bool {
	if ExactlySame(a, b) {
		return true
	}
	return subset(a, b) && subset(b, a)
}

func subset(a, b []string) bool {
	for _, tok := range a {
		if tok == "" {
			continue
		}
		if !containsToken(b, tok) {
			return false
		}
	}
	return true
}

func containsToken(list []string, tok string) bool {
	for _, s := range list {
		if s == tok {
			return true
		}
	}
	return false
}

// Blank reports whether a token set has no non-blank token.
func Blank(tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" {
			return false
		}
	}
	return true
}
