// Package relation decides whether manuscripts are duplicates or members of
// the same archival dossier. Everything here is a pure function over
// documents supplied by the caller; no state is retained between calls.
package relation

import "strings"

// ExactMatch reports case-sensitive equality after trimming surrounding
// whitespace. Two empty strings are equal; callers guard for emptiness
// where an empty value must not count as a signal.
func ExactMatch(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// Shared returns the distinct values of a that also appear in b, in a's
// order. Repeated mentions count once.
func Shared(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}

	var shared []string
	seen := make(map[string]struct{})
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		shared = append(shared, v)
	}
	return shared
}

// SetOverlap counts the distinct values of a present in b.
func SetOverlap(a, b []string) int {
	return len(Shared(a, b))
}

// PrefixOverlap reports whether the first n characters of both strings,
// after whitespace normalization, are identical. It is a cheap approximate
// content-identity check; OCR noise and diacritic variance can defeat it in
// both directions.
func PrefixOverlap(a, b string, n int) bool {
	return prefix(normalizeWhitespace(a), n) == prefix(normalizeWhitespace(b), n)
}

// normalizeWhitespace trims the string and collapses every whitespace run
// to a single space.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
