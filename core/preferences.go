package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FoldText returns the comparison form of s: NFKC normalized, whitespace
// collapsed and Unicode case folded.
func FoldText(s string) string {
	s = strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
	return cases.Fold().String(s)
}

// NormalizePreferences trims and de-duplicates preference strings.
// Duplicates are detected case- and whitespace-insensitively; the first
// occurrence wins and is returned in its trimmed form. Empty entries are
// dropped and input order is preserved.
func NormalizePreferences(preferences []string) []string {
	result := make([]string, 0, len(preferences))
	seen := make(map[string]struct{}, len(preferences))
	for _, pref := range preferences {
		trimmed := strings.Join(strings.Fields(pref), " ")
		if trimmed == "" {
			continue
		}
		key := FoldText(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
