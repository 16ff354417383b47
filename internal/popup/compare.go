package popup

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IgnoreCase selects how needle text is compared against row text.
type IgnoreCase int

const (
	// CaseExact compares characters as-is.
	CaseExact IgnoreCase = iota
	// CaseIgnore folds letter case.
	CaseIgnore
	// CaseRelaxed folds letter case and treats '-' and '_' as equal.
	CaseRelaxed
)

// scope captures one comparison configuration. A scope is constructed per
// search so a configuration change mid-activation cannot produce a split
// result set.
type scope struct {
	mode        IgnoreCase
	fuzzyAccent bool
}

// deaccent strips combining marks after NFD decomposition, so "é" and "e"
// compare equal under fuzzy accents.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func (sc scope) fold(s string) string {
	if sc.fuzzyAccent {
		if out, _, err := transform.String(deaccent, s); err == nil {
			s = out
		}
	}
	if sc.mode == CaseExact {
		return s
	}
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if sc.mode == CaseRelaxed && r == '-' {
			r = '_'
		}
		return r
	}, s)
}

// contains reports whether needle occurs as a substring of haystack under
// the scope. An empty needle matches any non-empty haystack.
func (sc scope) contains(needle, haystack string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(sc.fold(haystack), sc.fold(needle))
}

// hasPrefix reports whether needle is a prefix of haystack under the scope.
func (sc scope) hasPrefix(needle, haystack string) bool {
	return strings.HasPrefix(sc.fold(haystack), sc.fold(needle))
}
