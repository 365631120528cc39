package memory

import (
	"strings"
	"unicode"
)

// tsMatcher evaluates the "a | b | c" disjunctions produced for the Postgres simple
// dictionary: a name matches when any of its lower-cased words equals any term.
type tsMatcher map[string]struct{}

func parseTSQuery(query string) tsMatcher {
	terms := tsMatcher{}
	for _, term := range strings.Split(query, "|") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms[term] = struct{}{}
		}
	}
	return terms
}

func (m tsMatcher) Match(text string) bool {
	if len(m) == 0 {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if _, ok := m[w]; ok {
			return true
		}
	}
	return false
}

func sameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
