// Package textmatch ranks free-text player names against candidates.
package textmatch

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

const (
	// PrefixScale is the Winkler boost per shared leading rune.
	PrefixScale = 0.2
	// BoostThreshold is the Jaro score a pair must exceed before the prefix boost applies.
	BoostThreshold = 0.7
	maxPrefix      = 4
)

// Normalize lower-cases s and removes all whitespace.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// JaroWinkler scores a and b in [0,1] with prefix scale 0.2.
// The scale is larger than the textbook 0.1, so the result is clamped at 1.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	jaro := smetrics.Jaro(a, b)
	if jaro <= BoostThreshold {
		return jaro
	}

	prefix := commonPrefix(a, b, maxPrefix)
	score := jaro + float64(prefix)*PrefixScale*(1-jaro)
	if score > 1 {
		return 1
	}
	return score
}

// Similarity compares the normalized forms of query and candidate.
func Similarity(query, candidate string) float64 {
	return JaroWinkler(Normalize(query), Normalize(candidate))
}

func commonPrefix(a, b string, limit int) int {
	ar, br := []rune(a), []rune(b)
	n := 0
	for n < len(ar) && n < len(br) && n < limit && ar[n] == br[n] {
		n++
	}
	return n
}
