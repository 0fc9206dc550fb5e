// Package dedupe flags player names that likely refer to the same person.
// Scoring runs over canonical keys (see namekey) and is advisory only: the
// detector proposes groups, it never merges.
package dedupe

import (
	"sort"
	"strings"
)

// DefaultThreshold is the similarity at or above which a pair is reported
// as a candidate duplicate, on a 0..1 scale.
const DefaultThreshold = 0.85

// Scorer computes a similarity in [0,1] between two canonical keys.
// Implementations must be symmetric: Score(a,b) == Score(b,a).
type Scorer interface {
	Score(a, b string) float64
}

// LevenshteinScorer scores 1 - editDistance/maxLen over runes. Two empty
// keys score 1; an empty key against a non-empty one scores 0.
type LevenshteinScorer struct{}

func (LevenshteinScorer) Score(a, b string) float64 {
	return ratio(a, b)
}

// TokenSortScorer sorts the whitespace-separated tokens of each key before
// applying the Levenshtein ratio, so "smith john" and "john smith" score 1.
// This is the default scorer; it matches the token-sort matching the club
// previously used for its duplicate review screen.
type TokenSortScorer struct{}

func (TokenSortScorer) Score(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// levenshtein is the classic two-row dynamic program over runes.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minOf(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
