// Package fuzzy scores free-text input against a list of choices using a
// partial token-sort similarity on top of Levenshtein distance.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Match is the best-scoring choice for a query.
type Match struct {
	Choice string
	Index  int
	Score  int
}

// Normalize upper-cases s, turns every non-alphanumeric rune into a space and
// collapses runs of spaces.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func sortTokens(s string) string {
	tokens := strings.Fields(Normalize(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Ratio returns a 0..100 similarity of a and b based on edit distance
// relative to the longer string.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * float64(longest-dist) / float64(longest)))
}

// PartialRatio compares the shorter string against every same-length window
// of the longer one and keeps the best score.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 100
		}
		return 0
	}

	short := string(ra)
	best := 0
	for i := 0; i+len(ra) <= len(rb); i++ {
		score := Ratio(short, string(rb[i:i+len(ra)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// PartialTokenSortRatio normalizes both inputs, sorts their tokens and
// returns their PartialRatio.
func PartialTokenSortRatio(a, b string) int {
	return PartialRatio(sortTokens(a), sortTokens(b))
}

// ExtractOne returns the highest scoring choice. Ties keep the earliest
// choice. ok is false when choices is empty.
func ExtractOne(query string, choices []string) (Match, bool) {
	if len(choices) == 0 {
		return Match{}, false
	}
	best := Match{Index: -1, Score: -1}
	for i, choice := range choices {
		score := PartialTokenSortRatio(query, choice)
		if score > best.Score {
			best = Match{Choice: choice, Index: i, Score: score}
		}
	}
	return best, true
}
