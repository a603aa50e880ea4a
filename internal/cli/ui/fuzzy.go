package ui

import (
	"slices"
	"strings"
)

// DefaultMaxDistance is the largest edit distance reported as a suggestion
const DefaultMaxDistance = 3

// DefaultMaxSuggestions caps the number of suggestions
const DefaultMaxSuggestions = 3

// Suggest returns the candidates closest to target by case-insensitive edit
// distance, nearest first. Ties keep candidate order.
func Suggest(target string, candidates []string) []string {
	type scored struct {
		value    string
		distance int
	}

	lower := strings.ToLower(target)
	var matches []scored
	for _, candidate := range candidates {
		if d := EditDistance(lower, strings.ToLower(candidate)); d <= DefaultMaxDistance {
			matches = append(matches, scored{candidate, d})
		}
	}
	slices.SortStableFunc(matches, func(a, b scored) int {
		return a.distance - b.distance
	})

	out := make([]string, 0, DefaultMaxSuggestions)
	for i := 0; i < len(matches) && i < DefaultMaxSuggestions; i++ {
		out = append(out, matches[i].value)
	}
	return out
}

// EditDistance returns the Levenshtein distance between a and b, counted in
// runes
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
