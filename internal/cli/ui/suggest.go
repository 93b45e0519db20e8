package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance a suggestion may have
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions returned
	DefaultMaxSuggestions = 3
)

// SuggestOptions configures Suggest
type SuggestOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

type candidate struct {
	value    string
	distance int
}

// Suggest returns the candidates closest to target by edit distance, nearest
// first. Ties keep the order of candidates.
//
// Example:
//
//	Suggest("strng", []string{"string", "int8"}, nil)
//	// Returns: ["string"]
func Suggest(target string, candidates []string, opts *SuggestOptions) []string {
	o := SuggestOptions{MaxDistance: DefaultMaxDistance, MaxSuggestions: DefaultMaxSuggestions}
	if opts != nil {
		o.CaseSensitive = opts.CaseSensitive
		if opts.MaxDistance > 0 {
			o.MaxDistance = opts.MaxDistance
		}
		if opts.MaxSuggestions > 0 {
			o.MaxSuggestions = opts.MaxSuggestions
		}
	}

	fold := func(s string) string {
		if o.CaseSensitive {
			return s
		}
		return strings.ToLower(s)
	}

	var near []candidate
	for _, c := range candidates {
		if d := Distance(fold(target), fold(c)); d <= o.MaxDistance {
			near = append(near, candidate{value: c, distance: d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		return near[i].distance < near[j].distance
	})

	result := make([]string, 0, o.MaxSuggestions)
	for i := 0; i < len(near) && i < o.MaxSuggestions; i++ {
		result = append(result, near[i].value)
	}
	return result
}

// Distance is the Levenshtein distance between a and b in runes.
func Distance(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) == 0 {
		return len(t)
	}

	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s); i++ {
		cur[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(t)]
}
