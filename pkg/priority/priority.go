// Package priority orders generators and extractors. Higher values win.
package priority

import (
	"math"
	"sort"
)

const (
	// Min is the lowest priority; catch-all plugins use it.
	Min = math.MinInt32
	// Default applies to plugins that declare none.
	Default = 0
	// Max is the highest priority.
	Max = math.MaxInt32
)

// Prioritized is implemented by plugins that declare a priority.
type Prioritized interface {
	Priority() int
}

// Of returns the declared priority of v, or Default.
func Of(v any) int {
	if p, ok := v.(Prioritized); ok {
		return p.Priority()
	}
	return Default
}

// Compare orders a before b when a has the higher priority. Equal priorities
// compare as 0 so stable sorts keep registration order.
func Compare(a, b any) int {
	pa, pb := Of(a), Of(b)
	switch {
	case pa > pb:
		return -1
	case pa < pb:
		return 1
	default:
		return 0
	}
}

// SortStable orders items by descending priority, keeping the relative order
// of equal priorities.
func SortStable[T any](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return Compare(items[i], items[j]) < 0
	})
}
