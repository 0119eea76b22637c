package router

import "sort"

// sortEntriesByPriority orders entries most specific first. Ties keep their
// registration order.
func sortEntriesByPriority(entries []registryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return comparePatternPriority(entries[i].pattern, entries[j].pattern) > 0
	})
}

// comparePatternPriority returns 1 when left is more specific than right,
// -1 when less and 0 when they tie.
func comparePatternPriority(left, right *RoutePattern) int {
	lp, rp := left.Priority(), right.Priority()
	switch {
	case lp < rp:
		return 1
	case lp > rp:
		return -1
	default:
		return 0
	}
}
