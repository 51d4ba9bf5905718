package sortutil

import "sort"

// StablePathSort returns a new slice containing the input paths sorted
// lexicographically. The original slice is not modified.
func StablePathSort(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}

// NewStartOrdered reports whether items are already sorted in ascending
// order by the key their newStart function returns — the ordering
// invariant (§8.5) that output hunks and annotations must satisfy.
func NewStartOrdered(n int, newStart func(i int) int) bool {
	return sort.SliceIsSorted(make([]int, n), func(i, j int) bool { return newStart(i) < newStart(j) })
}
