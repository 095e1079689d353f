package order

import "slices"

// Capture reorders only the selected elements of items.
//
// Selected elements are stably sorted with cmp as one subsequence and written back, in
// order, into the indices the selected elements occupied. Unselected elements keep their
// index and value. items is not modified; the result is a new slice of the same length.
func Capture[T any](items []T, selected func(T) bool, cmp func(a, b T) int) []T {
	out := make([]T, len(items))
	copy(out, items)

	var slots []int
	var picked []T
	for i, it := range items {
		if selected(it) {
			slots = append(slots, i)
			picked = append(picked, it)
		}
	}
	if len(picked) < 2 {
		return out
	}

	slices.SortStableFunc(picked, cmp)
	for j, i := range slots {
		out[i] = picked[j]
	}
	return out
}
