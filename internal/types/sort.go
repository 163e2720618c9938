package types

import "cmp"

// ComparePriority orders tasks by priority rank, most important first.
// Tasks of equal priority compare equal so stable sorts keep list order.
func ComparePriority(a, b Task) int {
	return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
}
