package types

import "testing"

func TestComparePriority(t *testing.T) {
	high := Task{Priority: PriorityHigh}
	medium := Task{Priority: PriorityMedium}
	low := Task{Priority: PriorityLow}

	if ComparePriority(high, medium) >= 0 {
		t.Error("High should sort before Medium")
	}
	if ComparePriority(medium, low) >= 0 {
		t.Error("Medium should sort before Low")
	}
	if ComparePriority(low, Task{Priority: PriorityLow}) != 0 {
		t.Error("equal priorities should compare equal")
	}
}
