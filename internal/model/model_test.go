package model

import (
	"testing"
	"time"
)

// ===== Section 1: priority classification thresholds (spec.md §3) =====

func TestClassifyPriorityBoundaries(t *testing.T) {
	cases := []struct {
		size uint64
		want Priority
	}{
		{0, PrioritySmall},
		{smallMax, PrioritySmall},
		{smallMax + 1, PriorityMedium},
		{mediumMax, PriorityMedium},
		{mediumMax + 1, PriorityLarge},
		{largeMax, PriorityLarge},
		{largeMax + 1, PriorityHuge},
	}
	for _, c := range cases {
		if got := ClassifyPriority(c.size); got != c.want {
			t.Errorf("ClassifyPriority(%d) = %v, want %v", c.size, got, c.want)
		}
	}
}

// ===== Section 2: ledger conservation (spec.md §8 property 5) =====

func TestLedgerConservation(t *testing.T) {
	var l Ledger
	l.Credit("a", 100, time.Now())
	l.Credit("b", 200, time.Now())

	var sum uint64
	for _, h := range l.History {
		sum += h.Size
	}
	if sum != l.Total {
		t.Errorf("ledger total %d != history sum %d", l.Total, sum)
	}
	if l.Total != 300 {
		t.Errorf("got total %d, want 300", l.Total)
	}
}
