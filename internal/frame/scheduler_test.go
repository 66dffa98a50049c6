package frame

import (
	"testing"
	"time"
)

// ===== Section 1: activity classification =====

func TestClassifyDiscovery(t *testing.T) {
	s := NewScheduler()
	now := time.Now()
	got := s.Classify(true, true, false, now.Add(-time.Hour), now)
	if got != ActivityDiscovery {
		t.Errorf("got %v, want ActivityDiscovery", got)
	}
}

func TestClassifyActiveOnDirty(t *testing.T) {
	s := NewScheduler()
	now := time.Now()
	got := s.Classify(false, false, true, now.Add(-time.Hour), now)
	if got != ActivityActive {
		t.Errorf("got %v, want ActivityActive", got)
	}
}

func TestClassifyActiveOnRecentInput(t *testing.T) {
	s := NewScheduler()
	now := time.Now()
	got := s.Classify(false, false, false, now.Add(-100*time.Millisecond), now)
	if got != ActivityActive {
		t.Errorf("got %v, want ActivityActive", got)
	}
}

func TestClassifyIdle(t *testing.T) {
	s := NewScheduler()
	now := time.Now()
	got := s.Classify(false, false, false, now.Add(-time.Hour), now)
	if got != ActivityIdle {
		t.Errorf("got %v, want ActivityIdle", got)
	}
}

// ===== Section 2: draw timing =====

func TestShouldDrawDirtyAlwaysDue(t *testing.T) {
	s := NewScheduler()
	due, sleep := s.ShouldDraw(true, time.Now(), IdleInterval)
	if !due || sleep != 0 {
		t.Errorf("dirty frame should always be due, got due=%v sleep=%v", due, sleep)
	}
}

func TestShouldDrawRespectsTargetInterval(t *testing.T) {
	s := NewScheduler()
	now := time.Now()
	s.MarkDrawn(now)

	due, sleep := s.ShouldDraw(false, now.Add(1*time.Millisecond), IdleInterval)
	if due {
		t.Errorf("should not be due yet")
	}
	if sleep <= 0 {
		t.Errorf("expected positive remaining sleep, got %v", sleep)
	}

	due, _ = s.ShouldDraw(false, now.Add(IdleInterval+time.Millisecond), IdleInterval)
	if !due {
		t.Errorf("expected frame due after target interval elapsed")
	}
}

// ===== Section 3: drain budgets =====

func TestDiscoveryBudget(t *testing.T) {
	if DiscoveryBudget(true) != DiscoveryDrainBudget {
		t.Errorf("expected discovering budget %d", DiscoveryDrainBudget)
	}
	if DiscoveryBudget(false) != DiscoveryIdleDrainBudget {
		t.Errorf("expected idle budget %d", DiscoveryIdleDrainBudget)
	}
}
