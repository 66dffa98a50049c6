// Package frame implements the adaptive frame scheduler (C6): it classifies
// activity and picks a target redraw interval so the render loop stays
// busy while discovering and nearly silent while idle.
//
// The scheduling *decision* here is pure and deliberately free of any
// terminal-back-end dependency so it can be unit tested directly; the
// wiring layer (internal/tui) is what turns Scheduler's chosen interval
// into a bubbletea tea.Tick command, the way invowk-invowk/internal/tui's
// spin model re-arms its own tick() command after each render — reap
// re-arms at a variable interval instead of a fixed spinner frame rate.
package frame

import "time"

// Activity classifies what the render loop should optimize for this tick
// (spec.md §4.6).
type Activity int

const (
	ActivityIdle Activity = iota
	ActivityActive
	ActivityDiscovery
)

// Target intervals per activity class (spec.md §4.6).
const (
	DiscoveryInterval = 8 * time.Millisecond
	ActiveInterval    = 16 * time.Millisecond
	IdleInterval      = 100 * time.Millisecond
)

// InputActiveWindow: input within this window keeps activity at Active.
const InputActiveWindow = 500 * time.Millisecond

// MinSleep is the floor on a computed sleep duration.
const MinSleep = 1 * time.Millisecond

// Per-tick channel drain budgets (spec.md §4.6 step 1). Deletion messages
// have no budget — all pending ones are drained every tick.
const (
	DiscoveryDrainBudget     = 20
	DiscoveryIdleDrainBudget = 10
	SizeDrainBudget          = 5
)

// DiscoveryBudget returns the discovery-channel drain budget for this
// tick: larger while actively discovering, smaller otherwise.
func DiscoveryBudget(discovering bool) int {
	if discovering {
		return DiscoveryDrainBudget
	}
	return DiscoveryIdleDrainBudget
}

// Interval returns the target frame interval for an activity class.
func (a Activity) Interval() time.Duration {
	switch a {
	case ActivityDiscovery:
		return DiscoveryInterval
	case ActivityActive:
		return ActiveInterval
	default:
		return IdleInterval
	}
}

// Scheduler tracks the last draw instant to decide when the next one is due.
type Scheduler struct {
	lastDraw time.Time
}

// NewScheduler returns a Scheduler ready to classify its first tick.
func NewScheduler() *Scheduler { return &Scheduler{} }

// Classify picks the activity class for this tick: Discovery if discovery
// is in progress and admitted at least one entry this tick; Active if any
// dirty flag is set or input arrived within the last 500ms; Idle otherwise.
func (s *Scheduler) Classify(discovering, admittedThisTick, dirty bool, lastInputAt, now time.Time) Activity {
	if discovering && admittedThisTick {
		return ActivityDiscovery
	}
	if dirty || now.Sub(lastInputAt) < InputActiveWindow {
		return ActivityActive
	}
	return ActivityIdle
}

// ShouldDraw reports whether a frame is due now. If not due, it returns the
// remaining sleep (floored at MinSleep) until it would be.
func (s *Scheduler) ShouldDraw(dirty bool, now time.Time, target time.Duration) (due bool, sleep time.Duration) {
	if dirty {
		return true, 0
	}
	elapsed := now.Sub(s.lastDraw)
	if elapsed >= target {
		return true, 0
	}
	remaining := target - elapsed
	if remaining < MinSleep {
		remaining = MinSleep
	}
	return false, remaining
}

// MarkDrawn records that a frame was just submitted to the terminal
// back-end, resetting the interval clock.
func (s *Scheduler) MarkDrawn(now time.Time) { s.lastDraw = now }
