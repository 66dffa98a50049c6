// Package input implements the input router (C8): it maps terminal key
// events to app-state transitions per the key-binding table in spec.md
// §4.8, plus a confirm-before-delete safety net authored fresh for this
// repo (not sourced from original_source/, which deletes immediately —
// see DESIGN.md) as a safety net consistent with spec.md §1's "no undo
// once a deletion worker has started" rationale.
//
// Routing is grounded on bubbletea's tea.KeyMsg.String()-based switch
// dispatch, the same shape used by the Mole disk-usage analyzer's
// updateKey in other_examples (see DESIGN.md).
package input

import "github.com/kalbhor/reap/internal/appstate"

// Router maps key strings (as produced by tea.KeyMsg.String()) to state
// transitions. The zero value is ready to use.
type Router struct {
	armed    bool
	armedKey string
}

// NewRouter returns a Router ready to dispatch keys.
func NewRouter() *Router { return &Router{} }

// Route applies one key event to st. It reports quit=true when the
// program should exit (q or Esc); all other keys are no-ops on an empty
// or non-applicable state (spec.md §4.8: "Keystrokes that require a
// non-empty list or non-zero selection are no-ops otherwise" — the
// individual State methods already guard on emptiness, so Route does not
// need to duplicate those checks).
func (r *Router) Route(key string, st *appstate.State) (quit bool) {
	switch key {
	case "q", "esc":
		return true
	case "up", "k":
		st.Previous()
		r.disarm()
	case "down", "j":
		st.Next()
		r.disarm()
	case "left":
		st.PreviousPage()
		r.disarm()
	case "right":
		st.NextPage()
		r.disarm()
	case "home":
		st.First()
		r.disarm()
	case "end":
		st.Last()
		r.disarm()
	case " ":
		st.ToggleSelectionCurrent()
		r.disarm()
	case "a":
		st.SelectAll()
		r.disarm()
	case "d":
		// Precedence: bare d means deselect-all; ctrl+d (below) means
		// delete-current. These must never collide — bubbletea reports
		// them as distinct key strings ("d" vs "ctrl+d").
		st.DeselectAll()
		r.disarm()
	case "s":
		st.ToggleSelectionMode()
		r.disarm()
	case "f":
		r.confirmOrArm("f", st.RequestDeleteCurrent)
	case "c":
		r.confirmOrArm("c", st.RequestDeleteSelected)
	case "ctrl+d", "ctrl+x":
		st.RequestDeleteCurrent()
		r.disarm()
	default:
		r.disarm()
	}
	return false
}

// confirmOrArm implements the double-press safety net: the first press of
// a delete-triggering key arms it; a second press of the *same* key
// commits the deletion. Any other key in between disarms it (see Route's
// default case and every other branch's r.disarm() call).
func (r *Router) confirmOrArm(key string, commit func()) {
	if r.armed && r.armedKey == key {
		commit()
		r.disarm()
		return
	}
	r.armed = true
	r.armedKey = key
}

func (r *Router) disarm() {
	r.armed = false
	r.armedKey = ""
}

// Armed reports whether a delete key is awaiting confirmation, and which
// one — the view uses this to show a "press f again to confirm" status
// line.
func (r *Router) Armed() (key string, armed bool) {
	return r.armedKey, r.armed
}
