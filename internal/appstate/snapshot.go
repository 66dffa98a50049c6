package appstate

import (
	"sort"

	"github.com/kalbhor/reap/internal/model"
)

// TopEntriesCount bounds the largest-entries sidebar (see TopEntries).
const TopEntriesCount = 5

// Snapshot is the read-only state slice the view builder (C7) maps to a
// frame. It is built once per draw, never mutated, and holds no reference
// back into State's internals beyond the entries slice header (view code
// must not mutate it).
type Snapshot struct {
	Entries         []model.DirEntry
	SelectedIndex   int
	CurrentPage     int
	ItemsPerPage    int
	TotalPages      int
	SelectionMode   bool
	DiscoveryStatus DiscoveryStatus
	DiscoveryErr    error
	Discovered      int
	Admitted        int
	Ledger          model.Ledger
	TopEntries      []model.DirEntry
}

// Snapshot captures the current state for the view builder. The entries
// slice is shared, not copied — State never mutates individual elements in
// place after this call within the same tick (all mutation happens before
// the scheduler asks for a frame), so sharing is safe for the draw.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Entries:         s.entries,
		SelectedIndex:   s.selectedIndex,
		CurrentPage:     s.currentPage,
		ItemsPerPage:    s.itemsPerPage,
		TotalPages:      s.TotalPages(),
		SelectionMode:   s.selectionMode,
		DiscoveryStatus: s.discoveryStatus,
		DiscoveryErr:    s.discoveryErr,
		Discovered:      s.discoveredCount,
		Admitted:        s.admittedCount,
		Ledger:          s.ledger,
		TopEntries:      s.TopEntries(TopEntriesCount),
	}
}

// TopEntries returns up to n entries with a completed size, sorted largest
// first — a read-only derived view, not a reordering of the canonical
// entries slice (which stays in admission order so path-index caching and
// the pagination invariant are unaffected). Grounded on the original
// implementation's own admission-time sort (`directory_infos.sort_by(|a,
// b| b.size.cmp(&a.size))` in its directory-scan routine): reap computes
// the same ordering on demand instead of baking it into storage, since
// entries arrive incrementally rather than all at once.
func (s *State) TopEntries(n int) []model.DirEntry {
	completed := make([]model.DirEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.CalcStatus == model.CalcCompleted {
			completed = append(completed, e)
		}
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i].Size > completed[j].Size })
	if len(completed) > n {
		completed = completed[:n]
	}
	return completed
}

// VisibleEntries returns the slice of entries on the current page.
func (sn Snapshot) VisibleEntries() []model.DirEntry {
	start := sn.CurrentPage * sn.ItemsPerPage
	if start >= len(sn.Entries) {
		return nil
	}
	end := start + sn.ItemsPerPage
	if end > len(sn.Entries) {
		end = len(sn.Entries)
	}
	return sn.Entries[start:end]
}
