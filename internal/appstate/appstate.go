// Package appstate implements the application state machine (C5): the
// single authoritative aggregator that merges the discovery, size, and
// deletion channels into one consistent, paginated view model.
//
// All mutation happens through the ApplyDiscovery/ApplySize/ApplyDeletion and
// navigation/selection methods, which are meant to be called only from the
// single main/render goroutine (spec.md §5: "mutations happen only on the
// UI thread"). State owns no goroutines; its only I/O is the best-effort
// parent-directory stat made when an entry is admitted. The wiring layer
// (internal/tui) drains the upstream channels and calls into State.
//
// No teacher file owns an equivalent live aggregator — the teacher's
// pipeline stages hand off slices between phases rather than maintaining a
// mutable running model — so the path→index cache and admission-buffer
// shape here are built directly from spec.md §3/§4.5 invariants, informed
// by the bubbletea Elm-model shape used elsewhere in the pack (see
// DESIGN.md).
package appstate

import (
	"time"

	"github.com/kalbhor/reap/internal/model"
	"github.com/kalbhor/reap/internal/sizecalc"
	"github.com/kalbhor/reap/internal/sizefmt"
)

// DiscoveryStatus mirrors spec.md §3's discovery_status enum.
type DiscoveryStatus int

const (
	DiscoveryNotStarted DiscoveryStatus = iota
	DiscoveryDiscovering
	DiscoveryComplete
	DiscoveryFailed
)

// DefaultBatchSize is the admission batch size (spec.md §3, default 5).
const DefaultBatchSize = 5

// DefaultItemsPerPage is used until the terminal back-end reports a usable
// list height.
const DefaultItemsPerPage = 20

// SizeSubmitter is the C3 collaborator State submits admitted paths to.
type SizeSubmitter interface {
	Submit(path string)
}

// DeletionSubmitter is the C4 collaborator State submits deletion tasks to.
type DeletionSubmitter interface {
	Submit(task model.DeletionTask)
}

// State is the authoritative app-state aggregator.
type State struct {
	entries   []model.DirEntry
	pathIndex map[string]int

	pending   []string
	batchSize int

	selectedIndex int
	currentPage   int
	itemsPerPage  int
	selectionMode bool

	discoveryStatus DiscoveryStatus
	discoveryErr    error
	discoveredCount int
	admittedCount   int

	ledger model.Ledger
	dirty  bool

	lastInputAt time.Time

	sizePool  SizeSubmitter
	delEngine DeletionSubmitter
}

// New creates an empty State wired to the given size-calc and deletion
// collaborators. batchSize <= 0 uses DefaultBatchSize.
func New(sizePool SizeSubmitter, delEngine DeletionSubmitter, batchSize int) *State {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &State{
		pathIndex:       make(map[string]int),
		batchSize:       batchSize,
		itemsPerPage:    DefaultItemsPerPage,
		discoveryStatus: DiscoveryNotStarted,
		sizePool:        sizePool,
		delEngine:       delEngine,
	}
}

// SetItemsPerPage updates the page size, as derived each frame from the
// terminal's usable list height (spec.md §4.5).
func (s *State) SetItemsPerPage(n int) {
	if n <= 0 {
		n = 1
	}
	if n == s.itemsPerPage {
		return
	}
	s.itemsPerPage = n
	s.clampPagination()
	s.dirty = true
}

// ---- discovery / admission (spec.md §4.5) ----

// ApplyDiscovery applies one discovery message.
func (s *State) ApplyDiscovery(msg model.DiscoveryMsg) {
	switch msg.Kind {
	case model.DiscoveryFound:
		s.discoveryStatus = DiscoveryDiscovering
		s.discoveredCount++
		s.pending = append(s.pending, msg.Path)
		if len(s.pending) >= s.batchSize {
			s.admitPending()
		}
		s.dirty = true
	case model.DiscoveryComplete:
		s.admitPending()
		s.discoveryStatus = DiscoveryComplete
		s.dirty = true
	case model.DiscoveryError:
		s.discoveryStatus = DiscoveryFailed
		s.discoveryErr = msg.Error
		s.dirty = true
	}
}

// admitPending promotes the whole pending buffer, in order, into the live
// entry list, initializing calc state and submitting each to the size
// calculator. This is the only place entries are created — spec.md's
// "monotone admission" property (entries only grow, never removed).
func (s *State) admitPending() {
	for _, path := range s.pending {
		entry := model.DirEntry{Path: path, CalcStatus: model.CalcNotStarted}
		if mt, ok := sizecalc.ParentModTime(path); ok {
			entry.LastModified = mt
			entry.HasLastModified = true
			entry.LastModifiedDisplay = mt.Format("2006-01-02 15:04")
		} else {
			entry.LastModifiedDisplay = "Unknown"
		}
		entry.SizeDisplay = "Calculating…"

		idx := len(s.entries)
		s.entries = append(s.entries, entry)
		s.pathIndex[path] = idx
		s.admittedCount++

		if s.sizePool != nil {
			s.sizePool.Submit(path)
		}
	}
	s.pending = s.pending[:0]
	s.clampSelection()
}

// ---- size updates (spec.md §4.5, path-keyed) ----

// ApplySize applies one size-calc result, looked up by path (never index).
func (s *State) ApplySize(msg model.SizeMsg) {
	idx, ok := s.findIndex(msg.Path)
	if !ok {
		return // raced deletion of an entry that no longer exists is not possible (entries are never removed); a miss here means the path was never admitted
	}
	e := &s.entries[idx]
	e.CalcDuration = msg.Duration
	e.HasCalcDuration = true
	if msg.Err != nil {
		e.CalcStatus = model.CalcError
		e.CalcError = msg.Err.Error()
		s.dirty = true
		return
	}
	e.Size = msg.Size
	e.SizeDisplay = sizefmt.Bytes(msg.Size)
	e.CalcStatus = model.CalcCompleted
	s.dirty = true
}

// ---- deletion updates (spec.md §4.5) ----

// ApplyDeletion applies one deletion-engine message, looked up by EntryKey.
func (s *State) ApplyDeletion(msg model.DeletionMsg) {
	idx, ok := s.findIndex(msg.EntryKey)
	if !ok {
		return
	}
	e := &s.entries[idx]
	if msg.Progress {
		e.DeletionStatus = model.DeletionDeleting
		s.dirty = true
		return
	}
	if msg.Success {
		s.ledger.Credit(e.Path, e.Size, time.Now())
		e.DeletionStatus = model.DeletionDeleted
	} else {
		e.DeletionStatus = model.DeletionError
		if msg.Err != nil {
			e.DeletionError = msg.Err.Error()
		}
	}
	s.dirty = true
}

// findIndex looks up path in the cache; on a miss it falls back to a
// linear scan and repairs the cache entry it finds, per spec.md §4.5
// ("fall back to linear scan and repair cache on miss").
func (s *State) findIndex(path string) (int, bool) {
	if idx, ok := s.pathIndex[path]; ok && idx < len(s.entries) && s.entries[idx].Path == path {
		return idx, true
	}
	for i := range s.entries {
		if s.entries[i].Path == path {
			s.pathIndex[path] = i
			return i, true
		}
	}
	return 0, false
}

// ---- deletion requests (C8 → C4, spec.md §4.8) ----

// RequestDeleteCurrent enqueues the selected entry for deletion. No-op on
// an empty list.
func (s *State) RequestDeleteCurrent() {
	if len(s.entries) == 0 || s.delEngine == nil {
		return
	}
	s.submitDeletion(s.selectedIndex)
}

// RequestDeleteSelected enqueues every selected entry for deletion.
func (s *State) RequestDeleteSelected() {
	if s.delEngine == nil {
		return
	}
	for i := range s.entries {
		if s.entries[i].Selected {
			s.submitDeletion(i)
		}
	}
}

func (s *State) submitDeletion(idx int) {
	e := &s.entries[idx]
	if e.DeletionStatus == model.DeletionDeleting || e.DeletionStatus == model.DeletionDeleted {
		return
	}
	s.delEngine.Submit(model.DeletionTask{
		Path:     e.Path,
		EntryKey: e.Path,
		Priority: model.ClassifyPriority(e.Size),
		Size:     e.Size,
	})
	e.DeletionStatus = model.DeletionDeleting
	s.dirty = true
}

// ---- navigation (spec.md §4.5, §4.8) ----

func (s *State) Next() {
	if len(s.entries) == 0 {
		return
	}
	s.selectedIndex = (s.selectedIndex + 1) % len(s.entries)
	s.recomputePage()
	s.dirty = true
}

func (s *State) Previous() {
	if len(s.entries) == 0 {
		return
	}
	s.selectedIndex = (s.selectedIndex - 1 + len(s.entries)) % len(s.entries)
	s.recomputePage()
	s.dirty = true
}

func (s *State) First() {
	if len(s.entries) == 0 {
		return
	}
	s.selectedIndex = 0
	s.recomputePage()
	s.dirty = true
}

func (s *State) Last() {
	if len(s.entries) == 0 {
		return
	}
	s.selectedIndex = len(s.entries) - 1
	s.recomputePage()
	s.dirty = true
}

// NextPage clamps at the last page (spec.md §4.5).
func (s *State) NextPage() {
	total := s.TotalPages()
	if total == 0 || s.currentPage >= total-1 {
		return
	}
	s.currentPage++
	s.GoToPage(s.currentPage)
}

// PreviousPage clamps at page 0.
func (s *State) PreviousPage() {
	if s.currentPage == 0 {
		return
	}
	s.currentPage--
	s.GoToPage(s.currentPage)
}

// GoToPage snaps the selection to the start of page p.
func (s *State) GoToPage(p int) {
	total := s.TotalPages()
	if total == 0 {
		return
	}
	if p < 0 {
		p = 0
	}
	if p >= total {
		p = total - 1
	}
	s.currentPage = p
	s.selectedIndex = p * s.itemsPerPage
	s.clampSelection()
	s.dirty = true
}

func (s *State) recomputePage() {
	s.currentPage = s.selectedIndex / s.itemsPerPage
}

func (s *State) clampSelection() {
	if len(s.entries) == 0 {
		s.selectedIndex = 0
		s.currentPage = 0
		return
	}
	if s.selectedIndex >= len(s.entries) {
		s.selectedIndex = len(s.entries) - 1
	}
	s.recomputePage()
}

func (s *State) clampPagination() {
	total := s.TotalPages()
	if total == 0 {
		s.currentPage = 0
		return
	}
	if s.currentPage >= total {
		s.currentPage = total - 1
	}
	s.recomputePage()
}

// TotalPages returns ceil(len(entries)/itemsPerPage), 0 if empty.
func (s *State) TotalPages() int {
	n := len(s.entries)
	if n == 0 {
		return 0
	}
	return (n + s.itemsPerPage - 1) / s.itemsPerPage
}

// ---- selection (spec.md §4.5, §4.8) ----

func (s *State) ToggleSelectionCurrent() {
	if len(s.entries) == 0 {
		return
	}
	e := &s.entries[s.selectedIndex]
	e.Selected = !e.Selected
	s.dirty = true
}

// SelectAll is idempotent (spec.md §8 property 7).
func (s *State) SelectAll() {
	for i := range s.entries {
		s.entries[i].Selected = true
	}
	s.dirty = true
}

// DeselectAll is idempotent (spec.md §8 property 7).
func (s *State) DeselectAll() {
	for i := range s.entries {
		s.entries[i].Selected = false
	}
	s.dirty = true
}

func (s *State) ToggleSelectionMode() {
	s.selectionMode = !s.selectionMode
	s.dirty = true
}

// SelectedCount is an O(n) read, acceptable for typical n (spec.md §4.5).
func (s *State) SelectedCount() int {
	n := 0
	for i := range s.entries {
		if s.entries[i].Selected {
			n++
		}
	}
	return n
}

// SelectedTotalSize is an O(n) read.
func (s *State) SelectedTotalSize() uint64 {
	var total uint64
	for i := range s.entries {
		if s.entries[i].Selected {
			total += s.entries[i].Size
		}
	}
	return total
}

// ---- misc accessors ----

// Touch records the instant of the most recent input event, used by the
// frame scheduler to classify activity (spec.md §4.6).
func (s *State) Touch(at time.Time) { s.lastInputAt = at }

// LastInputAt returns the instant of the most recent input event.
func (s *State) LastInputAt() time.Time { return s.lastInputAt }

// Dirty reports whether any mutation since the last ClearDirty affects
// what the user sees.
func (s *State) Dirty() bool { return s.dirty }

// ClearDirty clears the dirty flag after a successful draw.
func (s *State) ClearDirty() { s.dirty = false }

// Len returns the number of live (admitted) entries.
func (s *State) Len() int { return len(s.entries) }

// SelectedIndex returns the current cursor position.
func (s *State) SelectedIndex() int { return s.selectedIndex }

// CurrentPage returns the current page index.
func (s *State) CurrentPage() int { return s.currentPage }

// Status returns the discovery lifecycle status.
func (s *State) Status() DiscoveryStatus { return s.discoveryStatus }

// DiscoveryError returns the root-discovery error, if any.
func (s *State) DiscoveryError() error { return s.discoveryErr }

// Counts returns (discovered, admitted) totals for the progress line.
func (s *State) Counts() (discovered, admitted int) {
	return s.discoveredCount, s.admittedCount
}

// Ledger returns a copy of the freed-space ledger.
func (s *State) Ledger() model.Ledger { return s.ledger }
