// Package view implements the view builder (C7): a pure mapping from a
// read-only appstate snapshot to a structured frame of styled lines. It
// performs no I/O and mutates nothing.
//
// Row styling is grounded on lipgloss usage from
// invowk-invowk/internal/tui/spin.go (lipgloss.NewStyle().Foreground(...));
// the pagination-aware row slicing and status-glyph-per-row shape is
// grounded on the Mole disk-usage analyzer's View() (see DESIGN.md).
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kalbhor/reap/internal/appstate"
	"github.com/kalbhor/reap/internal/model"
	"github.com/kalbhor/reap/internal/sizefmt"
)

var (
	styleHighlight = lipgloss.NewStyle().Reverse(true)
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleBanner    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Frame is the structured output consumed by the terminal back-end: each
// field is a fully-styled, ready-to-print line (or set of lines).
type Frame struct {
	Header  []string
	Rows    []string
	Details []string
	Largest []string
	Footer  []string
}

// Params carries the per-draw layout inputs that are not part of app state
// (terminal dimensions), kept separate so Build stays a pure function of
// its arguments.
type Params struct {
	Width  int
	Height int
	Root   string
	Pattern string
	Elapsed string // scan-elapsed display, formatted by the caller
}

// Build maps a snapshot to a Frame. Only the current page is rendered, into
// a row slice pre-sized to the visible page; nothing is allocated per cell.
func Build(snap appstate.Snapshot, p Params) Frame {
	return Frame{
		Header:  buildHeader(snap, p),
		Rows:    buildRows(snap),
		Details: buildDetails(snap),
		Largest: buildLargest(snap),
		Footer:  buildFooter(snap),
	}
}

func buildHeader(snap appstate.Snapshot, p Params) []string {
	lines := make([]string, 0, 3)
	lines = append(lines, fmt.Sprintf("reap %s %s", p.Pattern, p.Root))
	lines = append(lines, progressLine(snap, p.Elapsed))
	lines = append(lines, fmt.Sprintf("page %d/%d  found %d  admitted %d",
		pageOneIndexed(snap), maxInt(snap.TotalPages, 1), snap.Discovered, snap.Admitted))
	if snap.DiscoveryStatus == appstate.DiscoveryFailed && snap.DiscoveryErr != nil {
		lines = append(lines, styleBanner.Render("discovery error: "+snap.DiscoveryErr.Error()))
	}
	return lines
}

func progressLine(snap appstate.Snapshot, elapsed string) string {
	switch snap.DiscoveryStatus {
	case appstate.DiscoveryNotStarted:
		return "starting…"
	case appstate.DiscoveryDiscovering:
		return fmt.Sprintf("discovering… (%s elapsed)", elapsed)
	case appstate.DiscoveryComplete:
		return fmt.Sprintf("discovery complete (%s)", elapsed)
	default:
		return "discovery failed"
	}
}

func pageOneIndexed(snap appstate.Snapshot) int {
	if snap.TotalPages == 0 {
		return 0
	}
	return snap.CurrentPage + 1
}

// buildRows composes one line per visible entry on the current page
// (spec.md §4.7 "visible row composition").
func buildRows(snap appstate.Snapshot) []string {
	visible := snap.VisibleEntries()
	rows := make([]string, len(visible))
	pageStart := snap.CurrentPage * snap.ItemsPerPage

	for i, e := range visible {
		idx := pageStart + i
		rows[i] = renderRow(e, idx == snap.SelectedIndex)
	}
	return rows
}

func renderRow(e model.DirEntry, highlighted bool) string {
	glyph := "┐" // closed folder-ish glyph
	if e.Selected {
		glyph = "❒" // open/ticked glyph for multi-selected
	}
	tick := " "
	if e.Selected {
		tick = "✓"
	}

	path := strings.TrimPrefix(e.Path, "./")

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %-8s %s", glyph, tick, sizeOrPlaceholder(e), path)

	if e.HasCalcDuration && e.CalcStatus == model.CalcCompleted {
		fmt.Fprintf(&b, " (%s)", sizefmt.Duration(e.CalcDuration))
	}

	if g := statusGlyph(e); g != "" {
		fmt.Fprintf(&b, " %s", g)
	}

	line := b.String()
	if highlighted {
		return styleHighlight.Render(line)
	}
	if e.Selected {
		return styleSelected.Render(line)
	}
	return line
}

func sizeOrPlaceholder(e model.DirEntry) string {
	if e.SizeDisplay != "" {
		return e.SizeDisplay
	}
	return "Calculating…"
}

// statusGlyph renders the calc/deletion status glyph for a row: hourglass
// while calculating, an error mark on calc error; a spinner/trash/warning
// glyph for deletion states; empty when nothing to report.
func statusGlyph(e model.DirEntry) string {
	switch e.DeletionStatus {
	case model.DeletionDeleting:
		return "⟳" // rotating
	case model.DeletionDeleted:
		return "\U0001F5D1" // trash
	case model.DeletionError:
		return styleError.Render("⚠") // warning
	}
	switch e.CalcStatus {
	case model.CalcCalculating:
		return "⌛" // hourglass
	case model.CalcError:
		return styleError.Render("!")
	}
	return ""
}

// buildDetails renders the selected entry's metadata plus a freed-space
// summary.
func buildDetails(snap appstate.Snapshot) []string {
	lines := make([]string, 0, 4)
	if snap.SelectedIndex < len(snap.Entries) {
		e := snap.Entries[snap.SelectedIndex]
		lines = append(lines, strings.TrimPrefix(e.Path, "./"))
		lines = append(lines, "modified: "+lastModifiedLine(e))
		if e.CalcStatus == model.CalcError {
			lines = append(lines, styleError.Render("size error: "+e.CalcError))
		}
		if e.DeletionStatus == model.DeletionError {
			lines = append(lines, styleError.Render("delete error: "+e.DeletionError))
		}
	}
	lines = append(lines, styleDim.Render(fmt.Sprintf("freed: %s (%d deletions)",
		sizefmt.Bytes(snap.Ledger.Total), len(snap.Ledger.History))))
	return lines
}

func lastModifiedLine(e model.DirEntry) string {
	if e.LastModifiedDisplay != "" {
		return e.LastModifiedDisplay
	}
	return "Unknown"
}

// buildLargest renders the largest-entries sidebar: up to
// appstate.TopEntriesCount completed entries, largest first (see
// appstate.State.TopEntries).
func buildLargest(snap appstate.Snapshot) []string {
	if len(snap.TopEntries) == 0 {
		return nil
	}
	lines := make([]string, 0, len(snap.TopEntries)+1)
	lines = append(lines, styleDim.Render("largest:"))
	for _, e := range snap.TopEntries {
		lines = append(lines, fmt.Sprintf("  %s  %s", e.SizeDisplay, strings.TrimPrefix(e.Path, "./")))
	}
	return lines
}

// buildFooter renders the key legend and found/selected counts.
func buildFooter(snap appstate.Snapshot) []string {
	legend := "q quit  ↑/k ↓/j move  ←/→ page  space select  a all  d none  f del  c del-selected"
	counts := fmt.Sprintf("%d found, %d selected (%s)",
		len(snap.Entries), selectedCount(snap), sizefmt.Bytes(selectedSize(snap)))
	return []string{legend, counts}
}

func selectedCount(snap appstate.Snapshot) int {
	n := 0
	for _, e := range snap.Entries {
		if e.Selected {
			n++
		}
	}
	return n
}

func selectedSize(snap appstate.Snapshot) uint64 {
	var total uint64
	for _, e := range snap.Entries {
		if e.Selected {
			total += e.Size
		}
	}
	return total
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
