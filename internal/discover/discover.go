// Package discover streams directories matching a literal basename pattern
// under a root, suppressing nested self-matches.
//
// # Architecture Overview
//
// The discoverer uses a concurrent fan-out architecture to walk directory
// trees while respecting system resource limits.
//
// # Concurrency Model
//
//  1. WALKER GOROUTINES (fan-out)
//     - One goroutine spawned per directory to list
//     - Concurrency limited by semaphore (walkerSem)
//     - Each walker: acquires semaphore → lists directory → releases
//       semaphore → spawns child walkers for unmatched subdirectories
//
//  2. MAIN GOROUTINE (orchestrator)
//     - Spawns the initial walker for root
//     - Waits for all walkers (walkerWg.Wait)
//     - Sends the terminal Complete or Error message
//
// Unlike a slice-collecting scan, the discoverer has no collector stage:
// the discovery channel itself is the fan-in, consumed directly by app
// state (spec.md's "channels as the only cross-thread contract").
//
// # Synchronization Primitives
//
//	┌─────────────┬──────────────────────────────────────────────┐
//	│ walkerSem   │ Limits concurrent directory reads             │
//	│ walkerWg    │ Tracks active walker goroutines                │
//	│ out         │ MPSC channel carrying Found/Complete/Error     │
//	└─────────────┴──────────────────────────────────────────────┘
//
// # Nested-match suppression
//
// When a directory's basename equals pattern, it is emitted and NOT
// descended into. This guarantees no emitted path is ever the ancestor of
// another (spec.md invariant 4) and means size-calc never walks into a
// match nested inside another match.
package discover

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/kalbhor/reap/internal/ignore"
	"github.com/kalbhor/reap/internal/model"
)

// ErrRootInvalid is sent as the terminal Error message when root does not
// exist or is not a directory.
var ErrRootInvalid = errors.New("root path does not exist or is not a directory")

// ErrPatternEmpty is sent as the terminal Error message when pattern is the
// empty string.
var ErrPatternEmpty = errors.New("pattern must not be empty")

// DefaultWalkers is the default concurrent-directory-read limit.
const DefaultWalkers = 8

// Stream walks the tree under root with concurrent walkers looking for
// directories whose basename equals pattern, emitting Found messages on out
// as they are discovered, followed by exactly one terminal Complete or Error
// message. The order of Found messages is not depth-first and not stable
// between runs. Stream returns only once the walk is exhausted: it cannot
// tell that the consumer has stopped reading, so a send on a full out that
// nobody drains blocks the walker.
func Stream(root, pattern string, ignoreSet *ignore.Set, workers int, out chan<- model.DiscoveryMsg) {
	if pattern == "" {
		out <- model.DiscoveryMsg{Kind: model.DiscoveryError, Error: ErrPatternEmpty}
		return
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		out <- model.DiscoveryMsg{Kind: model.DiscoveryError, Error: ErrRootInvalid}
		return
	}

	if workers <= 0 {
		workers = DefaultWalkers
	}

	w := &walker{
		pattern: pattern,
		ignore:  ignoreSet,
		sem:     model.NewSemaphore(workers),
		out:     out,
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		out <- model.DiscoveryMsg{Kind: model.DiscoveryError, Error: err}
		return
	}

	w.walk(absRoot)
	w.wg.Wait()

	out <- model.DiscoveryMsg{Kind: model.DiscoveryComplete}
}

type walker struct {
	pattern string
	ignore  *ignore.Set
	sem     model.Semaphore
	out     chan<- model.DiscoveryMsg
	wg      sync.WaitGroup
}

// walk spawns a goroutine that lists dir and recurses into unmatched,
// non-ignored subdirectories. Root-level errors are the caller's concern;
// walk only ever handles subtree errors, which are skipped silently per
// spec.md §4.2 ("permission errors on individual subtrees are skipped
// silently and do not abort the walk").
func (w *walker) walk(dir string) {
	w.wg.Add(1) // before spawn, to avoid a race with wg.Wait
	go func() {
		defer w.wg.Done()

		w.sem.Acquire()
		subdirs, err := w.listDirectory(dir)
		w.sem.Release()
		if err != nil {
			return // subtree error: skip silently
		}

		for _, sub := range subdirs {
			w.walk(sub)
		}
	}()
}

// listDirectory reads dir and returns the subdirectories that should be
// recursed into. Matches are emitted here (not recursed into); ignored
// directories are skipped entirely (neither emitted nor recursed into).
func (w *walker) listDirectory(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var subdirs []string
	const batchSize = 1000
	for {
		entries, err := f.ReadDir(batchSize)
		if len(entries) == 0 {
			if err != nil && err != io.EOF {
				return subdirs, err
			}
			break
		}

		for _, entry := range entries {
			if !w.isTraversableDir(entry) {
				continue
			}
			full := filepath.Join(dir, entry.Name())
			base := entry.Name()

			if w.ignore.Matches(base) {
				continue
			}
			if base == w.pattern {
				w.out <- model.DiscoveryMsg{Kind: model.DiscoveryFound, Path: full}
				continue // nested-match suppression: do not descend
			}
			subdirs = append(subdirs, full)
		}
	}
	return subdirs, nil
}

// isTraversableDir reports whether entry should be considered a
// directory for walking purposes. Symlinks are never followed — see
// DESIGN.md's Open Questions decision — so a symlink to a directory is
// treated the same as any other non-regular-directory entry: skipped.
func (w *walker) isTraversableDir(entry os.DirEntry) bool {
	return entry.Type().IsDir()
}
