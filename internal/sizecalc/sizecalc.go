// Package sizecalc computes per-directory byte totals on a bounded worker
// pool without blocking discovery or the render loop.
//
// # Architecture Overview
//
// A fixed pool of worker goroutines consumes submissions from a job queue
// and emits completed totals on a results channel, keyed by path (never by
// index — see spec.md §4.5 and §5 for why index-keying is forbidden).
//
// # Concurrency Model
//
//  1. WORKER GOROUTINES (fixed pool, default 4)
//     - Each worker pulls a path off jobCh and walks its subtree
//     - Results are pushed onto resultsCh, never written to shared state
//       directly — app state is the only consumer and does all mutation
//       on its own goroutine
//
//  2. Pool.Close closes jobCh; workers finish the jobs already queued, and
//     resultsCh is closed once all workers finish
//
// This worker-pool/job-queue shape is the same one the teacher's verifier
// uses (N workers, a pending counter, channel-based fan-in) with the
// progressive head/tail/chunk staged-hashing state machine removed: reap
// needs one full subtree byte-sum per submission, not incremental
// elimination of non-duplicates.
package sizecalc

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kalbhor/reap/internal/model"
)

// DefaultWorkers is the default size-calc pool size (spec.md §4.3).
const DefaultWorkers = 4

// Pool computes directory sizes on a bounded worker pool. Create with New,
// Submit paths, drain Results, and Close when done.
type Pool struct {
	jobCh   chan string
	results chan model.SizeMsg
	wg      sync.WaitGroup
	once    sync.Once
}

// New starts a Pool with the given number of workers (DefaultWorkers if
// workers <= 0).
func New(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool{
		jobCh:   make(chan string, 1024),
		results: make(chan model.SizeMsg, 1024),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
	return p
}

// Submit enqueues path for size computation. Submit must not be called
// after Close.
func (p *Pool) Submit(path string) {
	p.jobCh <- path
}

// Results returns the channel of completed size computations.
func (p *Pool) Results() <-chan model.SizeMsg {
	return p.results
}

// Close stops accepting new submissions and lets in-flight work drain.
// Safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobCh) })
}

func (p *Pool) work() {
	defer p.wg.Done()
	for path := range p.jobCh {
		p.results <- computeOne(path)
	}
}

// computeOne sums regular-file byte lengths under path. Symlinks are not
// followed (see DESIGN.md Open Questions). Unreadable subtrees contribute
// 0 and do not fail the whole computation — calc_status still becomes
// Completed with whatever partial total was accumulated, per spec.md §4.3.
func computeOne(path string) model.SizeMsg {
	start := time.Now()
	var total uint64

	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree: skip, keep partial total
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			total += uint64(info.Size())
		}
		return nil
	})

	msg := model.SizeMsg{Path: path, Size: total, Duration: time.Since(start)}
	if walkErr != nil && os.IsNotExist(walkErr) {
		// The root of the walk vanished (e.g. deleted mid-calc): report
		// whatever partial total had accumulated, same as an unreadable
		// subtree — this is still "Completed", not an error, since the
		// spec reserves size-calc Error for cases the caller needs to
		// surface per-entry, and a raced-away root is not actionable.
		return msg
	}
	return msg
}

// ParentModTime reads the modification time of path's parent directory,
// per spec.md §4.3 ("last_modified source"): the reported mtime is the
// parent's, not the match's own, because it better reflects "when this
// project was last touched."
func ParentModTime(path string) (time.Time, bool) {
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
