// Package delete implements the priority-based parallel deletion engine
// (C4): a bounded worker pool draining a priority queue, performing
// recursive removal, and reporting per-item progress.
//
// # Processing shape
//
// Each worker, on acquiring a task: emits a Progress message, performs
// os.RemoveAll (the stdlib equivalent of `rm -rf`), then emits a terminal
// completion message. If the queue is empty the worker sleeps briefly and
// retries; workers never exit until Shutdown.
//
// This loop is grounded on the teacher's deduper processing loop (iterate
// work items, emit a typed per-item result, track an aggregate outcome)
// generalized from deduper's sequential single-goroutine loop to the fixed
// concurrent worker pool the teacher's own verifier uses, since deletion
// (unlike hardlink creation) is safely parallelizable per path.
package delete

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/kalbhor/reap/internal/delpriority"
	"github.com/kalbhor/reap/internal/model"
)

// DefaultWorkers is the default deletion worker-pool size (spec.md §4.4).
const DefaultWorkers = 4

// pollInterval bounds how long an idle worker sleeps before re-checking
// the queue (spec.md §4.4: "sleeps briefly (≤10 ms)").
const pollInterval = 8 * time.Millisecond

// Engine runs a bounded worker pool against a priority queue of deletion
// tasks. Create with New; it starts immediately and runs until Shutdown.
type Engine struct {
	queue   *delpriority.Queue
	results chan model.DeletionMsg
	active  atomic.Int64
	done    chan struct{}
}

// New starts an Engine with the given number of workers (DefaultWorkers if
// workers <= 0).
func New(workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	e := &Engine{
		queue:   delpriority.NewQueue(),
		results: make(chan model.DeletionMsg, 256),
		done:    make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go e.work()
	}
	return e
}

// Submit enqueues a deletion task. Submit never blocks the caller.
func (e *Engine) Submit(task model.DeletionTask) {
	e.queue.Push(task)
}

// Results returns the channel of progress and completion messages.
func (e *Engine) Results() <-chan model.DeletionMsg {
	return e.results
}

// ActiveCount returns the number of tasks currently being deleted.
func (e *Engine) ActiveCount() int64 { return e.active.Load() }

// QueuedCount returns the number of tasks waiting to be picked up.
func (e *Engine) QueuedCount() int { return e.queue.Len() }

// IsIdle reports whether no task is queued or in flight.
func (e *Engine) IsIdle() bool { return e.QueuedCount() == 0 && e.ActiveCount() == 0 }

// Shutdown makes each worker exit the next time it finds the queue empty;
// tasks already queued are still removed first. In-flight deletions are not
// interrupted — per spec.md §4.6 cancellation semantics, a worker finishes
// or crashes on process exit, it is never cancelled mid-removal.
func (e *Engine) Shutdown() { close(e.done) }

func (e *Engine) work() {
	for {
		task, ok := e.queue.Pop()
		if !ok {
			select {
			case <-e.done:
				return
			case <-time.After(pollInterval):
				continue
			}
		}

		e.active.Add(1)
		e.results <- model.DeletionMsg{EntryKey: task.EntryKey, Path: task.Path, Progress: true}

		err := os.RemoveAll(task.Path)

		e.active.Add(-1)
		if err != nil {
			e.results <- model.DeletionMsg{EntryKey: task.EntryKey, Path: task.Path, Success: false, Err: err}
			continue
		}
		e.results <- model.DeletionMsg{EntryKey: task.EntryKey, Path: task.Path, Success: true}
	}
}
