// Package delpriority implements the deletion engine's priority work
// queue: tasks ordered Small < Medium < Large < Huge, ties broken by FIFO
// submission order (spec.md §4.4).
//
// The teacher's pack contains a hand-rolled min-heap (GoSize's minHeap,
// ordered purely by int64 size, used to keep the top-K largest items). Its
// push/up/down binary-heap shape is the right precedent for a priority
// work queue, but the ordering key here is composite (priority class, then
// submission sequence), which container/heap expresses directly through a
// Less method instead of re-deriving sift-up/down by hand.
package delpriority

import (
	"container/heap"
	"sync"

	"github.com/kalbhor/reap/internal/model"
)

// Queue is a thread-safe priority queue of deletion tasks.
type Queue struct {
	mu   sync.Mutex
	h    taskHeap
	next uint64
}

// NewQueue returns an empty priority queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Push enqueues a task. Its priority is assumed already classified
// (see model.ClassifyPriority); Push stamps the task with a monotonically
// increasing sequence number to break priority ties in FIFO order.
func (q *Queue) Push(task model.DeletionTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	task.SetSeq(q.next)
	q.next++
	heap.Push(&q.h, task)
}

// Pop removes and returns the highest-priority task (lowest Priority value,
// then lowest sequence number), and true. If the queue is empty it returns
// the zero value and false.
func (q *Queue) Pop() (model.DeletionTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.h.Len() == 0 {
		return model.DeletionTask{}, false
	}
	t := heap.Pop(&q.h).(model.DeletionTask)
	return t, true
}

// Len reports the number of queued (not yet dequeued) tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.h.Len()
}

// taskHeap implements heap.Interface over deletion tasks.
type taskHeap []model.DeletionTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Seq() < h[j].Seq()
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(model.DeletionTask))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
