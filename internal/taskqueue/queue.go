// Package taskqueue provides an unbounded, lock-free, multi-producer
// multi-consumer FIFO queue based on the Michael & Scott algorithm.
//
// Push always succeeds and never blocks. Pop never blocks either: it
// returns the oldest element, or reports that the queue was observed
// empty. Len and Empty are approximate under concurrent use and must be
// treated as hints only.
//
// Node reclamation is delegated to the garbage collector. A node that has
// been unlinked by a successful head CAS is unreachable from the queue,
// but stays valid for any goroutine still holding a reference from an
// earlier load, so the classic use-after-free race of manually managed
// implementations cannot occur here.
package taskqueue

import "sync/atomic"

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Queue is a lock-free FIFO queue safe for any number of concurrent
// producers and consumers. The zero value is not usable; call New.
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
	size atomic.Int64
}

// New returns an empty queue. Head and tail start out pointing at a
// sentinel node that is never returned to callers.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	sentinel := &node[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Push appends v to the back of the queue.
func (q *Queue[T]) Push(v T) {
	n := &node[T]{value: v}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail != q.tail.Load() {
			continue
		}
		if next != nil {
			// Tail lags behind the last linked node, help it forward.
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			q.size.Add(1)
			return
		}
	}
}

// Pop removes and returns the element at the front of the queue. The
// second return value is false if the queue was observed empty.
func (q *Queue[T]) Pop() (T, bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			continue
		}
		if next == nil {
			var zero T
			return zero, false
		}
		if head == tail {
			// A producer linked a node but has not advanced tail yet.
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		// The payload must be read before the head CAS; once head has
		// advanced, the node counts as consumed.
		v := next.value
		if q.head.CompareAndSwap(head, next) {
			q.size.Add(-1)
			return v, true
		}
	}
}

// Len reports the approximate number of queued elements.
func (q *Queue[T]) Len() int {
	n := q.size.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Empty reports whether the queue appears empty.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}
