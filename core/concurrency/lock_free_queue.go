// File: core/concurrency/lock_free_queue.go
// Package concurrency provides lock-free primitives for pool free-lists.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded MPMC queue used to shuttle free slot indices between
// concurrent acquirers and releasers without taking a lock.

package concurrency

import "sync/atomic"

const cacheLinePad = 64

// LockFreeQueue is a bounded MPMC queue using per-cell sequence
// numbers, based on the pattern by Dmitry Vyukov.
type LockFreeQueue[T any] struct {
	head  uint64
	_     [cacheLinePad]byte
	tail  uint64
	_     [cacheLinePad]byte
	mask  uint64
	cells []cell[T]
}

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// NewLockFreeQueue creates a queue with capacity rounded up to a power
// of two (minimum 2).
func NewLockFreeQueue[T any](capacity int) *LockFreeQueue[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}

	q := &LockFreeQueue[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range q.cells {
		q.cells[i].sequence.Store(uint64(i))
	}
	return q
}

// Enqueue adds val; returns false if the queue is full.
func (q *LockFreeQueue[T]) Enqueue(val T) bool {
	for {
		tail := atomic.LoadUint64(&q.tail)
		c := &q.cells[tail&q.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		default:
			// tail moved, retry
		}
	}
}

// Dequeue removes and returns an item; ok is false if empty.
func (q *LockFreeQueue[T]) Dequeue() (item T, ok bool) {
	for {
		head := atomic.LoadUint64(&q.head)
		c := &q.cells[head&q.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
				item = c.data
				var zero T
				c.data = zero
				c.sequence.Store(head + q.mask + 1)
				return item, true
			}
		case dif < 0:
			var zero T
			return zero, false // empty
		default:
			// head moved, retry
		}
	}
}

// Len returns an approximate number of queued items.
func (q *LockFreeQueue[T]) Len() int {
	tail := atomic.LoadUint64(&q.tail)
	head := atomic.LoadUint64(&q.head)
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the queue capacity.
func (q *LockFreeQueue[T]) Cap() int {
	return len(q.cells)
}
