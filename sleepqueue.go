// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import (
	"container/heap"
	"time"
)

// A sleeper is a fiber parked until deadline.
type sleeper struct {
	fiber    *fiber
	deadline time.Time // carries a monotonic clock reading
	seq      uint64    // insertion order, breaks ties
}

// sleepHeap is a min-heap of sleepers, earliest deadline first.
type sleepHeap []sleeper

func (h sleepHeap) Len() int { return len(h) }

func (h sleepHeap) Less(i, j int) bool {
	if !h[i].deadline.Equal(h[j].deadline) {
		return h[i].deadline.Before(h[j].deadline)
	}
	return h[i].seq < h[j].seq
}

func (h sleepHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *sleepHeap) Push(x any) { *h = append(*h, x.(sleeper)) }

func (h *sleepHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = sleeper{}
	*h = old[:n-1]
	return s
}

// A sleepQueue holds fibers waiting for a timed wake-up.
// The zero value is ready to use and reads time.Now.
type sleepQueue struct {
	h   sleepHeap
	seq uint64
	now func() time.Time
}

func (q *sleepQueue) clock() time.Time {
	if q.now != nil {
		return q.now()
	}
	return time.Now()
}

func (q *sleepQueue) empty() bool {
	return len(q.h) == 0
}

func (q *sleepQueue) len() int {
	return len(q.h)
}

// putFor parks f until d has elapsed.
func (q *sleepQueue) putFor(f *fiber, d time.Duration) {
	q.seq++
	heap.Push(&q.h, sleeper{fiber: f, deadline: q.clock().Add(d), seq: q.seq})
}

// anyReady reports whether the earliest deadline has passed.
func (q *sleepQueue) anyReady() bool {
	return len(q.h) > 0 && !q.clock().Before(q.h[0].deadline)
}

// takeReady pops the earliest sleeper if its deadline has passed and
// returns its fiber. It returns nil otherwise; a sleeper is never taken
// early.
func (q *sleepQueue) takeReady() *fiber {
	if !q.anyReady() {
		return nil
	}
	return heap.Pop(&q.h).(sleeper).fiber
}

// minSleepTime returns the time left until the earliest deadline, or zero
// if the queue is empty or the deadline has passed.
func (q *sleepQueue) minSleepTime() time.Duration {
	if len(q.h) == 0 {
		return 0
	}
	return max(q.h[0].deadline.Sub(q.clock()), 0)
}
