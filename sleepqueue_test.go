// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSleepQueue() (*sleepQueue, *fakeClock) {
	c := &fakeClock{t: time.Unix(1000, 0)}
	return &sleepQueue{now: c.now}, c
}

func TestSleepQueueEmpty(t *testing.T) {
	q, _ := newTestSleepQueue()
	if !q.empty() || q.len() != 0 {
		t.Fatalf("new queue: empty=%v len=%d", q.empty(), q.len())
	}
	if q.anyReady() {
		t.Fatal("anyReady on empty queue")
	}
	if f := q.takeReady(); f != nil {
		t.Fatalf("takeReady on empty queue = %v", f)
	}
	if d := q.minSleepTime(); d != 0 {
		t.Fatalf("minSleepTime on empty queue = %v", d)
	}
}

func TestSleepQueueNeverEarly(t *testing.T) {
	q, c := newTestSleepQueue()
	f := &fiber{id: 1}
	q.putFor(f, 10*time.Millisecond)

	if got := q.minSleepTime(); got != 10*time.Millisecond {
		t.Fatalf("minSleepTime = %v, want 10ms", got)
	}
	c.advance(10*time.Millisecond - time.Nanosecond)
	if q.anyReady() {
		t.Fatal("sleeper ready 1ns before its deadline")
	}
	if got := q.takeReady(); got != nil {
		t.Fatal("takeReady returned a sleeper before its deadline")
	}
	if got := q.minSleepTime(); got != time.Nanosecond {
		t.Fatalf("minSleepTime = %v, want 1ns", got)
	}
	c.advance(time.Nanosecond)
	if got := q.takeReady(); got != f {
		t.Fatalf("takeReady at deadline = %v, want fiber 1", got)
	}
	if !q.empty() {
		t.Fatal("queue not empty after taking the only sleeper")
	}
}

func TestSleepQueueOverdue(t *testing.T) {
	q, c := newTestSleepQueue()
	q.putFor(&fiber{id: 1}, time.Millisecond)
	c.advance(time.Second)
	if got := q.minSleepTime(); got != 0 {
		t.Fatalf("minSleepTime of overdue sleeper = %v, want 0", got)
	}
}

func TestSleepQueueOrder(t *testing.T) {
	q, c := newTestSleepQueue()
	durations := []time.Duration{
		30 * time.Millisecond,
		10 * time.Millisecond,
		20 * time.Millisecond,
		10 * time.Millisecond, // same deadline as id 2
		0,
	}
	for i, d := range durations {
		q.putFor(&fiber{id: FiberID(i + 1)}, d)
	}
	if q.len() != len(durations) {
		t.Fatalf("len = %d, want %d", q.len(), len(durations))
	}

	c.advance(time.Hour)
	var got []FiberID
	for f := q.takeReady(); f != nil; f = q.takeReady() {
		got = append(got, f.id)
	}
	want := []FiberID{5, 2, 4, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("took %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("took %v, want %v", got, want)
		}
	}
}

func TestSleepQueuePartial(t *testing.T) {
	q, c := newTestSleepQueue()
	for i := 1; i <= 4; i++ {
		q.putFor(&fiber{id: FiberID(i)}, time.Duration(i)*time.Second)
	}
	c.advance(2 * time.Second)
	var n int
	for q.takeReady() != nil {
		n++
	}
	if n != 2 {
		t.Fatalf("took %d sleepers at t+2s, want 2", n)
	}
	if got := q.minSleepTime(); got != time.Second {
		t.Fatalf("minSleepTime = %v, want 1s", got)
	}
}

func TestFiberQueue(t *testing.T) {
	var q fiberQueue
	if !q.empty() || q.popFront() != nil {
		t.Fatal("zero queue is not empty")
	}
	for i := 1; i <= 3; i++ {
		q.pushBack(&fiber{id: FiberID(i)})
	}
	if q.len() != 3 {
		t.Fatalf("len = %d, want 3", q.len())
	}
	for i := 1; i <= 3; i++ {
		if f := q.popFront(); f == nil || f.id != FiberID(i) {
			t.Fatalf("popFront #%d = %v", i, f)
		}
	}
	if !q.empty() || q.len() != 0 {
		t.Fatal("queue not empty after popping everything")
	}
	q.pushBack(&fiber{id: 9})
	if f := q.popFront(); f.id != 9 {
		t.Fatalf("popFront after reuse = %d, want 9", f.id)
	}
}

func TestFiberStateString(t *testing.T) {
	tests := []struct {
		s    fiberState
		want string
	}{
		{fiberStarting, "starting"},
		{fiberRunnable, "runnable"},
		{fiberRunning, "running"},
		{fiberSleeping, "sleeping"},
		{fiberTerminated, "terminated"},
		{fiberState(42), "fiberState(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("fiberState(%d).String() = %q, want %q", uint32(tt.s), got, tt.want)
		}
	}
}
