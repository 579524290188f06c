// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import (
	"strconv"
	"sync/atomic"

	"tinyfiber/internal/execctx"
	"tinyfiber/internal/fatal"
	"tinyfiber/internal/gls"
	"tinyfiber/internal/stack"
)

// A FiberID identifies a fiber. Ids are assigned in increasing order
// across the whole process and are never reused.
type FiberID uint64

// Fiber states.
//
// Transitions happen on the scheduler loop after every switch back into
// it, or on the fiber itself right before it switches out:
//
//	Starting -> Runnable                 Spawn
//	Runnable -> Running                  picked by the loop
//	Running -> Runnable                  Yield
//	Running -> Sleeping                  SleepFor
//	Sleeping -> Runnable                 deadline passed
//	Running -> Terminated                routine returned or Terminate
type fiberState uint32

const (
	// fiberStarting means the fiber was just created and is not yet
	// on the run queue.
	fiberStarting fiberState = iota // 0

	// fiberRunnable means the fiber is on the run queue. It is not
	// executing user code.
	fiberRunnable // 1

	// fiberRunning means the fiber may execute user code. It is on
	// neither queue. 只有一个
	fiberRunning // 2

	// fiberSleeping means the fiber is parked on the sleep queue until
	// its deadline.
	fiberSleeping // 3

	// fiberTerminated means the routine is done. The scheduler destroys
	// the fiber as soon as it sees this state.
	fiberTerminated // 4
)

var fiberStateStrings = [...]string{
	fiberStarting:   "starting",
	fiberRunnable:   "runnable",
	fiberRunning:    "running",
	fiberSleeping:   "sleeping",
	fiberTerminated: "terminated",
}

func (s fiberState) String() string {
	if int(s) < len(fiberStateStrings) {
		return fiberStateStrings[s]
	}
	return "fiberState(" + strconv.Itoa(int(s)) + ")"
}

var (
	lastFiberID atomic.Uint64
	liveFibers  atomic.Int64
)

// A fiber is a coroutine with scheduling state.
type fiber struct {
	sched   *Scheduler
	routine func()
	stack   *stack.Stack
	context execctx.Context

	state fiberState
	id    FiberID

	schedlink *fiber // next fiber on the run queue
}

func newFiber(s *Scheduler, routine func(), pages int) *fiber {
	stk, err := stack.Allocate(pages)
	if err != nil {
		fatal.Throw("tinyfiber: cannot allocate fiber stack: " + err.Error())
	}
	f := &fiber{
		sched:   s,
		routine: routine,
		stack:   stk,
		state:   fiberStarting,
		id:      FiberID(lastFiberID.Add(1)),
	}
	f.context.Setup(stk.AsSpan(), f.trampoline)
	liveFibers.Add(1)
	return f
}

// trampoline is the first and last frame of the fiber's goroutine.
func (f *fiber) trampoline() {
	fibers.Set(f)
	gls.Bind()
	// Runs after a normal return and after Terminate's runtime.Goexit.
	defer f.sched.exit(f)
	defer func() {
		if r := recover(); r != nil {
			fatal.Throwf("tinyfiber: uncaught panic in fiber %d: %v", f.id, r)
		}
	}()
	f.routine()
}

// destroy releases the fiber's stack. The fiber's goroutine has already
// handed the baton back for the last time.
func (f *fiber) destroy() {
	f.routine = nil
	f.context.Release()
	f.stack.Release()
	liveFibers.Add(-1)
}

// A fiberQueue is a FIFO of fibers linked through schedlink.
type fiberQueue struct {
	head, tail *fiber
	n          int
}

func (q *fiberQueue) empty() bool {
	return q.head == nil
}

func (q *fiberQueue) len() int {
	return q.n
}

// pushBack adds f to the tail of q.
func (q *fiberQueue) pushBack(f *fiber) {
	f.schedlink = nil
	if q.tail != nil {
		q.tail.schedlink = f
	} else {
		q.head = f
	}
	q.tail = f
	q.n++
}

// popFront removes and returns the head of q, or nil if q is empty.
func (q *fiberQueue) popFront() *fiber {
	f := q.head
	if f == nil {
		return nil
	}
	q.head = f.schedlink
	if q.head == nil {
		q.tail = nil
	}
	f.schedlink = nil
	q.n--
	return f
}
