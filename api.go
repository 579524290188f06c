// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import "time"

// RunScheduler runs a new Scheduler on the calling goroutine, starting
// with a fiber that runs init. It returns when every fiber has terminated.
func RunScheduler(init func()) {
	var s Scheduler
	s.Run(init)
}

// Spawn creates a fiber on the scheduler of the calling fiber. The new
// fiber runs after the fibers already queued; the caller keeps running.
func Spawn(routine func()) FiberID {
	return currentFiber().sched.Spawn(routine)
}

// Yield lets the other runnable fibers run before the calling fiber
// continues.
func Yield() {
	currentFiber().sched.Yield()
}

// SleepFor suspends the calling fiber for at least d.
func SleepFor(d time.Duration) {
	currentFiber().sched.SleepFor(d)
}

// Terminate ends the calling fiber after running its deferred calls.
func Terminate() {
	currentFiber().sched.Terminate()
}

// GetFiberID returns the id of the calling fiber.
func GetFiberID() FiberID {
	return currentFiber().id
}
