// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package tinyfiber implements cooperative fibers and a single-carrier
scheduler for them.

A fiber is a stackful coroutine with scheduling state. RunScheduler turns
the calling goroutine into a carrier: it spawns the initial fiber and
then switches into runnable fibers one at a time until all of them have
terminated.

	tinyfiber.RunScheduler(func() {
		tinyfiber.Spawn(func() {
			fmt.Println("child")
		})
		tinyfiber.Yield()
		fmt.Println("parent")
	})

Scheduling is cooperative. A fiber runs until it calls Yield, SleepFor
or Terminate, or returns. Fibers of one scheduler never run in parallel,
so data shared only among them needs no locking. Independent schedulers
on different goroutines do run in parallel.

Calling Spawn, Yield, SleepFor, Terminate or GetFiberID outside of a
fiber is a fatal error, as is a panic that escapes a fiber's routine.
Both print a diagnostic and exit the process with status 2.

# Environment

The TINYFIBERDEBUG variable controls debugging facilities. It is a
comma-separated list of name=val pairs:

	stackpages: number of usable pages of each fiber and coroutine stack.
	The default is 8.

	guardpages: number of inaccessible pages below each stack. A fiber
	that overflows its stack faults instead of corrupting memory. The
	default is 1.

	schedtrace: setting schedtrace=1 makes every scheduler that has no
	Logger of its own log spawns, switches and idle periods to standard
	error.

The coroutine package provides the underlying asymmetric coroutines
without a scheduler.
*/
package tinyfiber
