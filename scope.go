// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import (
	"tinyfiber/internal/fatal"
	"tinyfiber/internal/gls"
)

// Per-goroutine registry.
//
// fibers maps a fiber's goroutine to the fiber; the fiber knows its
// scheduler, which is how the package-level API finds "the current
// scheduler" from inside fiber code. Carriers and fibers are also marked
// with gls.Bind, and coroutines resumed from them inherit the mark.
var fibers gls.Slot[*fiber]

// A schedulerScope is the registration of a carrier goroutine, held for
// the duration of Scheduler.Run.
type schedulerScope struct {
	s *Scheduler
}

// enterScheduler registers the calling goroutine as the carrier of s.
// A goroutine carries at most one scheduler at a time. Fibers, and
// coroutines resumed from a fiber or a carrier, cannot start schedulers
// of their own: they run on the flow of the scheduler that holds them.
func enterScheduler(s *Scheduler) schedulerScope {
	if gls.Bound() {
		fatal.Throw("tinyfiber: cannot run scheduler from another scheduler")
	}
	if s.carried {
		fatal.Throw("tinyfiber: scheduler is already running")
	}
	s.carried = true
	gls.Bind()
	return schedulerScope{s: s}
}

// exit releases the registration taken by enterScheduler.
func (sc schedulerScope) exit() {
	gls.Unbind()
	sc.s.carried = false
}

// currentFiber returns the fiber running on the calling goroutine.
// Outside of fiber context it is fatal.
func currentFiber() *fiber {
	f, ok := fibers.Get()
	if !ok {
		fatal.Throw("tinyfiber: not in fiber context")
	}
	return f
}
