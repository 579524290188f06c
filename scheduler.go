// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"tinyfiber/internal/execctx"
	"tinyfiber/internal/fatal"
	"tinyfiber/internal/gls"
	"tinyfiber/internal/godebug"
)

// A Scheduler runs fibers cooperatively on the goroutine that calls Run.
//
// Exactly one fiber of a scheduler executes at any instant. A fiber keeps
// running until it calls Yield, SleepFor or Terminate, or returns from its
// routine; there is no preemption. A fiber that never does any of these
// monopolizes the scheduler.
//
// The zero Scheduler is ready to use. A Scheduler must not be used
// concurrently from goroutines other than its carrier and its fibers.
type Scheduler struct {
	// StackPages is the number of usable pages of each fiber stack.
	// If zero, TINYFIBERDEBUG=stackpages=N or 8 is used.
	StackPages int

	// Logger receives scheduling events at debug level. If nil, events
	// go to standard error when TINYFIBERDEBUG=schedtrace=1 is set and
	// are discarded otherwise.
	Logger *slog.Logger

	loop    execctx.Context // the carrier's position in Run
	runq    fiberQueue
	sleepq  sleepQueue
	running *fiber
	parker  parker

	log     *slog.Logger
	trace   bool
	carried bool
}

// Run spawns a fiber running init and schedules fibers until init and
// every fiber spawned from it, transitively, have terminated.
//
// Run must not be called from a fiber, nor while the calling goroutine
// is already running a scheduler.
func (s *Scheduler) Run(init func()) {
	scope := enterScheduler(s)
	defer scope.exit()
	defer s.parker.close()

	s.log = s.logger()
	s.trace = s.log.Enabled(context.Background(), slog.LevelDebug)

	s.Spawn(init)
	s.runLoop()
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	if godebug.Get().SchedTrace > 0 {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.DiscardHandler)
}

// Spawn creates a fiber running routine and puts it at the back of the
// run queue. It does not run the fiber and does not yield. Spawn may be
// called by the scheduler's fibers and before Run.
func (s *Scheduler) Spawn(routine func()) FiberID {
	f := newFiber(s, routine, s.StackPages)
	if s.trace {
		s.log.Debug("spawn", "fiber", f.id)
	}
	s.schedule(f)
	return f.id
}

// Yield puts the calling fiber at the back of the run queue and runs the
// next runnable fiber.
func (s *Scheduler) Yield() {
	f := s.current()
	f.state = fiberRunnable
	s.switchToScheduler(f)
}

// SleepFor suspends the calling fiber for at least d. It always
// suspends, even if d <= 0.
func (s *Scheduler) SleepFor(d time.Duration) {
	f := s.current()
	s.sleepq.putFor(f, d)
	f.state = fiberSleeping
	s.switchToScheduler(f)
}

// Terminate ends the calling fiber. Deferred calls of its routine run,
// as with runtime.Goexit, and Terminate does not return.
func (s *Scheduler) Terminate() {
	s.current()
	runtime.Goexit()
}

// Current returns the id of the calling fiber, which must belong to s.
func (s *Scheduler) Current() FiberID {
	return s.current().id
}

// current returns the running fiber. The caller must be that fiber.
func (s *Scheduler) current() *fiber {
	f := currentFiber()
	if f.sched != s || s.running != f {
		fatal.Throw("tinyfiber: fiber does not belong to this scheduler")
	}
	return f
}

// Context switches.

// switchToScheduler switches from the calling fiber to the loop.
func (s *Scheduler) switchToScheduler(f *fiber) {
	s.running = nil
	f.context.SwitchTo(&s.loop)
}

// switchTo switches from the loop to f and returns when f gives the
// baton back.
func (s *Scheduler) switchTo(f *fiber) {
	s.running = f
	f.state = fiberRunning
	if s.trace {
		s.log.Debug("switch", "fiber", f.id)
	}
	s.loop.SwitchTo(&f.context)
}

// exit is the last thing a fiber's goroutine does. It hands the baton
// back to the loop for good.
func (s *Scheduler) exit(f *fiber) {
	fibers.Clear()
	gls.Unbind()
	f.state = fiberTerminated
	s.running = nil
	f.context.Exit(&s.loop)
}

// Scheduling.

func (s *Scheduler) runLoop() {
	for !s.runq.empty() || !s.sleepq.empty() {
		f := s.next()
		s.switchTo(f)
		s.reschedule(f)
	}
}

// next returns the fiber to run next, parking the carrier while only
// sleepers are left.
func (s *Scheduler) next() *fiber {
	s.wakeReady()
	for s.runq.empty() {
		d := s.sleepq.minSleepTime()
		if s.trace {
			s.log.Debug("park", "duration", d, "sleepers", s.sleepq.len())
		}
		s.parker.park(d)
		s.wakeReady()
	}
	return s.runq.popFront()
}

// wakeReady moves every sleeper whose deadline has passed to the back of
// the run queue, earliest deadline first.
func (s *Scheduler) wakeReady() {
	for f := s.sleepq.takeReady(); f != nil; f = s.sleepq.takeReady() {
		s.schedule(f)
	}
}

// reschedule applies the state a fiber reported when it switched back.
func (s *Scheduler) reschedule(f *fiber) {
	if s.trace {
		s.log.Debug("reschedule", "fiber", f.id, "state", f.state)
	}
	switch f.state {
	case fiberRunnable: // Yield
		s.schedule(f)
	case fiberSleeping: // SleepFor
		// Already on the sleep queue.
	case fiberTerminated: // routine returned or Terminate
		s.destroy(f)
	default:
		fatal.Throwf("tinyfiber: unexpected fiber state %v", f.state)
	}
}

func (s *Scheduler) schedule(f *fiber) {
	f.state = fiberRunnable
	s.runq.pushBack(f)
}

func (s *Scheduler) destroy(f *fiber) {
	if s.trace {
		s.log.Debug("terminate", "fiber", f.id)
	}
	f.destroy()
}
