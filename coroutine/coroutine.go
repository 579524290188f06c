// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coroutine implements asymmetric stackful coroutines.
//
// A Coroutine runs a routine that can suspend itself in the middle of any
// call chain and be resumed later exactly where it left off:
//
//	co := coroutine.New(func() {
//		for _, v := range items {
//			use(v)
//			coroutine.Suspend()
//		}
//	})
//	defer co.Close()
//	for !co.IsCompleted() {
//		if err := co.Resume(); err != nil {
//			...
//		}
//	}
//
// Resume and the routine never run at the same time: Resume blocks the
// caller until the routine suspends or returns. A panic escaping the
// routine is captured and returned, as a *PanicError, by the Resume call
// that observes completion, and by no other call.
//
// Each coroutine owns a guarded stack that is released as soon as the
// routine finishes or the coroutine is closed. A coroutine that is
// abandoned while suspended must be closed, which unwinds the routine
// and runs its deferred calls.
package coroutine

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"tinyfiber/internal/execctx"
	"tinyfiber/internal/fatal"
	"tinyfiber/internal/gls"
	"tinyfiber/internal/stack"
)

var (
	// ErrCompleted is returned by Resume on a coroutine that has finished.
	ErrCompleted = errors.New("coroutine: completed")

	// ErrNotInCoroutine is returned by Suspend when the caller is not the
	// running body of a coroutine.
	ErrNotInCoroutine = errors.New("coroutine: not in coroutine")

	// ErrRunning is returned when a coroutine is resumed or closed from
	// inside itself.
	ErrRunning = errors.New("coroutine: already running")
)

// A PanicError is a panic captured from a coroutine's routine.
type PanicError struct {
	Value any    // value passed to panic
	Stack []byte // traceback of the panicking goroutine
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("coroutine: panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// current maps the goroutine running a coroutine's body to the coroutine.
var current gls.Slot[*Coroutine]

// Current returns the coroutine whose body is running on the calling
// goroutine, or nil.
func Current() *Coroutine {
	co, _ := current.Get()
	return co
}

// A Coroutine is a resumable computation with a stack of its own.
type Coroutine struct {
	routine func()
	stack   *stack.Stack
	self    execctx.Context // the coroutine's own suspended position
	caller  execctx.Context // whoever called Resume last

	started   bool
	running   bool
	completed bool
	abandoned bool
	bound     bool // resumed from a scheduler's carrier or fiber
	err       error
}

// New returns a coroutine that will run routine on its first Resume.
// Nothing runs until then. Failing to allocate the stack is fatal.
func New(routine func()) *Coroutine {
	stk, err := stack.Allocate(0)
	if err != nil {
		fatal.Throw("coroutine: cannot allocate stack: " + err.Error())
	}
	co := &Coroutine{
		routine: routine,
		stack:   stk,
	}
	co.self.Setup(stk.AsSpan(), co.trampoline)
	return co
}

// IsCompleted reports whether the routine has returned, panicked, or the
// coroutine was closed.
func (co *Coroutine) IsCompleted() bool {
	return co.completed
}

// Resume transfers control to the coroutine and returns when it suspends
// or completes.
//
// If the routine panicked, the Resume that observes completion returns a
// *PanicError. Every Resume after completion returns ErrCompleted.
func (co *Coroutine) Resume() error {
	if co.completed {
		return ErrCompleted
	}
	if co.running {
		return ErrRunning
	}
	co.started = true
	co.switchIn()
	if co.completed {
		return co.finish()
	}
	return nil
}

// Suspend transfers control back to the caller of Resume. It must be
// called by the coroutine's own routine; otherwise it returns
// ErrNotInCoroutine. While Close unwinds the routine, Suspend does not
// switch and returns ErrCompleted.
func (co *Coroutine) Suspend() error {
	if cur, ok := current.Get(); !ok || cur != co {
		return ErrNotInCoroutine
	}
	return co.suspend()
}

// Suspend suspends the coroutine running on the calling goroutine.
// Outside of any coroutine it returns ErrNotInCoroutine.
func Suspend() error {
	co, ok := current.Get()
	if !ok {
		return ErrNotInCoroutine
	}
	return co.suspend()
}

// Close destroys the coroutine.
//
// A suspended coroutine is unwound as if its routine called
// runtime.Goexit at the suspension point: deferred calls run once, then
// the stack is released. A fresh coroutine drops its routine without
// running it. Closing a completed coroutine does nothing. Close returns
// the panic captured while unwinding, if any, or an error not yet
// observed by Resume.
func (co *Coroutine) Close() error {
	if co.running {
		return ErrRunning
	}
	if co.completed {
		return co.finish()
	}
	if !co.started {
		co.completed = true
		return co.finish()
	}
	co.abandoned = true
	co.switchIn()
	return co.finish()
}

func (co *Coroutine) switchIn() {
	co.running = true
	co.bound = gls.Bound()
	co.caller.SwitchTo(&co.self)
	co.running = false
}

func (co *Coroutine) suspend() error {
	// Deferred calls run by Close may try to suspend. Close is waiting
	// for the unwinding to finish, so there is nobody to switch to.
	if co.abandoned {
		return ErrCompleted
	}
	co.self.SwitchTo(&co.caller)
	if co.abandoned {
		runtime.Goexit()
	}
	co.inheritBinding()
	return nil
}

// inheritBinding marks the body's goroutine as bound to a scheduler
// exactly when the goroutine that resumed it is.
func (co *Coroutine) inheritBinding() {
	if co.bound {
		gls.Bind()
	} else {
		gls.Unbind()
	}
}

// finish releases the resources of a completed coroutine and hands out
// the captured error exactly once.
func (co *Coroutine) finish() error {
	co.routine = nil
	if co.stack != nil {
		co.self.Release()
		co.stack.Release()
		co.stack = nil
	}
	err := co.err
	co.err = nil
	return err
}

// trampoline is the entry point of the coroutine's goroutine.
func (co *Coroutine) trampoline() {
	current.Set(co)
	co.inheritBinding()
	defer func() {
		// Reached on return, on a captured panic and on runtime.Goexit.
		current.Clear()
		gls.Unbind()
		co.completed = true
		co.self.Exit(&co.caller)
	}()
	co.run()
}

func (co *Coroutine) run() {
	defer func() {
		// A panic recovered while unwinding for Close does not stop the
		// unwinding, so the error is stored here rather than returned.
		if r := recover(); r != nil {
			co.err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	co.routine()
}
