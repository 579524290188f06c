// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package execctx implements saved execution contexts and the switch
// between them.
//
// A Context is a suspended flow of control. Setup prepares a context on a
// fresh stack so that the first switch into it calls an entry function;
// SwitchTo saves the current flow in one context and resumes another.
//
// Flows run on goroutines. A switch hands a baton from the running flow to
// the target and parks the caller until some flow switches back to it, so
// exactly one of the contexts that pass the baton among themselves is
// running at any instant. The hand-off is the only synchronization needed
// by the data those flows share.
package execctx

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"

	"tinyfiber/internal/fatal"
)

const (
	// frameMagic marks a valid entry frame: "tinyfibr".
	frameMagic = 0x7262_6966_796e_6974

	frameSize = 16

	// frameAlign is the stack alignment required at a call boundary by
	// the amd64 and arm64 ABIs.
	frameAlign = 16
)

var switches atomic.Uint64

// Switches returns the number of context activations performed by the
// process so far.
func Switches() uint64 {
	return switches.Load()
}

// A Context is the saved state of a suspended flow of control.
//
// The zero Context describes a host flow: one that already runs on some
// goroutine, such as the caller of a coroutine or a scheduler loop. It
// can switch away and be switched back to, but it has no entry function.
type Context struct {
	// sp is the address of the entry frame on the owning stack; the
	// frame stores the magic word and sp itself. Zero for host flows.
	sp    uintptr
	frame []byte

	entry    func() // run on first activation, then nil
	wake     chan struct{}
	active   bool
	released bool
}

// Setup prepares c to run entry on its first activation. The entry frame
// is written at the highest 16-byte aligned position in stack.
//
// entry runs on a goroutine of its own and must finish with Exit rather
// than returning to its caller.
func (c *Context) Setup(stack []byte, entry func()) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(stack)))
	top := base + uintptr(len(stack))
	if len(stack) < frameSize+frameAlign {
		fatal.Throw("execctx: stack too small for an entry frame")
	}
	sp := (top - frameSize) &^ (frameAlign - 1)
	off := sp - base

	c.frame = stack[off : off+frameSize : off+frameSize]
	binary.NativeEndian.PutUint64(c.frame[0:], frameMagic)
	binary.NativeEndian.PutUint64(c.frame[8:], uint64(sp))
	c.sp = sp
	c.entry = entry
	c.wake = make(chan struct{}, 1)
	c.active = false
}

// SP returns the saved stack pointer: the address of the entry frame.
func (c *Context) SP() uintptr {
	return c.sp
}

// Active reports whether c is the running flow.
func (c *Context) Active() bool {
	return c.active
}

// SwitchTo saves the running flow in c and resumes target, either at its
// entry function or where it last called SwitchTo. It returns when another
// flow switches back to c.
func (c *Context) SwitchTo(target *Context) {
	if target == c {
		fatal.Throw("execctx: switch to self")
	}
	if c.wake == nil {
		c.wake = make(chan struct{}, 1)
	}
	c.active = false
	target.resume()
	<-c.wake
}

// Exit resumes target and abandons the running flow, which must be an
// entry function started by Setup. The caller's goroutine returns right
// after Exit without touching shared state, and c is never resumed again.
func (c *Context) Exit(target *Context) {
	c.active = false
	target.resume()
}

// Release drops the reference to the entry frame. It is called before the
// owning stack is unmapped.
func (c *Context) Release() {
	c.released = true
	c.frame = nil
	c.sp = 0
	c.entry = nil
}

func (c *Context) resume() {
	c.check()
	c.active = true
	switches.Add(1)
	if entry := c.entry; entry != nil {
		c.entry = nil
		go entry()
		return
	}
	c.wake <- struct{}{}
}

// check validates c as a switch target.
func (c *Context) check() {
	if c.released {
		fatal.Throw("execctx: switch to a released context")
	}
	if c.active {
		fatal.Throw("execctx: switch to a running context")
	}
	if c.frame == nil {
		return
	}
	// The frame sits at the top of the stack; anything that overwrote
	// it ran off the end of some other memory.
	if binary.NativeEndian.Uint64(c.frame[0:]) != frameMagic ||
		binary.NativeEndian.Uint64(c.frame[8:]) != uint64(c.sp) {
		fatal.Throw("execctx: entry frame corrupted")
	}
}
