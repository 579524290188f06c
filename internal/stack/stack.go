// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack allocates fixed-size stacks for coroutines and fibers.
//
// A stack is a single anonymous mapping. Its lowest pages are made
// inaccessible, so running off the low end of the stack faults at once
// instead of corrupting whatever lies below it:
//
//	base                 Guard()                       Bottom()   end
//	| guard (PROT_NONE)  | usable (PROT_READ|PROT_WRITE)     |      |
//
// Stacks grow down, so the highest usable word is the "bottom".
//
// Routines themselves execute on goroutine stacks managed by the Go
// runtime, which grow on demand up to runtime/debug.SetMaxStack. A Stack
// holds the entry frame of an execution context; its guard pages protect
// that frame and the mapping below it, not the running code, whose
// overflow the runtime reports as "goroutine stack exceeds ... limit".
package stack

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"tinyfiber/internal/godebug"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

const maxUintptr = ^uintptr(0)

var inUse atomic.Int64

// InUse returns the number of stacks that are allocated and not yet released.
func InUse() int {
	return int(inUse.Load())
}

// A Stack is an exclusively owned stack mapping with a guard region.
type Stack struct {
	mem   []byte // whole mapping, guard included
	guard int    // length of the guard region in bytes
}

// Allocate maps a stack with the given number of usable pages plus the
// configured number of guard pages. If pages <= 0, the TINYFIBERDEBUG
// default is used.
func Allocate(pages int) (*Stack, error) {
	set := godebug.Get()
	if pages <= 0 {
		pages = set.StackPages
	}
	guardPages := set.GuardPages

	psz := uintptr(pageSize())
	n, overflow := mulUintptr(uintptr(pages+guardPages), psz)
	if overflow || n > uintptr(maxAlloc) {
		return nil, fmt.Errorf("stack: %d pages overflow the address space", pages)
	}

	// None -> Ready
	mem, err := sysAlloc(int(n))
	if err != nil {
		return nil, fmt.Errorf("stack: mmap %d bytes: %w", n, err)
	}
	guard := guardPages * int(psz)
	// Ready -> Reserved for the guard; accesses fault from now on.
	if err := sysFault(mem[:guard]); err != nil {
		sysFree(mem)
		return nil, fmt.Errorf("stack: protect guard pages: %w", err)
	}
	inUse.Add(1)
	return &Stack{mem: mem, guard: guard}, nil
}

func (s *Stack) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s.mem)))
}

// Bottom returns the address of the highest usable word of the stack.
func (s *Stack) Bottom() uintptr {
	return s.base() + uintptr(len(s.mem)) - ptrSize
}

// Guard returns the lowest accessible address. Every address below it,
// down to the start of the mapping, faults on access.
func (s *Stack) Guard() uintptr {
	return s.base() + uintptr(s.guard)
}

// AsSpan returns the usable part of the stack, guard excluded.
func (s *Stack) AsSpan() []byte {
	return s.mem[s.guard:len(s.mem):len(s.mem)]
}

// Size returns the size of the usable part of the stack in bytes.
func (s *Stack) Size() int {
	return len(s.mem) - s.guard
}

// Released reports whether Release has been called.
func (s *Stack) Released() bool {
	return s.mem == nil
}

// Release unmaps the stack. The memory must not be touched afterwards.
// Calling Release more than once is a no-op.
func (s *Stack) Release() error {
	if s.mem == nil {
		return nil
	}
	mem := s.mem
	s.mem = nil
	inUse.Add(-1)
	if err := sysFree(mem); err != nil {
		return fmt.Errorf("stack: munmap: %w", err)
	}
	return nil
}

// mulUintptr returns a * b and whether the multiplication overflowed.
func mulUintptr(a, b uintptr) (uintptr, bool) {
	// Neither operand has bits in the upper half: the product fits.
	if a|b < 1<<(4*ptrSize) || a == 0 {
		return a * b, false
	}
	overflow := b > maxUintptr/a
	return a * b, overflow
}

// maxAlloc bounds a single stack mapping; the length must fit in an int.
const maxAlloc = int(^uint(0) >> 1)
