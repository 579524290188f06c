// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package stack

import (
	"runtime/debug"
	"testing"
)

var sink byte

// Touching the guard region must fault immediately.
func TestGuardPageFaults(t *testing.T) {
	s, err := Allocate(2)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	guard := s.mem[:s.guard]
	want := s.Guard() - 1

	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		debug.SetPanicOnFault(true)
		sink = guard[len(guard)-1]
	}()
	r := <-done
	if r == nil {
		t.Fatal("read below Guard() did not fault")
	}
	fault, ok := r.(interface{ Addr() uintptr })
	if !ok {
		t.Fatalf("recovered %T (%v), want a fault with an address", r, r)
	}
	if fault.Addr() != want {
		t.Errorf("fault address = %#x, want %#x", fault.Addr(), want)
	}

	// The usable region right above the guard is still fine.
	span := s.AsSpan()
	span[0] = 1
	if span[0] != 1 {
		t.Error("lowest usable byte is not writable")
	}
}
