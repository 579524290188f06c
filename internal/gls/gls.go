// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gls implements goroutine-local slots.
//
// A coroutine or fiber runs its routine on a goroutine of its own, so
// "the current coroutine" and "the current fiber" are per-goroutine facts.
// Each Slot maps the identity of a live goroutine to a value. Entries must
// be cleared by the goroutine before it exits, because goroutine identities
// are reused.
package gls

import "sync"

// A Slot holds at most one value of type T per goroutine.
// The zero Slot is empty and ready to use.
type Slot[T any] struct {
	mu sync.RWMutex
	m  map[uintptr]T
}

// Get returns the calling goroutine's value.
func (s *Slot[T]) Get() (v T, ok bool) {
	g := ID()
	s.mu.RLock()
	v, ok = s.m[g]
	s.mu.RUnlock()
	return v, ok
}

// Set stores v as the calling goroutine's value.
func (s *Slot[T]) Set(v T) {
	g := ID()
	s.mu.Lock()
	if s.m == nil {
		s.m = make(map[uintptr]T)
	}
	s.m[g] = v
	s.mu.Unlock()
}

// Clear removes the calling goroutine's value.
func (s *Slot[T]) Clear() {
	g := ID()
	s.mu.Lock()
	delete(s.m, g)
	s.mu.Unlock()
}

// Len returns the number of goroutines holding a value.
func (s *Slot[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// ID returns an identity of the calling goroutine that is unique among
// live goroutines.
func ID() uintptr {
	return getg()
}
