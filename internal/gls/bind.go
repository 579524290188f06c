// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gls

// bound marks goroutines that run on behalf of a scheduler: its carrier,
// its fibers, and the bodies of coroutines resumed from any of those.
// None of them may start a scheduler of its own.
var bound Slot[struct{}]

// Bind marks the calling goroutine as bound to a scheduler.
func Bind() {
	bound.Set(struct{}{})
}

// Unbind clears the mark set by Bind.
func Unbind() {
	bound.Clear()
}

// Bound reports whether the calling goroutine is bound to a scheduler.
func Bound() bool {
	_, ok := bound.Get()
	return ok
}
