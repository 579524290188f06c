// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64 || arm64

package gls

// getg returns the address of the runtime's g for the calling goroutine.
// g structures are never moved, so the address identifies the goroutine
// for as long as it lives.
//
// Implemented in getg_$GOARCH.s.
func getg() uintptr
