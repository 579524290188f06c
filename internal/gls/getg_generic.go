// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !amd64 && !arm64

package gls

import (
	"bytes"
	"runtime"
	"strconv"
)

// getg returns the goroutine id parsed from the traceback header
// "goroutine 18 [running]:". Slower than reading g, but portable.
func getg() uintptr {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		panic("gls: cannot parse goroutine id: " + err.Error())
	}
	return uintptr(id)
}
