// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fatal reports unrecoverable runtime errors.
package fatal

import (
	"fmt"
	"os"
	"runtime"
)

// Throw prints "fatal error: s" and the calling goroutine's traceback to
// standard error and exits the process with status 2.
// It is used for misuse of the fiber API and for broken invariants,
// never for conditions a caller could handle.
func Throw(s string) {
	fmt.Fprintf(os.Stderr, "fatal error: %s\n\n", s)
	buf := make([]byte, 64<<10)
	buf = buf[:runtime.Stack(buf, false)]
	os.Stderr.Write(buf)
	os.Exit(2)
}

// Throwf is like Throw with a formatted message.
func Throwf(format string, args ...any) {
	Throw(fmt.Sprintf(format, args...))
}
