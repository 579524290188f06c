// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package stack

// Without mmap the stack is ordinary heap memory and the guard region is
// not protected.

func pageSize() int {
	return 4096
}

func sysAlloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func sysFault(b []byte) error {
	return nil
}

func sysFree(b []byte) error {
	return nil
}
