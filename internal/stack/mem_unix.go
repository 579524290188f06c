// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package stack

import "golang.org/x/sys/unix"

func pageSize() int {
	return unix.Getpagesize()
}

// sysAlloc obtains n bytes of zeroed memory from the operating system.
// None -> Ready
// syscall(mmap)
func sysAlloc(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// sysFault makes b inaccessible. Any access faults.
// Ready -> Reserved
// syscall(mprotect)
func sysFault(b []byte) error {
	return unix.Mprotect(b, unix.PROT_NONE)
}

// sysFree returns the whole mapping to the operating system.
// Reserved|Ready -> None
// syscall(munmap)
func sysFree(b []byte) error {
	return unix.Munmap(b)
}
