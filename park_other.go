// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package tinyfiber

import "time"

// A parker blocks the carrier while every fiber sleeps.
type parker struct{}

// park blocks the calling goroutine for at least d.
func (p *parker) park(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

func (p *parker) close() {}
