// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import "tinyfiber/internal/execctx"

// NumFiber returns the number of fibers that currently exist, in all
// schedulers of the process. A fiber exists from Spawn until the
// scheduler sees it terminate.
// 存活的 fiber 数量 用于测试泄漏
func NumFiber() int {
	return int(liveFibers.Load())
}

// SwitchCount returns the number of context switches performed by the
// process so far, counting coroutine switches too.
func SwitchCount() uint64 {
	return execctx.Switches()
}
