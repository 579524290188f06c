// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinyfiber

import (
	"time"

	"golang.org/x/sys/unix"

	"tinyfiber/internal/fatal"
)

// A parker blocks the carrier while every fiber sleeps.
//
// The carrier waits in epoll_wait on a CLOCK_MONOTONIC timerfd armed with
// the time left until the earliest deadline. The thread sleeps in the
// kernel, and the timer has nanosecond resolution, unlike the millisecond
// timeout of epoll_wait itself.
type parker struct {
	epfd int // epoll descriptor
	tfd  int // timerfd, registered with epfd
	open bool
}

func (p *parker) init() {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		fatal.Throw("tinyfiber: epoll_create1 failed: " + err.Error())
	}
	tfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		fatal.Throw("tinyfiber: timerfd_create failed: " + err.Error())
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(tfd)}
	// 添加timerfd的读事件监听
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, tfd, &ev); err != nil {
		unix.Close(tfd)
		unix.Close(epfd)
		fatal.Throw("tinyfiber: epoll_ctl failed: " + err.Error())
	}
	p.epfd, p.tfd, p.open = epfd, tfd, true
}

// park blocks the calling thread for at least d.
func (p *parker) park(d time.Duration) {
	if d <= 0 {
		return
	}
	if !p.open {
		p.init()
	}

	// One-shot relative timer; Interval stays zero.
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(int64(d))}
	if err := unix.TimerfdSettime(p.tfd, 0, &spec, nil); err != nil {
		fatal.Throw("tinyfiber: timerfd_settime failed: " + err.Error())
	}

	var events [1]unix.EpollEvent
	for {
		n, err := unix.EpollWait(p.epfd, events[:], -1)
		if err == unix.EINTR {
			// Interrupted by a signal; the timer is still armed.
			continue
		}
		if err != nil {
			fatal.Throw("tinyfiber: epoll_wait failed: " + err.Error())
		}
		if n > 0 {
			break
		}
	}

	// Drain the expiration count so the next wait blocks again.
	var buf [8]byte
	for {
		_, err := unix.Read(p.tfd, buf[:])
		if err != unix.EINTR {
			break
		}
	}
}

// close releases the descriptors. The parker can be reused afterwards.
func (p *parker) close() {
	if !p.open {
		return
	}
	unix.Close(p.tfd)
	unix.Close(p.epfd)
	p.open = false
}
