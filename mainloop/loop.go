// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: mainloop/loop.go
// Summary: Single-threaded cooperative event loop with idle and timeout sources.
// Usage: All tree and registry mutation in tilewm happens inside callbacks run by a Loop.

// Package mainloop runs callbacks one at a time on a single goroutine.
// Default-priority callbacks always run before idle callbacks, so work queued
// with IdleAdd only executes once the loop has nothing more urgent to do.
package mainloop

import (
	"context"
	"sync"
	"time"
)

// Loop is safe to feed from any goroutine; callbacks run on the goroutine
// that calls Run, Iterate or Drain.
type Loop struct {
	mu     sync.Mutex
	normal []func()
	idle   []func()
	timers map[*time.Timer]struct{}
	wake   chan struct{}
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{
		timers: make(map[*time.Timer]struct{}),
		wake:   make(chan struct{}, 1),
	}
}

// Invoke queues fn at default priority.
func (l *Loop) Invoke(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.normal = append(l.normal, fn)
	l.mu.Unlock()
	l.signal()
}

// IdleAdd queues fn at low priority.
func (l *Loop) IdleAdd(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.idle = append(l.idle, fn)
	l.mu.Unlock()
	l.signal()
}

// TimeoutAdd invokes fn at default priority once d has elapsed. A zero or
// negative duration queues fn immediately. The returned function cancels a
// timeout that has not fired yet.
func (l *Loop) TimeoutAdd(d time.Duration, fn func()) (cancel func()) {
	if d <= 0 {
		l.Invoke(fn)
		return func() {}
	}
	var timer *time.Timer
	l.mu.Lock()
	timer = time.AfterFunc(d, func() {
		l.mu.Lock()
		_, live := l.timers[timer]
		delete(l.timers, timer)
		l.mu.Unlock()
		if live {
			l.Invoke(fn)
		}
	})
	l.timers[timer] = struct{}{}
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.timers[timer]; ok {
			timer.Stop()
			delete(l.timers, timer)
		}
	}
}

// Pending reports the number of queued callbacks, excluding timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.normal) + len(l.idle)
}

// Iterate runs a single callback and reports whether one ran.
func (l *Loop) Iterate() bool {
	l.mu.Lock()
	var fn func()
	switch {
	case len(l.normal) > 0:
		fn = l.normal[0]
		l.normal[0] = nil
		l.normal = l.normal[1:]
	case len(l.idle) > 0:
		fn = l.idle[0]
		l.idle[0] = nil
		l.idle = l.idle[1:]
	}
	l.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Drain runs callbacks until both queues are empty and returns how many ran.
// Callbacks queued while draining are run as well.
func (l *Loop) Drain() int {
	n := 0
	for l.Iterate() {
		n++
	}
	return n
}

// Run processes callbacks until ctx is cancelled. Outstanding timers are
// stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopTimers()
	for {
		for l.Iterate() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) stopTimers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for t := range l.timers {
		t.Stop()
		delete(l.timers, t)
	}
}
