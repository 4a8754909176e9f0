// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: mainloop/loop_test.go
// Summary: Exercises priority ordering, idle sources and timeouts of the loop.

package mainloop

import (
	"context"
	"testing"
	"time"
)

func TestIdleRunsAfterDefaultPriority(t *testing.T) {
	l := New()
	var order []string
	l.IdleAdd(func() { order = append(order, "idle") })
	l.Invoke(func() {
		order = append(order, "a")
		l.Invoke(func() { order = append(order, "c") })
	})
	l.Invoke(func() { order = append(order, "b") })

	if n := l.Drain(); n != 4 {
		t.Fatalf("expected 4 callbacks, ran %d", n)
	}
	want := []string{"a", "b", "c", "idle"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if l.Pending() != 0 {
		t.Fatalf("expected empty queues")
	}
}

func TestTimeoutZeroQueuesImmediately(t *testing.T) {
	l := New()
	ran := false
	l.TimeoutAdd(0, func() { ran = true })
	l.Drain()
	if !ran {
		t.Fatalf("zero timeout should run on next drain")
	}
}

func TestTimeoutCancel(t *testing.T) {
	l := New()
	fired := make(chan struct{}, 1)
	cancel := l.TimeoutAdd(20*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	ctx, stop := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer stop()
	_ = l.Run(ctx)
	select {
	case <-fired:
		t.Fatalf("cancelled timeout fired")
	default:
	}
}

func TestRunProcessesCrossGoroutineWork(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	got := make(chan int, 1)
	l.TimeoutAdd(5*time.Millisecond, func() {
		l.IdleAdd(func() { got <- 42 })
	})

	select {
	case v := <-got:
		if v != 42 {
			t.Fatalf("unexpected value %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not run queued work")
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Run returned %v", err)
	}
}
