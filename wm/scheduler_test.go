// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/scheduler_test.go
// Summary: Exercises render coalescing and the freeze gate.

package wm

import (
	"testing"

	"github.com/framegrace/tilewm/internal/logging"
	"github.com/framegrace/tilewm/internal/metrics"
	"github.com/framegrace/tilewm/mainloop"
)

type renderCall struct {
	reason   string
	requests int
}

func newTestScheduler() (*RenderScheduler, *mainloop.Loop, *[]renderCall) {
	loop := mainloop.New()
	var calls []renderCall
	s := newRenderScheduler(loop, func(reason string, requests int) {
		calls = append(calls, renderCall{reason, requests})
	}, logging.Discard(), metrics.New())
	return s, loop, &calls
}

func TestScheduleCoalescesPendingRequests(t *testing.T) {
	s, loop, calls := newTestScheduler()
	s.Schedule("a")
	s.Schedule("b")
	s.Schedule("c")
	if !s.Pending() {
		t.Fatalf("expected a pending pass")
	}
	loop.Drain()
	if len(*calls) != 1 || (*calls)[0].reason != "a" || (*calls)[0].requests != 3 {
		t.Fatalf("unexpected passes %+v", *calls)
	}
	if s.Pending() {
		t.Fatalf("pending flag not cleared")
	}

	s.Schedule("d")
	loop.Drain()
	if len(*calls) != 2 || (*calls)[1].requests != 1 {
		t.Fatalf("second pass missing: %+v", *calls)
	}
}

func TestFreezeDropsRequests(t *testing.T) {
	s, loop, calls := newTestScheduler()
	s.Freeze()
	if s.Schedule("dropped") {
		t.Fatalf("frozen schedule should report false")
	}
	loop.Drain()
	if len(*calls) != 0 {
		t.Fatalf("render while frozen: %+v", *calls)
	}

	s.Unfreeze()
	loop.Drain()
	if len(*calls) != 0 {
		t.Fatalf("unfreeze must not render by itself")
	}
}

func TestPassQueuedBeforeFreezeStillRuns(t *testing.T) {
	s, loop, calls := newTestScheduler()
	s.Schedule("queued")
	s.Freeze()
	s.Schedule("dropped")
	loop.Drain()
	if len(*calls) != 1 || (*calls)[0].reason != "queued" || (*calls)[0].requests != 1 {
		t.Fatalf("unexpected passes %+v", *calls)
	}
}

func TestRenderWaitsForDefaultPriorityWork(t *testing.T) {
	s, loop, calls := newTestScheduler()
	var order []string
	s.Schedule("r")
	loop.Invoke(func() { order = append(order, "event") })
	loop.Iterate()
	if len(*calls) != 0 || len(order) != 1 {
		t.Fatalf("idle pass ran before pending events")
	}
	loop.Drain()
	if len(*calls) != 1 {
		t.Fatalf("pass did not run")
	}
}
