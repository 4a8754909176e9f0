// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/scheduler.go
// Summary: Coalesces render requests into idle-priority layout passes.

package wm

import (
	"github.com/charmbracelet/log"

	"github.com/framegrace/tilewm/internal/metrics"
	"github.com/framegrace/tilewm/mainloop"
)

// RenderScheduler gates layout passes. While frozen, requests are dropped.
// Otherwise at most one pass is queued at a time: requests made while a pass
// is pending fold into it.
type RenderScheduler struct {
	loop    *mainloop.Loop
	render  func(reason string, requests int)
	logger  *log.Logger
	metrics *metrics.Metrics

	frozen   bool
	pending  bool
	requests int
}

func newRenderScheduler(loop *mainloop.Loop, render func(string, int), logger *log.Logger, m *metrics.Metrics) *RenderScheduler {
	return &RenderScheduler{loop: loop, render: render, logger: logger, metrics: m}
}

// Freeze closes the gate.
func (s *RenderScheduler) Freeze() { s.frozen = true }

// Unfreeze opens the gate. It does not render on its own.
func (s *RenderScheduler) Unfreeze() { s.frozen = false }

// Frozen reports whether requests are currently dropped.
func (s *RenderScheduler) Frozen() bool { return s.frozen }

// Pending reports whether a pass is queued.
func (s *RenderScheduler) Pending() bool { return s.pending }

// Reset reopens the gate.
func (s *RenderScheduler) Reset() { s.frozen = false }

// Schedule requests a pass labelled reason and reports whether the request
// will be served. A pass already queued when the gate closes still runs.
func (s *RenderScheduler) Schedule(reason string) bool {
	if s.frozen {
		s.logger.Debug("render frozen", "reason", reason)
		s.metrics.RenderDropped()
		return false
	}
	s.requests++
	if s.pending {
		s.metrics.RenderCoalesced()
		return true
	}
	s.pending = true
	s.loop.IdleAdd(func() {
		requests := s.requests
		s.pending = false
		s.requests = 0
		s.render(reason, requests)
	})
	return true
}
