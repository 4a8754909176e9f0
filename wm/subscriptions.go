// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/subscriptions.go
// Summary: Single table of every compositor connection the engine holds.

package wm

import (
	"github.com/framegrace/tilewm/compositor"
)

type subscription struct {
	signal compositor.Signal
	handle compositor.SignalHandle
}

// signalTable records connections per source so a source (a window, an
// actor, a workspace) can be unwound on its own and everything can be
// unwound at once on disable.
type signalTable struct {
	conn     compositor.Connector
	bySource map[compositor.Source][]subscription
}

func newSignalTable(conn compositor.Connector) *signalTable {
	return &signalTable{
		conn:     conn,
		bySource: make(map[compositor.Source][]subscription),
	}
}

// connect subscribes sink unless src already has a connection for signal.
func (t *signalTable) connect(src compositor.Source, signal compositor.Signal, sink compositor.Sink) bool {
	if src == nil || t.has(src, signal) {
		return false
	}
	h := t.conn.Connect(src, signal, sink)
	t.bySource[src] = append(t.bySource[src], subscription{signal: signal, handle: h})
	return true
}

func (t *signalTable) has(src compositor.Source, signal compositor.Signal) bool {
	for _, s := range t.bySource[src] {
		if s.signal == signal {
			return true
		}
	}
	return false
}

func (t *signalTable) bound(src compositor.Source) bool {
	return len(t.bySource[src]) > 0
}

func (t *signalTable) disconnectSource(src compositor.Source) {
	for _, s := range t.bySource[src] {
		t.conn.Disconnect(src, s.handle)
	}
	delete(t.bySource, src)
}

func (t *signalTable) disconnectAll() {
	for src := range t.bySource {
		t.disconnectSource(src)
	}
}

func (t *signalTable) sources() []compositor.Source {
	out := make([]compositor.Source, 0, len(t.bySource))
	for src := range t.bySource {
		out = append(out, src)
	}
	return out
}

// len returns the number of live connections.
func (t *signalTable) len() int {
	n := 0
	for _, subs := range t.bySource {
		n += len(subs)
	}
	return n
}
