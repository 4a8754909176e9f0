// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/registry.go
// Summary: Per-window subscription bundles and focus borders.
// Usage: The engine attaches windows on tracking and releases them on destroy or disable.

package wm

import (
	"github.com/framegrace/tilewm/compositor"
)

// DefaultBorderStyle is the style class given to new focus borders.
const DefaultBorderStyle = "window-clone-border"

type entry struct {
	window compositor.Window
	actor  compositor.Actor
	border compositor.Border
}

// Registry owns the window-level and actor-level subscriptions and the one
// border visual of each tracked window.
type Registry struct {
	display    compositor.Display
	signals    *signalTable
	styleClass string

	entries map[compositor.Window]*entry
	byActor map[compositor.Actor]compositor.Window
}

func newRegistry(display compositor.Display, signals *signalTable, styleClass string) *Registry {
	if styleClass == "" {
		styleClass = DefaultBorderStyle
	}
	return &Registry{
		display:    display,
		signals:    signals,
		styleClass: styleClass,
		entries:    make(map[compositor.Window]*entry),
		byActor:    make(map[compositor.Actor]compositor.Window),
	}
}

// Attach binds the window signal bundle, the actor destroy subscription and
// the border of w. Each part is only created once, so repeated calls are
// harmless.
func (r *Registry) Attach(w compositor.Window, sink compositor.Sink) {
	e := r.entries[w]
	if e == nil {
		e = &entry{window: w}
		r.entries[w] = e
	}

	for _, sig := range []compositor.Signal{
		compositor.SignalPositionChanged,
		compositor.SignalSizeChanged,
		compositor.SignalFocus,
		compositor.SignalWorkspaceChanged,
	} {
		r.signals.connect(w, sig, sink)
	}

	if actor := w.Actor(); actor != nil {
		if e.actor != nil && e.actor != actor {
			r.signals.disconnectSource(e.actor)
			delete(r.byActor, e.actor)
		}
		e.actor = actor
		r.byActor[actor] = w
		r.signals.connect(actor, compositor.SignalDestroy, sink)
	}

	if e.border == nil {
		e.border = r.display.NewBorder(w, r.styleClass)
		e.border.Hide()
		if stage := r.display.Stage(); stage != nil {
			stage.AddChild(e.border)
		}
	}
}

// Attached reports whether w has an entry.
func (r *Registry) Attached(w compositor.Window) bool {
	_, ok := r.entries[w]
	return ok
}

// Border returns the border of w, or nil.
func (r *Registry) Border(w compositor.Window) compositor.Border {
	if e := r.entries[w]; e != nil {
		return e.border
	}
	return nil
}

// WindowForActor returns the window last seen with actor.
func (r *Registry) WindowForActor(actor compositor.Actor) (compositor.Window, bool) {
	w, ok := r.byActor[actor]
	return w, ok
}

// Len returns the number of attached windows.
func (r *Registry) Len() int { return len(r.entries) }

// HideBorders hides every border.
func (r *Registry) HideBorders() {
	for _, e := range r.entries {
		if e.border != nil {
			e.border.Hide()
		}
	}
}

// VisibleBorders returns the number of borders currently shown.
func (r *Registry) VisibleBorders() int {
	n := 0
	for _, e := range r.entries {
		if e.border != nil && e.border.Visible() {
			n++
		}
	}
	return n
}

// ReleaseActor tears down the entry of the window owning actor and returns
// that window.
func (r *Registry) ReleaseActor(actor compositor.Actor) (compositor.Window, bool) {
	w, ok := r.byActor[actor]
	if !ok {
		r.signals.disconnectSource(actor)
		return nil, false
	}
	r.Release(w)
	return w, true
}

// Release tears down the entry of w.
func (r *Registry) Release(w compositor.Window) {
	e := r.entries[w]
	r.signals.disconnectSource(w)
	if e == nil {
		return
	}
	if e.actor != nil {
		r.signals.disconnectSource(e.actor)
		delete(r.byActor, e.actor)
	}
	r.dropBorder(e)
	delete(r.entries, w)
}

// Retain releases every entry whose window is not in live.
func (r *Registry) Retain(live []compositor.Window) {
	keep := make(map[compositor.Window]bool, len(live))
	for _, w := range live {
		keep[w] = true
	}
	for w := range r.entries {
		if !keep[w] {
			r.Release(w)
		}
	}
}

// ReleaseAll tears down every entry.
func (r *Registry) ReleaseAll() {
	for w := range r.entries {
		r.Release(w)
	}
}

func (r *Registry) dropBorder(e *entry) {
	if e.border == nil {
		return
	}
	e.border.Hide()
	if stage := r.display.Stage(); stage != nil {
		stage.RemoveChild(e.border)
	}
	e.border = nil
}
