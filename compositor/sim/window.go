// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/sim/window.go
// Summary: Simulated windows, actors, borders and the overlay stage.

package sim

import (
	"github.com/framegrace/tilewm/compositor"
)

// Window is a simulated top-level window.
type Window struct {
	c *Compositor

	seq       uint32
	class     string
	Title     string
	typ       compositor.WindowType
	monitor   int
	workspace *Workspace
	rect      compositor.Rect
	maximized compositor.MaximizeFlags
	minimized bool
	grabbed   bool
	closed    bool
	actor     *Actor

	// MoveCalls counts frame moves requested by the window manager.
	MoveCalls int
}

func (w *Window) Type() compositor.WindowType { return w.typ }
func (w *Window) WMClass() string             { return w.class }
func (w *Window) StableSequence() uint32      { return w.seq }
func (w *Window) Monitor() int                { return w.monitor }
func (w *Window) FrameRect() compositor.Rect  { return w.rect }
func (w *Window) Minimized() bool             { return w.minimized }
func (w *Window) Grabbed() bool               { return w.grabbed }
func (w *Window) Closed() bool                { return w.closed }

// Workspace reports the workspace index; sticky windows report false.
func (w *Window) Workspace() (int, bool) {
	if w.workspace == nil {
		return 0, false
	}
	index := w.workspace.Index()
	return index, index >= 0
}

// WorkArea returns the work area of the window's monitor.
func (w *Window) WorkArea() compositor.Rect { return w.c.MonitorArea(w.monitor) }

func (w *Window) Maximized() compositor.MaximizeFlags { return w.maximized }

// AppearsFocused reports whether w holds the input focus.
func (w *Window) AppearsFocused() bool { return w.c.focus == w }

// Actor returns the visual actor, or nil before mapping and after destroy.
func (w *Window) Actor() compositor.Actor {
	if w.actor == nil || w.actor.destroyed {
		return nil
	}
	return w.actor
}

// SimActor returns the concrete actor even after it has been destroyed.
func (w *Window) SimActor() *Actor { return w.actor }

// Unmaximize clears the given axes.
func (w *Window) Unmaximize(flags compositor.MaximizeFlags) {
	next := w.maximized &^ flags
	if next == w.maximized {
		return
	}
	w.maximized = next
	w.c.emit(w, compositor.SizeChanged{Window: w})
}

// MoveFrame moves the frame without resizing.
func (w *Window) MoveFrame(userOp bool, x, y int) {
	w.MoveCalls++
	if w.rect.X == x && w.rect.Y == y {
		return
	}
	w.rect.X, w.rect.Y = x, y
	w.c.emit(w, compositor.PositionChanged{Window: w})
}

// MoveResizeFrame moves and resizes the frame, emitting position-changed
// and size-changed for what actually changed.
func (w *Window) MoveResizeFrame(userOp bool, x, y, width, height int) {
	w.MoveCalls++
	moved := w.rect.X != x || w.rect.Y != y
	resized := w.rect.Width != width || w.rect.Height != height
	w.rect = compositor.Rect{X: x, Y: y, Width: width, Height: height}
	if moved {
		w.c.emit(w, compositor.PositionChanged{Window: w})
	}
	if resized {
		w.c.emit(w, compositor.SizeChanged{Window: w})
	}
}

// Actor is the visual representation of a window.
type Actor struct {
	window    *Window
	destroyed bool

	// TransitionsCleared counts RemoveAllTransitions calls.
	TransitionsCleared int
}

func (a *Actor) RemoveAllTransitions() { a.TransitionsCleared++ }

// Destroyed reports whether the actor has been torn down.
func (a *Actor) Destroyed() bool { return a.destroyed }

// Border is a simulated focus outline.
type Border struct {
	owner      *Window
	StyleClass string
	visible    bool
	Rect       compositor.Rect
}

func (b *Border) Show()         { b.visible = true }
func (b *Border) Hide()         { b.visible = false }
func (b *Border) Visible() bool { return b.visible }

func (b *Border) SetSize(width, height int) {
	b.Rect.Width, b.Rect.Height = width, height
}

func (b *Border) SetPosition(x, y int) {
	b.Rect.X, b.Rect.Y = x, y
}

// Owner returns the window the border outlines.
func (b *Border) Owner() *Window { return b.owner }

// Stage is the overlay layer holding border actors. The last child is on top.
type Stage struct {
	children []*Border
}

// AddChild appends b on top of the stage.
func (s *Stage) AddChild(b compositor.Border) {
	sb, ok := b.(*Border)
	if !ok || s.index(sb) >= 0 {
		return
	}
	s.children = append(s.children, sb)
}

// RemoveChild removes b from the stage.
func (s *Stage) RemoveChild(b compositor.Border) {
	sb, ok := b.(*Border)
	if !ok {
		return
	}
	if i := s.index(sb); i >= 0 {
		s.children = append(s.children[:i], s.children[i+1:]...)
	}
}

// Contains reports whether b is on the stage.
func (s *Stage) Contains(b compositor.Border) bool {
	sb, ok := b.(*Border)
	return ok && s.index(sb) >= 0
}

// Children returns the stage children bottom to top.
func (s *Stage) Children() []*Border { return append([]*Border(nil), s.children...) }

// Top returns the topmost border, or nil.
func (s *Stage) Top() *Border {
	if len(s.children) == 0 {
		return nil
	}
	return s.children[len(s.children)-1]
}

func (s *Stage) index(b *Border) int {
	for i, child := range s.children {
		if child == b {
			return i
		}
	}
	return -1
}
