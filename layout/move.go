// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/move.go
// Summary: Places a window frame at an exact rectangle.
// Usage: Called by the column tiler and by MoveResize commands.

// Package layout holds the geometry collaborators of the window manager:
// frame placement, resolution of loose MoveResize parameters and a simple
// column tiler used as the default render pass.
package layout

import (
	"github.com/framegrace/tilewm/compositor"
)

// Move places w at rect. Grabbed windows are left to the user. The window is
// fully unmaximized first, and pending actor transitions are dropped so the
// frame lands immediately. Windows without an actor are not moved.
func Move(w compositor.Window, rect compositor.Rect) bool {
	if w == nil || w.Grabbed() {
		return false
	}
	w.Unmaximize(compositor.MaximizeHorizontal)
	w.Unmaximize(compositor.MaximizeVertical)
	w.Unmaximize(compositor.MaximizeBoth)

	actor := w.Actor()
	if actor == nil {
		return false
	}
	actor.RemoveAllTransitions()

	w.MoveFrame(true, rect.X, rect.Y)
	w.MoveResizeFrame(true, rect.X, rect.Y, rect.Width, rect.Height)
	return true
}
