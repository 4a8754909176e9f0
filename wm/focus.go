// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/focus.go
// Summary: Keeps a single border drawn around the focused window.

package wm

import (
	"github.com/framegrace/tilewm/compositor"
)

// FocusIndicator shows the border of the focused window and hides the rest.
type FocusIndicator struct {
	display  compositor.Display
	registry *Registry
}

// Show hides every border, then outlines the focused window if it has a
// border. The border is only made visible while the window appears focused
// and is not minimized, and it is raised to the top of the stage. It returns
// the window whose border was updated, or nil.
func (f *FocusIndicator) Show() compositor.Window {
	f.registry.HideBorders()
	w := f.display.FocusWindow()
	if w == nil {
		return nil
	}
	b := f.registry.Border(w)
	if b == nil {
		return nil
	}
	rect := w.FrameRect()
	b.SetSize(rect.Width, rect.Height)
	b.SetPosition(rect.X, rect.Y)
	if w.AppearsFocused() && !w.Minimized() {
		b.Show()
	}
	if stage := f.display.Stage(); stage != nil && stage.Contains(b) {
		stage.RemoveChild(b)
		stage.AddChild(b)
	}
	return w
}
