// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/compositor.go
// Summary: Boundary types for the desktop compositor tilewm synchronizes against.
// Usage: Implemented by compositor adapters (and compositor/sim); consumed by tree, layout and wm.

// Package compositor describes the external compositor that owns windows,
// their geometry and their visual actors. tilewm never stores geometry itself;
// it queries these interfaces and reacts to the notifications they emit.
package compositor

import "fmt"

// WindowType is the compositor's window category.
type WindowType int

const (
	WindowNormal WindowType = iota
	WindowDesktop
	WindowDock
	WindowDialog
	WindowModalDialog
	WindowToolbar
	WindowMenu
	WindowUtility
	WindowSplashscreen
	WindowDropdownMenu
	WindowPopupMenu
	WindowTooltip
	WindowNotification
	WindowOverrideOther
)

var windowTypeNames = map[WindowType]string{
	WindowNormal:        "normal",
	WindowDesktop:       "desktop",
	WindowDock:          "dock",
	WindowDialog:        "dialog",
	WindowModalDialog:   "modal_dialog",
	WindowToolbar:       "toolbar",
	WindowMenu:          "menu",
	WindowUtility:       "utility",
	WindowSplashscreen:  "splashscreen",
	WindowDropdownMenu:  "dropdown_menu",
	WindowPopupMenu:     "popup_menu",
	WindowTooltip:       "tooltip",
	WindowNotification:  "notification",
	WindowOverrideOther: "override_other",
}

func (t WindowType) String() string {
	if name, ok := windowTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("window_type(%d)", int(t))
}

// ParseWindowType maps a configuration name back to a WindowType.
func ParseWindowType(name string) (WindowType, error) {
	for t, n := range windowTypeNames {
		if n == name {
			return t, nil
		}
	}
	return WindowNormal, fmt.Errorf("unknown window type %q", name)
}

// MaximizeFlags reports on which axes a window is maximized.
type MaximizeFlags int

const (
	MaximizeHorizontal MaximizeFlags = 1 << iota
	MaximizeVertical

	MaximizeNone MaximizeFlags = 0
	MaximizeBoth               = MaximizeHorizontal | MaximizeVertical
)

// GrabOp tags an interactive move/resize operation.
type GrabOp int

const (
	GrabOpNone GrabOp = iota
	GrabOpMoving
	GrabOpResizingNW
	GrabOpResizingN
	GrabOpResizingNE
	GrabOpResizingE
	GrabOpResizingSE
	GrabOpResizingS
	GrabOpResizingSW
	GrabOpResizingW
	GrabOpKeyboardMoving
	GrabOpKeyboardResizing
)

func (op GrabOp) String() string {
	switch op {
	case GrabOpNone:
		return "none"
	case GrabOpMoving:
		return "moving"
	case GrabOpKeyboardMoving:
		return "keyboard-moving"
	case GrabOpKeyboardResizing:
		return "keyboard-resizing"
	default:
		return fmt.Sprintf("resizing(%d)", int(op))
	}
}

// Rect is a rectangle in compositor pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Actor is the compositor-private visual of a window.
type Actor interface {
	RemoveAllTransitions()
}

// Window is a live compositor window handle. Implementations must be
// comparable (pointer types) because handles are matched by identity.
type Window interface {
	Type() WindowType
	WMClass() string
	StableSequence() uint32

	// Monitor returns the index of the monitor the window is on.
	Monitor() int
	// Workspace returns the workspace index, or false when the window is
	// not bound to a single workspace.
	Workspace() (int, bool)
	FrameRect() Rect
	// WorkArea is the usable area of the window's current monitor.
	WorkArea() Rect

	Maximized() MaximizeFlags
	Minimized() bool
	AppearsFocused() bool
	Grabbed() bool

	// Actor returns nil once the window has no visual.
	Actor() Actor

	Unmaximize(flags MaximizeFlags)
	MoveFrame(userOp bool, x, y int)
	MoveResizeFrame(userOp bool, x, y, width, height int)
}

// Border is the focus indicator visual attached to a window.
type Border interface {
	Show()
	Hide()
	Visible() bool
	SetSize(width, height int)
	SetPosition(x, y int)
}

// Stage is the compositor's window group; children added last draw on top.
type Stage interface {
	AddChild(b Border)
	RemoveChild(b Border)
	Contains(b Border) bool
}

// Display is the query and command surface of the compositor.
type Display interface {
	Connector

	// FocusWindow returns nil when nothing is focused.
	FocusWindow() Window
	// Windows lists the normal windows of every workspace ordered by stable sequence.
	Windows() []Window
	WorkspaceCount() int
	MonitorCount() int
	// Workspace returns the notification source of the workspace at index.
	Workspace(index int) Source

	// Stage may return nil when the compositor has no window group.
	Stage() Stage
	NewBorder(w Window, styleClass string) Border
}
