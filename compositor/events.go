// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/events.go
// Summary: Signal names, subscription plumbing and the typed notification variants.

package compositor

// Signal names a compositor notification.
type Signal string

const (
	SignalWindowCreated         Signal = "window-created"
	SignalWindowEnteredMonitor  Signal = "window-entered-monitor"
	SignalWindowLeftMonitor     Signal = "window-left-monitor"
	SignalGrabOpBegin           Signal = "grab-op-begin"
	SignalGrabOpEnd             Signal = "grab-op-end"
	SignalShowingDesktopChanged Signal = "showing-desktop-changed"
	SignalWorkareasChanged      Signal = "workareas-changed"

	SignalMinimize        Signal = "minimize"
	SignalUnminimize      Signal = "unminimize"
	SignalShowTilePreview Signal = "show-tile-preview"

	SignalWorkspaceAdded    Signal = "workspace-added"
	SignalWorkspaceRemoved  Signal = "workspace-removed"
	SignalWorkspaceSwitched Signal = "workspace-switched"

	SignalWindowAdded Signal = "window-added"

	SignalPositionChanged  Signal = "position-changed"
	SignalSizeChanged      Signal = "size-changed"
	SignalFocus            Signal = "focus"
	SignalWorkspaceChanged Signal = "workspace-changed"

	SignalDestroy Signal = "destroy"
)

// Source identifies an emitter of notifications: one of the well-known
// global sources, a workspace returned by Display.Workspace, a Window or an
// Actor. Sources are used as map keys and must be comparable.
type Source interface{}

type globalSource string

const (
	SourceDisplay          globalSource = "display"
	SourceWindowManager    globalSource = "window-manager"
	SourceWorkspaceManager globalSource = "workspace-manager"
)

// SignalHandle identifies one connection.
type SignalHandle uint64

// Sink receives notifications. It is called on whatever goroutine the
// compositor emits from and must not block.
type Sink func(Event)

// Connector manages subscriptions. Disconnecting an unknown handle is a no-op.
type Connector interface {
	Connect(src Source, signal Signal, sink Sink) SignalHandle
	Disconnect(src Source, h SignalHandle)
}

// Event is a compositor notification. The set of variants is closed.
type Event interface {
	Signal() Signal
	isEvent()
}

type WindowCreated struct{ Window Window }

type WindowEnteredMonitor struct {
	Monitor int
	Window  Window
}

type WindowLeftMonitor struct {
	Monitor int
	Window  Window
}

type GrabOpBegin struct {
	Window Window
	Op     GrabOp
}

type GrabOpEnd struct {
	Window Window
	Op     GrabOp
}

// ShowingDesktopChanged is emitted by both the display and the workspace manager.
type ShowingDesktopChanged struct{ Source Source }

type WorkareasChanged struct{}

type Minimize struct{ Window Window }

type Unminimize struct{ Window Window }

type ShowTilePreview struct {
	Window  Window
	Rect    Rect
	Monitor int
}

type WorkspaceAdded struct{ Index int }

type WorkspaceRemoved struct{ Index int }

type WorkspaceSwitched struct{ From, To int }

// WindowAdded is emitted by a workspace source when a window joins it.
type WindowAdded struct {
	Workspace int
	Window    Window
}

type PositionChanged struct{ Window Window }

type SizeChanged struct{ Window Window }

type Focus struct{ Window Window }

type WorkspaceChanged struct{ Window Window }

// ActorDestroyed fires on the actor; the window handle may already be torn down.
type ActorDestroyed struct{ Actor Actor }

func (WindowCreated) Signal() Signal         { return SignalWindowCreated }
func (WindowEnteredMonitor) Signal() Signal  { return SignalWindowEnteredMonitor }
func (WindowLeftMonitor) Signal() Signal     { return SignalWindowLeftMonitor }
func (GrabOpBegin) Signal() Signal           { return SignalGrabOpBegin }
func (GrabOpEnd) Signal() Signal             { return SignalGrabOpEnd }
func (ShowingDesktopChanged) Signal() Signal { return SignalShowingDesktopChanged }
func (WorkareasChanged) Signal() Signal      { return SignalWorkareasChanged }
func (Minimize) Signal() Signal              { return SignalMinimize }
func (Unminimize) Signal() Signal            { return SignalUnminimize }
func (ShowTilePreview) Signal() Signal       { return SignalShowTilePreview }
func (WorkspaceAdded) Signal() Signal        { return SignalWorkspaceAdded }
func (WorkspaceRemoved) Signal() Signal      { return SignalWorkspaceRemoved }
func (WorkspaceSwitched) Signal() Signal     { return SignalWorkspaceSwitched }
func (WindowAdded) Signal() Signal           { return SignalWindowAdded }
func (PositionChanged) Signal() Signal       { return SignalPositionChanged }
func (SizeChanged) Signal() Signal           { return SignalSizeChanged }
func (Focus) Signal() Signal                 { return SignalFocus }
func (WorkspaceChanged) Signal() Signal      { return SignalWorkspaceChanged }
func (ActorDestroyed) Signal() Signal        { return SignalDestroy }

func (WindowCreated) isEvent()         {}
func (WindowEnteredMonitor) isEvent()  {}
func (WindowLeftMonitor) isEvent()     {}
func (GrabOpBegin) isEvent()           {}
func (GrabOpEnd) isEvent()             {}
func (ShowingDesktopChanged) isEvent() {}
func (WorkareasChanged) isEvent()      {}
func (Minimize) isEvent()              {}
func (Unminimize) isEvent()            {}
func (ShowTilePreview) isEvent()       {}
func (WorkspaceAdded) isEvent()        {}
func (WorkspaceRemoved) isEvent()      {}
func (WorkspaceSwitched) isEvent()     {}
func (WindowAdded) isEvent()           {}
func (PositionChanged) isEvent()       {}
func (SizeChanged) isEvent()           {}
func (Focus) isEvent()                 {}
func (WorkspaceChanged) isEvent()      {}
func (ActorDestroyed) isEvent()        {}
