// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/sim/sim.go
// Summary: In-memory compositor used by tests, scenario replay and the terminal simulator.
// Usage: Drive it with OpenWindow, MoveToWorkspace, Focus, ... and it emits the
// same notifications a desktop compositor would.

// Package sim implements compositor.Display without a real display server.
// It is not safe for concurrent use; drive it from the main loop goroutine.
package sim

import (
	"sort"

	"github.com/framegrace/tilewm/compositor"
)

type conn struct {
	signal compositor.Signal
	sink   compositor.Sink
}

// Compositor is a simulated desktop with monitors, workspaces and windows.
type Compositor struct {
	monitors   []compositor.Rect
	workspaces []*Workspace
	windows    []*Window
	focus      *Window
	active     int
	stage      *Stage
	borders    []*Border

	conns      map[compositor.Source]map[compositor.SignalHandle]conn
	nextHandle compositor.SignalHandle
	nextSeq    uint32
}

// Workspace is the notification source of a single workspace.
type Workspace struct {
	c *Compositor
}

// Index returns the current position of the workspace, or -1 once removed.
func (ws *Workspace) Index() int {
	for i, w := range ws.c.workspaces {
		if w == ws {
			return i
		}
	}
	return -1
}

// New creates a compositor with the given monitor work areas and workspace count.
func New(monitors []compositor.Rect, workspaces int) *Compositor {
	if len(monitors) == 0 {
		monitors = []compositor.Rect{{Width: 1920, Height: 1080}}
	}
	c := &Compositor{
		monitors: append([]compositor.Rect(nil), monitors...),
		stage:    &Stage{},
		conns:    make(map[compositor.Source]map[compositor.SignalHandle]conn),
		nextSeq:  1,
	}
	if workspaces < 1 {
		workspaces = 1
	}
	for i := 0; i < workspaces; i++ {
		c.workspaces = append(c.workspaces, &Workspace{c: c})
	}
	return c
}

// Connect implements compositor.Connector.
func (c *Compositor) Connect(src compositor.Source, signal compositor.Signal, sink compositor.Sink) compositor.SignalHandle {
	c.nextHandle++
	h := c.nextHandle
	if c.conns[src] == nil {
		c.conns[src] = make(map[compositor.SignalHandle]conn)
	}
	c.conns[src][h] = conn{signal: signal, sink: sink}
	return h
}

// Disconnect implements compositor.Connector.
func (c *Compositor) Disconnect(src compositor.Source, h compositor.SignalHandle) {
	handles := c.conns[src]
	if handles == nil {
		return
	}
	delete(handles, h)
	if len(handles) == 0 {
		delete(c.conns, src)
	}
}

// ConnectionCount returns the number of live connections, optionally
// restricted to one source.
func (c *Compositor) ConnectionCount(src compositor.Source) int {
	if src != nil {
		return len(c.conns[src])
	}
	n := 0
	for _, handles := range c.conns {
		n += len(handles)
	}
	return n
}

func (c *Compositor) emit(src compositor.Source, ev compositor.Event) {
	handles := c.conns[src]
	if len(handles) == 0 {
		return
	}
	ids := make([]compositor.SignalHandle, 0, len(handles))
	for h, cn := range handles {
		if cn.signal == ev.Signal() {
			ids = append(ids, h)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, h := range ids {
		if cn, ok := c.conns[src][h]; ok {
			cn.sink(ev)
		}
	}
}

// FocusWindow implements compositor.Display.
func (c *Compositor) FocusWindow() compositor.Window {
	if c.focus == nil {
		return nil
	}
	return c.focus
}

// Windows implements compositor.Display.
func (c *Compositor) Windows() []compositor.Window {
	sorted := append([]*Window(nil), c.windows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].seq < sorted[j].seq })
	out := make([]compositor.Window, len(sorted))
	for i, w := range sorted {
		out[i] = w
	}
	return out
}

// WorkspaceCount implements compositor.Display.
func (c *Compositor) WorkspaceCount() int { return len(c.workspaces) }

// MonitorCount implements compositor.Display.
func (c *Compositor) MonitorCount() int { return len(c.monitors) }

// Workspace implements compositor.Display.
func (c *Compositor) Workspace(index int) compositor.Source {
	if index < 0 || index >= len(c.workspaces) {
		return nil
	}
	return c.workspaces[index]
}

// Stage implements compositor.Display.
func (c *Compositor) Stage() compositor.Stage { return c.stage }

// NewBorder implements compositor.Display.
func (c *Compositor) NewBorder(w compositor.Window, styleClass string) compositor.Border {
	owner, _ := w.(*Window)
	b := &Border{owner: owner, StyleClass: styleClass}
	c.borders = append(c.borders, b)
	return b
}

// SimStage returns the concrete stage.
func (c *Compositor) SimStage() *Stage { return c.stage }

// Borders returns every border ever created.
func (c *Compositor) Borders() []*Border { return append([]*Border(nil), c.borders...) }

// AllWindows returns the open windows in stable-sequence order.
func (c *Compositor) AllWindows() []*Window {
	out := append([]*Window(nil), c.windows...)
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Focused returns the focused window, or nil.
func (c *Compositor) Focused() *Window { return c.focus }

// ActiveWorkspace returns the index of the active workspace.
func (c *Compositor) ActiveWorkspace() int { return c.active }

// MonitorArea returns the work area of monitor m.
func (c *Compositor) MonitorArea(m int) compositor.Rect {
	if m < 0 || m >= len(c.monitors) {
		return compositor.Rect{}
	}
	return c.monitors[m]
}

// WindowOptions describes a window to open.
type WindowOptions struct {
	Class     string
	Title     string
	Type      compositor.WindowType
	Workspace int
	Monitor   int
	// Sticky windows are on every workspace and report no single workspace.
	Sticky bool
	Rect   *compositor.Rect
	// NoActor opens a window that never gets a visual actor.
	NoActor bool
}

// OpenWindow maps a window and emits window-created, window-added and
// window-entered-monitor.
func (c *Compositor) OpenWindow(opts WindowOptions) *Window {
	w := &Window{
		c:       c,
		seq:     c.nextSeq,
		class:   opts.Class,
		Title:   opts.Title,
		typ:     opts.Type,
		monitor: clamp(opts.Monitor, len(c.monitors)),
	}
	c.nextSeq++
	if !opts.Sticky {
		w.workspace = c.workspaces[clamp(opts.Workspace, len(c.workspaces))]
	}
	if opts.Rect != nil {
		w.rect = *opts.Rect
	} else {
		area := c.monitors[w.monitor]
		w.rect = compositor.Rect{X: area.X + 40, Y: area.Y + 40, Width: area.Width / 2, Height: area.Height / 2}
	}
	if !opts.NoActor {
		w.actor = &Actor{window: w}
	}
	c.windows = append(c.windows, w)

	c.emit(compositor.SourceDisplay, compositor.WindowCreated{Window: w})
	if w.workspace != nil {
		c.emit(w.workspace, compositor.WindowAdded{Workspace: w.workspace.Index(), Window: w})
	}
	c.emit(compositor.SourceDisplay, compositor.WindowEnteredMonitor{Monitor: w.monitor, Window: w})
	return w
}

// CloseWindow unmaps w and emits destroy on its actor.
func (c *Compositor) CloseWindow(w *Window) {
	index := -1
	for i, win := range c.windows {
		if win == w {
			index = i
			break
		}
	}
	if index == -1 {
		return
	}
	c.windows = append(c.windows[:index], c.windows[index+1:]...)
	if c.focus == w {
		c.focus = nil
	}
	w.closed = true
	if w.actor != nil {
		w.actor.destroyed = true
		c.emit(w.actor, compositor.ActorDestroyed{Actor: w.actor})
	}
}

// MoveToWorkspace moves w the way a desktop compositor does: workspace-changed
// on the window, then window-added on the target workspace.
func (c *Compositor) MoveToWorkspace(w *Window, index int) {
	if index < 0 || index >= len(c.workspaces) {
		return
	}
	target := c.workspaces[index]
	if w.workspace == target {
		return
	}
	w.workspace = target
	c.emit(w, compositor.WorkspaceChanged{Window: w})
	c.emit(target, compositor.WindowAdded{Workspace: index, Window: w})
}

// SetSticky puts w on all workspaces, or back on the active one, and emits
// workspace-changed on the window.
func (c *Compositor) SetSticky(w *Window, sticky bool) {
	if sticky == (w.workspace == nil) {
		return
	}
	if sticky {
		w.workspace = nil
		c.emit(w, compositor.WorkspaceChanged{Window: w})
		return
	}
	target := c.workspaces[c.active]
	w.workspace = target
	c.emit(w, compositor.WorkspaceChanged{Window: w})
	c.emit(target, compositor.WindowAdded{Workspace: c.active, Window: w})
}

// Relocate changes a window's placement without emitting anything.
func (c *Compositor) Relocate(w *Window, monitor, workspace int) {
	w.monitor = clamp(monitor, len(c.monitors))
	if workspace >= 0 && workspace < len(c.workspaces) {
		w.workspace = c.workspaces[workspace]
	}
}

// NotifyEnteredMonitor emits window-entered-monitor for w's current monitor.
func (c *Compositor) NotifyEnteredMonitor(w *Window) {
	c.emit(compositor.SourceDisplay, compositor.WindowEnteredMonitor{Monitor: w.monitor, Window: w})
}

// MoveToMonitor moves w to monitor m, keeping its offset inside the work area.
func (c *Compositor) MoveToMonitor(w *Window, m int) {
	if m < 0 || m >= len(c.monitors) || m == w.monitor {
		return
	}
	old := w.monitor
	from, to := c.monitors[old], c.monitors[m]
	w.monitor = m
	w.rect.X = to.X + (w.rect.X - from.X)
	w.rect.Y = to.Y + (w.rect.Y - from.Y)
	c.emit(compositor.SourceDisplay, compositor.WindowLeftMonitor{Monitor: old, Window: w})
	c.emit(compositor.SourceDisplay, compositor.WindowEnteredMonitor{Monitor: m, Window: w})
	c.emit(w, compositor.PositionChanged{Window: w})
}

// Focus gives w the input focus and emits focus on it. A nil window clears focus.
func (c *Compositor) Focus(w *Window) {
	c.focus = w
	if w != nil {
		c.emit(w, compositor.Focus{Window: w})
	}
}

// Maximize sets the maximized axes of w.
func (c *Compositor) Maximize(w *Window, flags compositor.MaximizeFlags) {
	if w.maximized == flags {
		return
	}
	w.maximized = flags
	if flags == compositor.MaximizeBoth {
		area := c.monitors[w.monitor]
		w.rect = area
	}
	c.emit(w, compositor.SizeChanged{Window: w})
	c.emit(w, compositor.PositionChanged{Window: w})
}

// Minimize minimizes w.
func (c *Compositor) Minimize(w *Window) {
	if w.minimized {
		return
	}
	w.minimized = true
	c.emit(compositor.SourceWindowManager, compositor.Minimize{Window: w})
}

// Unminimize restores w.
func (c *Compositor) Unminimize(w *Window) {
	if !w.minimized {
		return
	}
	w.minimized = false
	c.emit(compositor.SourceWindowManager, compositor.Unminimize{Window: w})
}

// BeginGrab starts an interactive operation on w.
func (c *Compositor) BeginGrab(w *Window, op compositor.GrabOp) {
	w.grabbed = true
	c.emit(compositor.SourceDisplay, compositor.GrabOpBegin{Window: w, Op: op})
}

// EndGrab finishes the interactive operation on w.
func (c *Compositor) EndGrab(w *Window, op compositor.GrabOp) {
	w.grabbed = false
	c.emit(compositor.SourceDisplay, compositor.GrabOpEnd{Window: w, Op: op})
}

// Drag moves a grabbed window as a pointer drag would.
func (c *Compositor) Drag(w *Window, dx, dy int) {
	w.rect.X += dx
	w.rect.Y += dy
	c.emit(w, compositor.PositionChanged{Window: w})
}

// AddWorkspace appends a workspace and returns its index.
func (c *Compositor) AddWorkspace() int {
	c.workspaces = append(c.workspaces, &Workspace{c: c})
	index := len(c.workspaces) - 1
	c.emit(compositor.SourceWorkspaceManager, compositor.WorkspaceAdded{Index: index})
	return index
}

// RemoveWorkspace removes a workspace. Its windows move to the previous
// workspace (or the next one when removing the first).
func (c *Compositor) RemoveWorkspace(index int) {
	if index < 0 || index >= len(c.workspaces) || len(c.workspaces) == 1 {
		return
	}
	removed := c.workspaces[index]
	targetIndex := index - 1
	if targetIndex < 0 {
		targetIndex = 1
	}
	target := c.workspaces[targetIndex]
	var moved []*Window
	for _, w := range c.windows {
		if w.workspace == removed {
			w.workspace = target
			moved = append(moved, w)
		}
	}
	c.workspaces = append(c.workspaces[:index], c.workspaces[index+1:]...)
	if c.active >= len(c.workspaces) {
		c.active = len(c.workspaces) - 1
	}
	c.emit(compositor.SourceWorkspaceManager, compositor.WorkspaceRemoved{Index: index})
	for _, w := range moved {
		c.emit(w, compositor.WorkspaceChanged{Window: w})
		c.emit(target, compositor.WindowAdded{Workspace: target.Index(), Window: w})
	}
}

// SwitchWorkspace activates workspace index.
func (c *Compositor) SwitchWorkspace(index int) {
	if index < 0 || index >= len(c.workspaces) || index == c.active {
		return
	}
	from := c.active
	c.active = index
	c.emit(compositor.SourceWorkspaceManager, compositor.WorkspaceSwitched{From: from, To: index})
}

// SetWorkArea changes the work area of monitor m.
func (c *Compositor) SetWorkArea(m int, area compositor.Rect) {
	if m < 0 || m >= len(c.monitors) {
		return
	}
	c.monitors[m] = area
	c.emit(compositor.SourceDisplay, compositor.WorkareasChanged{})
}

// AddMonitor plugs in a monitor.
func (c *Compositor) AddMonitor(area compositor.Rect) int {
	c.monitors = append(c.monitors, area)
	c.emit(compositor.SourceDisplay, compositor.WorkareasChanged{})
	return len(c.monitors) - 1
}

// ShowDesktop toggles the showing-desktop state.
func (c *Compositor) ShowDesktop() {
	c.emit(compositor.SourceDisplay, compositor.ShowingDesktopChanged{Source: compositor.SourceDisplay})
	c.emit(compositor.SourceWorkspaceManager, compositor.ShowingDesktopChanged{Source: compositor.SourceWorkspaceManager})
}

// TilePreview emits show-tile-preview for w.
func (c *Compositor) TilePreview(w *Window, rect compositor.Rect) {
	c.emit(compositor.SourceWindowManager, compositor.ShowTilePreview{Window: w, Rect: rect, Monitor: w.monitor})
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
