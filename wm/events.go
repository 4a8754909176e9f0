// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/events.go
// Summary: Compositor notification handlers and the full reload pass.

package wm

import (
	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/tree"
)

func (e *Engine) dispatch(ev compositor.Event) {
	if !e.enabled {
		return
	}
	e.metrics.Event(string(ev.Signal()))

	switch ev := ev.(type) {
	case compositor.WindowCreated:
		e.trackWindow(ev.Window)
	case compositor.WindowEnteredMonitor:
		e.updateWorkspaceMonitor(ev.Window)
	case compositor.WindowAdded:
		e.updateWorkspaceMonitor(ev.Window)
	case compositor.WorkspaceChanged:
		e.logger.Debug("workspace-changed", "class", ev.Window.WMClass())
		e.updateWorkspaceMonitor(ev.Window)
	case compositor.WindowLeftMonitor:
		e.logger.Debug("window-left-monitor", "monitor", ev.Monitor)

	case compositor.GrabOpBegin:
		e.scheduler.Freeze()
		if n := e.tree.FindNode(ev.Window); n != nil {
			n.GrabOp = ev.Op
		}
		e.logger.Debug("grab op begin", "op", ev.Op)
	case compositor.GrabOpEnd:
		e.scheduler.Unfreeze()
		if n := e.tree.FindNode(ev.Window); n != nil {
			n.GrabOp = compositor.GrabOpNone
		}
		if e.focusUnmaximized() {
			e.scheduler.Schedule("grab-op-end")
		}
		e.logger.Debug("grab op end", "op", ev.Op)

	case compositor.ShowingDesktopChanged:
		if ev.Source == compositor.SourceWorkspaceManager {
			e.registry.HideBorders()
		}
		e.logger.Debug("showing-desktop-changed", "source", ev.Source)
	case compositor.WorkareasChanged:
		e.reload("workareas-changed")
		e.logger.Debug("workareas-changed")

	case compositor.Minimize:
		e.registry.HideBorders()
		e.scheduler.Schedule("minimize")
	case compositor.Unminimize:
		e.scheduler.Schedule("unminimize")
	case compositor.ShowTilePreview:
		e.logger.Debug("show-tile-preview", "monitor", ev.Monitor)

	case compositor.WorkspaceAdded:
		e.workspaceAdded(ev.Index)
	case compositor.WorkspaceRemoved:
		e.workspaceRemoved(ev.Index)
	case compositor.WorkspaceSwitched:
		e.workspaceSwitched()

	case compositor.PositionChanged:
		e.positionSizeChanged()
	case compositor.SizeChanged:
		e.positionSizeChanged()
	case compositor.Focus:
		e.showBorder()

	case compositor.ActorDestroyed:
		e.windowDestroyed(ev.Actor)
	}
}

func (e *Engine) trackable(w compositor.Window) bool {
	return w != nil && e.trackTypes[w.Type()]
}

func (e *Engine) focusUnmaximized() bool {
	w := e.display.FocusWindow()
	return w != nil && w.Maximized() == compositor.MaximizeNone
}

// trackWindow inserts a node for w when it has none and attaches its
// subscriptions and border. Windows whose monitor node does not exist yet
// are skipped; a later placement notification retries.
func (e *Engine) trackWindow(w compositor.Window) bool {
	if !e.trackable(w) {
		return false
	}
	ws, ok := w.Workspace()
	if !ok {
		e.logger.Debug("track skipped, window on all workspaces", "class", w.WMClass())
		return false
	}
	if e.tree.FindNode(w) == nil {
		key := tree.MonitorKey(w.Monitor(), ws)
		if e.tree.FindNode(key) == nil {
			e.logger.Debug("track deferred", "class", w.WMClass(), "key", key)
			return false
		}
		n, err := e.tree.AddNode(key, tree.NodeWindow, w)
		if err != nil {
			e.logger.Debug("track failed", "class", w.WMClass(), "err", err)
			return false
		}
		n.Mode = e.initialMode(w)
		e.metrics.SetTracked(len(e.tree.Windows()))
		e.logger.Debug("window tracked", "class", w.WMClass(), "workspace", ws, "monitor", w.Monitor(), "mode", n.Mode)
	}
	e.registry.Attach(w, e.post)
	return true
}

func (e *Engine) initialMode(w compositor.Window) tree.Mode {
	if mode, ok := e.carriedModes[w]; ok {
		return mode
	}
	if mode, ok := e.heldModes[w]; ok {
		delete(e.heldModes, w)
		return mode
	}
	if e.memory != nil {
		if mode, ok := e.memory.Recall(w.StableSequence(), w.WMClass()); ok && mode != tree.ModeNone {
			return mode
		}
	}
	if e.floatClasses[w.WMClass()] {
		return tree.ModeFloat
	}
	return tree.ModeTile
}

func (e *Engine) trackCurrentWindows() {
	for _, w := range e.display.Windows() {
		e.trackWindow(w)
	}
	e.logger.Debug("track-current-windows")
}

// place moves w's node under the monitor node matching where the compositor
// reports it, keeping its mode. It reports whether the tree changed. A node
// whose target monitor node is missing stays where it is.
func (e *Engine) place(w compositor.Window) bool {
	ws, ok := w.Workspace()
	if !ok {
		return false
	}
	n := e.tree.FindNode(w)
	if n == nil {
		return false
	}
	key := tree.MonitorKey(w.Monitor(), ws)
	parentKey, ok := e.tree.ParentKey(n)
	if !ok || parentKey == key || e.tree.FindNode(key) == nil {
		return false
	}
	mode, grab := n.Mode, n.GrabOp
	e.tree.RemoveNode(parentKey, n)
	moved, err := e.tree.AddNode(key, tree.NodeWindow, w)
	if err != nil {
		return false
	}
	moved.Mode, moved.GrabOp = mode, grab
	e.logger.Debug("window moved", "class", w.WMClass(), "from", parentKey, "to", key)
	return true
}

// updateWorkspaceMonitor handles every notification implying a placement
// change. It is a no-op on the tree when the node is already in place.
func (e *Engine) updateWorkspaceMonitor(w compositor.Window) {
	if e.trackable(w) {
		if _, ok := w.Workspace(); !ok {
			e.untrackSticky(w)
			return
		}
		if e.tree.FindNode(w) == nil {
			e.trackWindow(w)
		} else {
			e.place(w)
		}
	}
	e.showBorder()
	e.scheduler.Schedule("update-workspace-monitor")
}

// untrackSticky drops the node of a window that moved to all workspaces, the
// same outcome a rebuild gives. Its subscriptions stay attached so a later
// workspace-changed can track it again.
func (e *Engine) untrackSticky(w compositor.Window) {
	n := e.tree.FindNode(w)
	if n == nil {
		return
	}
	parentKey, _ := e.tree.ParentKey(n)
	e.tree.RemoveNode(parentKey, n)
	e.metrics.SetTracked(len(e.tree.Windows()))
	e.logger.Debug("window untracked, now on all workspaces", "class", w.WMClass())
	e.showBorder()
	e.scheduler.Schedule("update-workspace-monitor")
}

func (e *Engine) positionSizeChanged() {
	e.showBorder()
	if e.focusUnmaximized() {
		e.scheduler.Schedule("position-size-changed")
	}
}

// windowDestroyed releases the border and subscriptions of the destroyed
// actor's window and removes its node. Destroys for windows that already
// left the tree are absorbed silently.
func (e *Engine) windowDestroyed(actor compositor.Actor) {
	w, known := e.registry.ReleaseActor(actor)
	if known {
		delete(e.heldModes, w)
	}
	n := e.tree.FindNodeByActor(actor)
	if n == nil && known {
		n = e.tree.FindNode(w)
	}
	if n == nil {
		e.logger.Debug("window-destroy", "tracked", false)
		return
	}
	parentKey, _ := e.tree.ParentKey(n)
	e.tree.RemoveNode(parentKey, n)
	e.metrics.SetTracked(len(e.tree.Windows()))
	if known {
		e.logger.Debug("window destroyed", "class", w.WMClass())
	}
	e.scheduler.Schedule("window-destroy")
}

func (e *Engine) workspaceAdded(index int) {
	if e.tree.AddWorkspace(index, e.display.MonitorCount()) {
		e.logger.Debug("workspace-added", "workspace", index)
	} else {
		e.logger.Debug("workspace-add-skipped", "workspace", index)
	}
	e.bindWorkspaceSignals()
}

// workspaceRemoved mirrors the removal. Workspaces after the removed one
// shift down an index on the compositor side, so their keys are rebuilt by a
// reload.
func (e *Engine) workspaceRemoved(index int) {
	e.holdWorkspaceModes(index)
	if e.tree.RemoveWorkspace(index) {
		e.logger.Debug("workspace-removed", "workspace", index)
	} else {
		e.logger.Debug("workspace-remove-skipped", "workspace", index)
	}
	e.bindWorkspaceSignals()
	if index < e.display.WorkspaceCount() {
		e.reload("workspace-removed")
	}
}

// holdWorkspaceModes remembers the modes of windows on workspace index before
// its nodes are freed. The compositor migrates those windows afterwards.
func (e *Engine) holdWorkspaceModes(index int) {
	for _, n := range e.tree.Windows() {
		w, ok := n.Window()
		if !ok {
			continue
		}
		key, _ := e.tree.ParentKey(n)
		if _, ws, ok := tree.ParseMonitorKey(key); !ok || ws != index {
			continue
		}
		if e.heldModes == nil {
			e.heldModes = make(map[compositor.Window]tree.Mode)
		}
		e.heldModes[w] = n.Mode
	}
}

func (e *Engine) workspaceSwitched() {
	e.registry.HideBorders()
	if e.cancelBorder != nil {
		e.cancelBorder()
	}
	gen := e.generation
	e.cancelBorder = e.loop.TimeoutAdd(e.switchDelay, func() {
		if !e.enabled || gen != e.generation {
			return
		}
		e.cancelBorder = nil
		e.showBorder()
	})
	e.logger.Debug("workspace-switched")
}

// reload queues a full rebuild at idle priority.
func (e *Engine) reload(reason string) {
	gen := e.generation
	e.loop.IdleAdd(func() {
		if !e.enabled || gen != e.generation {
			e.logger.Debug("reload skipped", "from", reason)
			return
		}
		e.rebuild(reason)
	})
}

// rebuild discards the tree and reconstructs it from live compositor state.
func (e *Engine) rebuild(reason string) {
	e.logger.Debug("reload-tree", "from", reason,
		"tree-workspaces", len(e.tree.Workspaces()), "workspaces", e.display.WorkspaceCount())

	modes := make(map[compositor.Window]tree.Mode, len(e.heldModes))
	for w, mode := range e.heldModes {
		modes[w] = mode
	}
	e.heldModes = nil
	for _, n := range e.tree.Windows() {
		if w, ok := n.Window(); ok {
			modes[w] = n.Mode
		}
	}

	e.tree.Clear()
	e.tree.InitWorkspaces(e.display.WorkspaceCount(), e.display.MonitorCount())
	e.bindWorkspaceSignals()

	live := e.display.Windows()
	e.registry.Retain(live)
	e.carriedModes = modes
	e.trackCurrentWindows()
	e.carriedModes = nil

	for _, n := range e.tree.Windows() {
		if w, ok := n.Window(); ok {
			e.place(w)
		}
	}

	e.metrics.Reload(reason)
	e.metrics.SetTracked(len(e.tree.Windows()))
	e.showBorder()
	e.dispatcher.Broadcast(Event{Type: EventReloaded, Payload: reason})
	e.scheduler.Schedule("reload-tree")
}
