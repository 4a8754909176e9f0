// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/engine.go
// Summary: Engine ties the node tree, registry, render scheduler and focus indicator to a compositor.
// Usage: Create with New, call Enable on the loop goroutine, drive the loop, call Disable to unwind.

// Package wm is the synchronization core. It listens to compositor
// notifications, keeps the node tree in step with where windows really are,
// and schedules layout passes and focus border updates.
package wm

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/internal/logging"
	"github.com/framegrace/tilewm/internal/metrics"
	"github.com/framegrace/tilewm/mainloop"
	"github.com/framegrace/tilewm/tree"
)

// ErrNotTracked is returned by queries about windows that have no node.
var ErrNotTracked = errors.New("wm: window not tracked")

// Engine is not safe for concurrent use. Every method must run on the
// goroutine driving its mainloop.Loop; compositor sinks only enqueue work.
type Engine struct {
	display  compositor.Display
	loop     *mainloop.Loop
	renderer tree.Renderer

	tree       *tree.Tree
	signals    *signalTable
	registry   *Registry
	scheduler  *RenderScheduler
	focus      *FocusIndicator
	dispatcher *EventDispatcher

	logger  *log.Logger
	metrics *metrics.Metrics
	memory  ModeMemory

	trackTypes   map[compositor.WindowType]bool
	floatClasses map[string]bool
	switchDelay  time.Duration

	enabled      bool
	signalsBound bool
	// generation invalidates idle reloads and timeouts queued before Disable.
	generation   uint64
	cancelBorder func()
	// carriedModes holds modes of the previous tree while a reload re-tracks.
	carriedModes map[compositor.Window]tree.Mode
	// heldModes holds modes of windows whose nodes were freed with a removed
	// workspace, until they are tracked again or the next rebuild.
	heldModes    map[compositor.Window]tree.Mode
	renders      int
}

// New creates a disabled engine. renderer may be nil, in which case layout
// passes only notify listeners.
func New(display compositor.Display, loop *mainloop.Loop, renderer tree.Renderer, opts Options) *Engine {
	e := &Engine{
		display:      display,
		loop:         loop,
		renderer:     renderer,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		memory:       opts.Memory,
		trackTypes:   make(map[compositor.WindowType]bool),
		floatClasses: make(map[string]bool),
		switchDelay:  opts.SwitchBorderDelay,
		dispatcher:   NewEventDispatcher(),
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if len(opts.TrackTypes) == 0 {
		opts.TrackTypes = []compositor.WindowType{compositor.WindowNormal}
	}
	for _, t := range opts.TrackTypes {
		e.trackTypes[t] = true
	}
	for _, class := range opts.FloatClasses {
		e.floatClasses[class] = true
	}
	if e.switchDelay < 0 {
		e.switchDelay = 0
	}

	e.tree = tree.New(tree.RendererFunc(e.renderPass))
	e.signals = newSignalTable(display)
	e.registry = newRegistry(display, e.signals, opts.BorderStyle)
	e.scheduler = newRenderScheduler(loop, e.runRender, e.logger, e.metrics)
	e.focus = &FocusIndicator{display: display, registry: e.registry}
	return e
}

// Enable binds the global subscriptions and queues a full reload. The
// render gate is reopened every time.
func (e *Engine) Enable() {
	e.enabled = true
	e.scheduler.Reset()
	e.bindSignals()
	e.reload("enable")
	e.logger.Debug("extension enabled")
}

// Disable unwinds every subscription and border. Reloads and timeouts queued
// earlier become no-ops. Calling it twice is harmless.
func (e *Engine) Disable() {
	e.removeSignals()
	e.enabled = false
	e.generation++
	e.heldModes = nil
	if e.cancelBorder != nil {
		e.cancelBorder()
		e.cancelBorder = nil
	}
	e.logger.Debug("extension disabled")
}

// Enabled reports whether the engine is processing notifications.
func (e *Engine) Enabled() bool { return e.enabled }

// Tree exposes the node tree for read-only inspection.
func (e *Engine) Tree() *tree.Tree { return e.tree }

// Capture returns a snapshot of the node tree.
func (e *Engine) Capture() tree.Capture { return e.tree.Capture() }

// Registry exposes the window registry for inspection.
func (e *Engine) Registry() *Registry { return e.registry }

// Scheduler exposes the render scheduler.
func (e *Engine) Scheduler() *RenderScheduler { return e.scheduler }

// Dispatcher returns the outbound event dispatcher.
func (e *Engine) Dispatcher() *EventDispatcher { return e.dispatcher }

// Renders returns the number of layout passes run so far.
func (e *Engine) Renders() int { return e.renders }

// SubscriptionCount returns the number of live compositor connections.
func (e *Engine) SubscriptionCount() int { return e.signals.len() }

// WindowMode returns the mode of w's node.
func (e *Engine) WindowMode(w compositor.Window) (tree.Mode, error) {
	n := e.tree.FindNode(w)
	if n == nil {
		return tree.ModeNone, ErrNotTracked
	}
	return n.Mode, nil
}

// bindSignals connects the display, window manager, workspace manager and
// per-workspace sources once per enable.
func (e *Engine) bindSignals() {
	if e.signalsBound {
		return
	}
	for _, sig := range []compositor.Signal{
		compositor.SignalWindowCreated,
		compositor.SignalWindowEnteredMonitor,
		compositor.SignalWindowLeftMonitor,
		compositor.SignalGrabOpBegin,
		compositor.SignalGrabOpEnd,
		compositor.SignalShowingDesktopChanged,
		compositor.SignalWorkareasChanged,
	} {
		e.signals.connect(compositor.SourceDisplay, sig, e.post)
	}
	for _, sig := range []compositor.Signal{
		compositor.SignalMinimize,
		compositor.SignalUnminimize,
		compositor.SignalShowTilePreview,
	} {
		e.signals.connect(compositor.SourceWindowManager, sig, e.post)
	}
	for _, sig := range []compositor.Signal{
		compositor.SignalShowingDesktopChanged,
		compositor.SignalWorkspaceAdded,
		compositor.SignalWorkspaceRemoved,
		compositor.SignalWorkspaceSwitched,
	} {
		e.signals.connect(compositor.SourceWorkspaceManager, sig, e.post)
	}
	e.bindWorkspaceSignals()
	e.signalsBound = true
}

// bindWorkspaceSignals subscribes window-added on every live workspace and
// drops subscriptions of workspaces that no longer exist.
func (e *Engine) bindWorkspaceSignals() {
	live := make(map[compositor.Source]bool)
	for i := 0; i < e.display.WorkspaceCount(); i++ {
		ws := e.display.Workspace(i)
		if ws == nil {
			continue
		}
		live[ws] = true
		if e.signals.connect(ws, compositor.SignalWindowAdded, e.post) {
			e.logger.Debug("workspace signals bound", "workspace", i)
		}
	}
	for _, src := range e.signals.sources() {
		if e.signals.has(src, compositor.SignalWindowAdded) && !live[src] {
			e.signals.disconnectSource(src)
		}
	}
}

func (e *Engine) removeSignals() {
	e.registry.ReleaseAll()
	e.signals.disconnectAll()
	e.signalsBound = false
}

// post is the sink handed to the compositor. It only enqueues.
func (e *Engine) post(ev compositor.Event) {
	e.loop.Invoke(func() { e.dispatch(ev) })
}

func (e *Engine) showBorder() {
	w := e.focus.Show()
	e.dispatcher.Broadcast(Event{Type: EventFocusShown, Payload: w})
}

func (e *Engine) runRender(reason string, requests int) {
	if !e.enabled {
		return
	}
	e.tree.Render(reason)
	e.dispatcher.Broadcast(Event{Type: EventTreeRendered, Payload: RenderPayload{Reason: reason, Requests: requests}})
}

// renderPass is the tree's renderer: it runs the layout collaborator and
// persists the resulting structure.
func (e *Engine) renderPass(t *tree.Tree, reason string) {
	start := time.Now()
	if e.renderer != nil {
		e.renderer.Render(t, reason)
	}
	e.renders++
	e.metrics.Render(reason, time.Since(start).Seconds())
	e.logger.Debug("render", "reason", reason)
	if e.memory != nil {
		if err := e.memory.Save(t.Capture()); err != nil {
			e.logger.Warn("saving window modes failed", "err", err)
		}
	}
}
