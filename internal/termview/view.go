// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termview/view.go
// Summary: Interactive terminal front-end for the simulated compositor.
// Usage: `tilewm sim` creates a View and runs it until the user quits.
//
// All drawing and all compositor mutation happen on the main loop
// goroutine. Terminal events are polled on a separate goroutine and handed
// to the loop with Invoke; redraws are queued at idle priority so a burst of
// notifications produces a single repaint after the engine has settled.

package termview

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/internal/logging"
	"github.com/framegrace/tilewm/mainloop"
	"github.com/framegrace/tilewm/tree"
	"github.com/framegrace/tilewm/wm"
)

const dragStep = 40

var defaultClasses = []string{"xterm", "firefox", "editor", "gnome-calculator", "files"}

// Options configures a View.
type Options struct {
	// Presets are named MoveResize actions; the keys h, l, c and t look up
	// left-half, right-half, center-half and tile.
	Presets map[string]wm.Action
	// Classes cycled through when opening windows.
	Classes []string
	Logger  *log.Logger
}

// View draws the simulated desktop and turns key presses into compositor
// activity.
type View struct {
	driver ScreenDriver
	comp   *sim.Compositor
	engine *wm.Engine
	loop   *mainloop.Loop
	logger *log.Logger

	presets   map[string]wm.Action
	classes   []string
	nextClass int

	status       string
	redrawQueued bool
	quit         func()
}

// New creates a view. The driver must already be initialized.
func New(driver ScreenDriver, comp *sim.Compositor, engine *wm.Engine, loop *mainloop.Loop, opts Options) *View {
	v := &View{
		driver:  driver,
		comp:    comp,
		engine:  engine,
		loop:    loop,
		logger:  opts.Logger,
		presets: opts.Presets,
		classes: opts.Classes,
	}
	if v.logger == nil {
		v.logger = logging.Discard()
	}
	if len(v.classes) == 0 {
		v.classes = defaultClasses
	}
	if v.presets == nil {
		v.presets = make(map[string]wm.Action)
	}
	return v
}

// OnEvent implements wm.Listener.
func (v *View) OnEvent(ev wm.Event) {
	if ev.Type == wm.EventReloaded {
		v.status = "reloaded"
	}
	v.requestRedraw()
}

func (v *View) requestRedraw() {
	if v.redrawQueued {
		return
	}
	v.redrawQueued = true
	v.loop.IdleAdd(func() {
		v.redrawQueued = false
		v.Draw()
	})
}

// Run processes terminal input and redraws until ctx is done or the user
// quits. It drives the loop itself.
func (v *View) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.quit = cancel

	v.engine.Dispatcher().Subscribe(v)
	defer v.engine.Dispatcher().Unsubscribe(v)

	go func() {
		for {
			ev := v.driver.PollEvent()
			if ev == nil {
				return
			}
			v.loop.Invoke(func() { v.HandleEvent(ev) })
		}
	}()

	v.loop.Invoke(v.requestRedraw)
	err := v.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleEvent applies one terminal event. It must run on the loop.
func (v *View) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.driver.Sync()
	case *tcell.EventKey:
		v.handleKey(ev)
	default:
		return
	}
	v.requestRedraw()
}

func (v *View) handleKey(ev *tcell.EventKey) {
	focused := v.comp.Focused()
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		v.stop()
		return
	case tcell.KeyTab:
		v.focusNext()
		return
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		if focused != nil && focused.Grabbed() {
			dx, dy := arrowDelta(ev.Key())
			v.comp.Drag(focused, dx, dy)
		}
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	if r >= '1' && r <= '9' {
		v.comp.SwitchWorkspace(int(r - '1'))
		return
	}

	switch r {
	case 'q':
		v.stop()
	case 'n':
		v.openWindow()
	case 'x':
		if focused != nil {
			v.comp.CloseWindow(focused)
			v.focusNext()
		}
	case 'm':
		if focused != nil {
			if ws, ok := focused.Workspace(); ok {
				v.comp.MoveToWorkspace(focused, (ws+1)%v.comp.WorkspaceCount())
			}
		}
	case 'o':
		if focused != nil && v.comp.MonitorCount() > 1 {
			v.comp.MoveToMonitor(focused, (focused.Monitor()+1)%v.comp.MonitorCount())
		}
	case 'f':
		v.command("center-half", wm.Action{Name: wm.ActionMoveResize, Mode: "float",
			X: "center", Y: "center", Width: 0.5, Height: 0.5})
	case 'h':
		v.command("left-half", wm.Action{})
	case 'l':
		v.command("right-half", wm.Action{})
	case 't':
		v.command("tile", wm.Action{Name: wm.ActionMoveResize})
	case 'z':
		if focused != nil {
			if focused.Maximized() == compositor.MaximizeNone {
				v.comp.Maximize(focused, compositor.MaximizeBoth)
			} else {
				focused.Unmaximize(compositor.MaximizeBoth)
			}
		}
	case 'i':
		if focused != nil {
			v.comp.Minimize(focused)
		}
	case 'u':
		for _, w := range v.comp.AllWindows() {
			if w.Minimized() {
				v.comp.Unminimize(w)
			}
		}
	case 'g':
		if focused != nil {
			if focused.Grabbed() {
				v.comp.EndGrab(focused, compositor.GrabOpMoving)
			} else {
				v.comp.BeginGrab(focused, compositor.GrabOpMoving)
			}
		}
	case 'r':
		v.engine.Disable()
		v.engine.Enable()
	case 'd':
		v.comp.ShowDesktop()
	case 'a':
		v.status = fmt.Sprintf("workspace %d added", v.comp.AddWorkspace()+1)
	case 'D':
		if v.comp.WorkspaceCount() > 1 {
			v.comp.RemoveWorkspace(v.comp.ActiveWorkspace())
		}
	}
}

func arrowDelta(k tcell.Key) (int, int) {
	switch k {
	case tcell.KeyUp:
		return 0, -dragStep
	case tcell.KeyDown:
		return 0, dragStep
	case tcell.KeyLeft:
		return -dragStep, 0
	default:
		return dragStep, 0
	}
}

func (v *View) stop() {
	if v.quit != nil {
		v.quit()
	}
}

func (v *View) openWindow() {
	class := v.classes[v.nextClass%len(v.classes)]
	v.nextClass++
	monitor := 0
	if f := v.comp.Focused(); f != nil {
		monitor = f.Monitor()
	}
	w := v.comp.OpenWindow(sim.WindowOptions{
		Class:     class,
		Title:     class,
		Workspace: v.comp.ActiveWorkspace(),
		Monitor:   monitor,
	})
	v.comp.Focus(w)
	v.status = "opened " + class
}

// focusNext cycles focus through the windows shown on the active workspace
// in opening order.
func (v *View) focusNext() {
	active := v.comp.ActiveWorkspace()
	var windows []*sim.Window
	for _, w := range v.comp.AllWindows() {
		if w.Closed() || w.Minimized() {
			continue
		}
		if ws, ok := w.Workspace(); ok && ws != active {
			continue
		}
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		v.comp.Focus(nil)
		return
	}
	next := 0
	if f := v.comp.Focused(); f != nil {
		for i, w := range windows {
			if w == f {
				next = (i + 1) % len(windows)
				break
			}
		}
	}
	v.comp.Focus(windows[next])
}

// command runs the named preset, or fallback when no preset of that name
// exists and fallback has a name.
func (v *View) command(preset string, fallback wm.Action) {
	act, ok := v.presets[preset]
	if !ok {
		if fallback.Name == "" {
			v.status = "no preset " + preset
			return
		}
		act = fallback
	}
	if err := v.engine.Command(act); err != nil {
		v.status = err.Error()
		v.logger.Warn("command failed", "preset", preset, "err", err)
		return
	}
	if f := v.comp.Focused(); f != nil {
		if mode, err := v.engine.WindowMode(f); err == nil && mode != tree.ModeNone {
			v.status = fmt.Sprintf("%s: %s", preset, mode)
		}
	}
}
