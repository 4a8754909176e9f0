// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/steps.go
// Summary: Step handlers translating scenario actions into compositor activity.

package scenario

import (
	"fmt"
	"strings"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/wm"
)

type handler func(r *Runner, args interface{}) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"open":             stepOpen,
		"close":            onWindow((*sim.Compositor).CloseWindow),
		"focus":            stepFocus,
		"minimize":         onWindow((*sim.Compositor).Minimize),
		"unminimize":       onWindow((*sim.Compositor).Unminimize),
		"maximize":         stepMaximize,
		"unmaximize":       stepUnmaximize,
		"move_workspace":   stepMoveWorkspace,
		"move_monitor":     stepMoveMonitor,
		"grab_begin":       stepGrab(true),
		"grab_end":         stepGrab(false),
		"drag":             stepDrag,
		"add_workspace":    stepAddWorkspace,
		"remove_workspace": stepRemoveWorkspace,
		"switch_workspace": stepSwitchWorkspace,
		"set_workarea":     stepSetWorkArea,
		"add_monitor":      stepAddMonitor,
		"show_desktop":     stepShowDesktop,
		"command":          stepCommand,
		"reload":           stepReload,
		"expect":           stepExpect,
	}
}

// windowArgs names a window, optionally with extra parameters.
type windowArgs struct {
	Window    string `mapstructure:"window"`
	Workspace int    `mapstructure:"workspace"`
	Monitor   int    `mapstructure:"monitor"`
	Axes      string `mapstructure:"axes"`
	Op        string `mapstructure:"op"`
	DX        int    `mapstructure:"dx"`
	DY        int    `mapstructure:"dy"`
}

func (r *Runner) windowArgs(args interface{}) (windowArgs, *sim.Window, error) {
	var wa windowArgs
	if name, ok := args.(string); ok {
		wa.Window = name
	} else if err := decode(args, &wa); err != nil {
		return wa, nil, err
	}
	w, err := r.Window(wa.Window)
	return wa, w, err
}

func onWindow(fn func(*sim.Compositor, *sim.Window)) handler {
	return func(r *Runner, args interface{}) error {
		_, w, err := r.windowArgs(args)
		if err != nil {
			return err
		}
		fn(r.Compositor, w)
		return nil
	}
}

type openArgs struct {
	Name      string           `mapstructure:"name"`
	Class     string           `mapstructure:"class"`
	Title     string           `mapstructure:"title"`
	Type      string           `mapstructure:"type"`
	Workspace int              `mapstructure:"workspace"`
	Monitor   int              `mapstructure:"monitor"`
	Sticky    bool             `mapstructure:"sticky"`
	NoActor   bool             `mapstructure:"no_actor"`
	Rect      *compositor.Rect `mapstructure:"rect"`
}

func stepOpen(r *Runner, args interface{}) error {
	var oa openArgs
	if name, ok := args.(string); ok {
		oa.Name = name
	} else if err := decode(args, &oa); err != nil {
		return err
	}
	if oa.Name == "" {
		oa.Name = oa.Class
	}
	if oa.Name == "" {
		return fmt.Errorf("open needs a name or class")
	}
	if _, exists := r.windows[oa.Name]; exists {
		return fmt.Errorf("window %q already open", oa.Name)
	}
	if oa.Class == "" {
		oa.Class = oa.Name
	}
	typ := compositor.WindowNormal
	if oa.Type != "" {
		t, err := compositor.ParseWindowType(oa.Type)
		if err != nil {
			return err
		}
		typ = t
	}
	w := r.Compositor.OpenWindow(sim.WindowOptions{
		Class:     oa.Class,
		Title:     oa.Title,
		Type:      typ,
		Workspace: oa.Workspace,
		Monitor:   oa.Monitor,
		Sticky:    oa.Sticky,
		Rect:      oa.Rect,
		NoActor:   oa.NoActor,
	})
	r.windows[oa.Name] = w
	r.names[w] = oa.Name
	return nil
}

func stepFocus(r *Runner, args interface{}) error {
	if s, ok := args.(string); ok && (s == "" || s == "none") {
		r.Compositor.Focus(nil)
		return nil
	}
	if args == nil {
		r.Compositor.Focus(nil)
		return nil
	}
	_, w, err := r.windowArgs(args)
	if err != nil {
		return err
	}
	r.Compositor.Focus(w)
	return nil
}

func parseAxes(s string) (compositor.MaximizeFlags, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return compositor.MaximizeBoth, nil
	case "horizontal", "h":
		return compositor.MaximizeHorizontal, nil
	case "vertical", "v":
		return compositor.MaximizeVertical, nil
	default:
		return compositor.MaximizeNone, fmt.Errorf("unknown axes %q", s)
	}
}

func stepMaximize(r *Runner, args interface{}) error {
	wa, w, err := r.windowArgs(args)
	if err != nil {
		return err
	}
	flags, err := parseAxes(wa.Axes)
	if err != nil {
		return err
	}
	r.Compositor.Maximize(w, flags)
	return nil
}

func stepUnmaximize(r *Runner, args interface{}) error {
	wa, w, err := r.windowArgs(args)
	if err != nil {
		return err
	}
	flags, err := parseAxes(wa.Axes)
	if err != nil {
		return err
	}
	w.Unmaximize(flags)
	return nil
}

func stepMoveWorkspace(r *Runner, args interface{}) error {
	wa, w, err := r.windowArgs(args)
	if err != nil {
		return err
	}
	if wa.Workspace < 0 || wa.Workspace >= r.Compositor.WorkspaceCount() {
		return fmt.Errorf("workspace %d out of range", wa.Workspace)
	}
	r.Compositor.MoveToWorkspace(w, wa.Workspace)
	return nil
}

func stepMoveMonitor(r *Runner, args interface{}) error {
	wa, w, err := r.windowArgs(args)
	if err != nil {
		return err
	}
	if wa.Monitor < 0 || wa.Monitor >= r.Compositor.MonitorCount() {
		return fmt.Errorf("monitor %d out of range", wa.Monitor)
	}
	r.Compositor.MoveToMonitor(w, wa.Monitor)
	return nil
}

func parseGrabOp(s string) (compositor.GrabOp, error) {
	switch strings.ToLower(s) {
	case "", "moving", "move":
		return compositor.GrabOpMoving, nil
	case "keyboard-moving":
		return compositor.GrabOpKeyboardMoving, nil
	case "keyboard-resizing":
		return compositor.GrabOpKeyboardResizing, nil
	case "resizing", "resize", "resizing-se":
		return compositor.GrabOpResizingSE, nil
	default:
		return compositor.GrabOpNone, fmt.Errorf("unknown grab op %q", s)
	}
}

func stepGrab(begin bool) handler {
	return func(r *Runner, args interface{}) error {
		wa, w, err := r.windowArgs(args)
		if err != nil {
			return err
		}
		op, err := parseGrabOp(wa.Op)
		if err != nil {
			return err
		}
		if begin {
			r.Compositor.BeginGrab(w, op)
		} else {
			r.Compositor.EndGrab(w, op)
		}
		return nil
	}
}

func stepDrag(r *Runner, args interface{}) error {
	wa, w, err := r.windowArgs(args)
	if err != nil {
		return err
	}
	r.Compositor.Drag(w, wa.DX, wa.DY)
	return nil
}

func stepAddWorkspace(r *Runner, _ interface{}) error {
	r.Compositor.AddWorkspace()
	return nil
}

type indexArgs struct {
	Index int `mapstructure:"index"`
}

func (r *Runner) index(args interface{}) (int, error) {
	var ia indexArgs
	switch v := args.(type) {
	case int:
		return v, nil
	case map[string]interface{}:
		if err := decode(v, &ia); err != nil {
			return 0, err
		}
		return ia.Index, nil
	default:
		return 0, fmt.Errorf("expected an index, got %T", args)
	}
}

func stepRemoveWorkspace(r *Runner, args interface{}) error {
	i, err := r.index(args)
	if err != nil {
		return err
	}
	if r.Compositor.WorkspaceCount() < 2 || i < 0 || i >= r.Compositor.WorkspaceCount() {
		return fmt.Errorf("cannot remove workspace %d", i)
	}
	r.Compositor.RemoveWorkspace(i)
	return nil
}

func stepSwitchWorkspace(r *Runner, args interface{}) error {
	i, err := r.index(args)
	if err != nil {
		return err
	}
	if i < 0 || i >= r.Compositor.WorkspaceCount() {
		return fmt.Errorf("workspace %d out of range", i)
	}
	r.Compositor.SwitchWorkspace(i)
	return nil
}

type areaArgs struct {
	Monitor int `mapstructure:"monitor"`
	X       int `mapstructure:"x"`
	Y       int `mapstructure:"y"`
	Width   int `mapstructure:"width"`
	Height  int `mapstructure:"height"`
}

func (a areaArgs) rect() compositor.Rect {
	return compositor.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

func stepSetWorkArea(r *Runner, args interface{}) error {
	var aa areaArgs
	if err := decode(args, &aa); err != nil {
		return err
	}
	if aa.Monitor < 0 || aa.Monitor >= r.Compositor.MonitorCount() {
		return fmt.Errorf("monitor %d out of range", aa.Monitor)
	}
	r.Compositor.SetWorkArea(aa.Monitor, aa.rect())
	return nil
}

func stepAddMonitor(r *Runner, args interface{}) error {
	var aa areaArgs
	if err := decode(args, &aa); err != nil {
		return err
	}
	r.Compositor.AddMonitor(aa.rect())
	return nil
}

func stepShowDesktop(r *Runner, _ interface{}) error {
	r.Compositor.ShowDesktop()
	return nil
}

// stepCommand runs a MoveResize action. A string payload names a preset.
func stepCommand(r *Runner, args interface{}) error {
	var (
		act wm.Action
		err error
	)
	switch v := args.(type) {
	case string:
		preset, ok := r.presets[v]
		if !ok {
			return fmt.Errorf("unknown preset %q", v)
		}
		act = preset
	case map[string]interface{}:
		if act, err = wm.DecodeAction(v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("command expects a preset name or an action, got %T", args)
	}
	return r.Engine.Command(act)
}

func stepReload(r *Runner, _ interface{}) error {
	r.Engine.Disable()
	r.Engine.Enable()
	return nil
}
