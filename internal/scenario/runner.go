// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/runner.go
// Summary: Replays a scenario against the simulated compositor and an engine.

package scenario

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/internal/logging"
	"github.com/framegrace/tilewm/layout"
	"github.com/framegrace/tilewm/mainloop"
	"github.com/framegrace/tilewm/tree"
	"github.com/framegrace/tilewm/wm"
)

// Runner owns the simulated compositor, the loop and the engine for one
// replay. The loop is drained after every step so each step observes a
// settled tree.
type Runner struct {
	Compositor *sim.Compositor
	Loop       *mainloop.Loop
	Engine     *wm.Engine
	Tiler      *layout.Tiler

	sc      *Scenario
	logger  *log.Logger
	windows map[string]*sim.Window
	names   map[*sim.Window]string
	presets map[string]wm.Action
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Step   int    `json:"step" yaml:"step"`
	Action string `json:"action" yaml:"action"`
	OK     bool   `json:"ok" yaml:"ok"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report summarizes a replay.
type Report struct {
	Name    string       `json:"name" yaml:"name"`
	Steps   []StepResult `json:"steps" yaml:"steps"`
	Renders int          `json:"renders" yaml:"renders"`
	Tree    tree.Capture `json:"tree" yaml:"tree"`
}

// OK reports whether every step passed.
func (r Report) OK() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// NewRunner builds the simulated desktop described by sc. Options from the
// scenario (track types, float classes) override opts; the border switch
// delay is forced to zero so replays never wait on timers.
func NewRunner(sc *Scenario, opts wm.Options) (*Runner, error) {
	if len(sc.TrackTypes) > 0 {
		opts.TrackTypes = nil
		for _, name := range sc.TrackTypes {
			t, err := compositor.ParseWindowType(name)
			if err != nil {
				return nil, err
			}
			opts.TrackTypes = append(opts.TrackTypes, t)
		}
	}
	if len(sc.FloatClasses) > 0 {
		opts.FloatClasses = sc.FloatClasses
	}
	opts.SwitchBorderDelay = 0
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	r := &Runner{
		Compositor: sim.New(sc.Monitors, sc.Workspaces),
		Loop:       mainloop.New(),
		Tiler:      layout.NewTiler(sc.Gap),
		sc:         sc,
		logger:     opts.Logger,
		windows:    make(map[string]*sim.Window),
		names:      make(map[*sim.Window]string),
		presets:    make(map[string]wm.Action),
	}
	for name, raw := range sc.Presets {
		act, err := wm.DecodeAction(raw)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		r.presets[name] = act
	}
	r.Engine = wm.New(r.Compositor, r.Loop, r.Tiler, opts)
	return r, nil
}

// AddPresets registers named actions usable by command steps. Presets from
// the scenario file take precedence.
func (r *Runner) AddPresets(presets map[string]wm.Action) {
	for name, act := range presets {
		if _, ok := r.presets[name]; !ok {
			r.presets[name] = act
		}
	}
}

// Window resolves a window opened by an earlier step.
func (r *Runner) Window(name string) (*sim.Window, error) {
	w, ok := r.windows[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownWindow, name)
	}
	return w, nil
}

// Name returns the scenario name of w.
func (r *Runner) Name(w *sim.Window) string { return r.names[w] }

// Run enables the engine and executes every step. It stops at the first
// failing step unless keepGoing is set. The returned error is the first
// failure.
func (r *Runner) Run(ctx context.Context, keepGoing bool) (Report, error) {
	report := Report{Name: r.sc.Name}
	r.Engine.Enable()
	r.Loop.Drain()
	defer r.Engine.Disable()

	var first error
	for i, step := range r.sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := StepResult{Step: i + 1, Action: step.Action, OK: true}
		if err := r.Step(step); err != nil {
			res.OK = false
			res.Error = err.Error()
			if first == nil {
				first = fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
			}
			r.logger.Warn("step failed", "step", i+1, "action", step.Action, "err", err)
		} else {
			r.logger.Debug("step", "step", i+1, "action", step.Action)
		}
		report.Steps = append(report.Steps, res)
		if !res.OK && !keepGoing {
			break
		}
	}
	report.Renders = r.Engine.Renders()
	report.Tree = r.Engine.Capture()
	return report, first
}

// Step executes one step and drains the loop.
func (r *Runner) Step(step Step) error {
	h, ok := handlers[step.Action]
	if !ok {
		return fmt.Errorf("unknown action %q", step.Action)
	}
	err := h(r, step.Args)
	r.Loop.Drain()
	return err
}
