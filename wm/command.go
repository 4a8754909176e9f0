// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/command.go
// Summary: Command dispatcher for user-initiated actions on the focused window.

package wm

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/layout"
	"github.com/framegrace/tilewm/tree"
)

// ActionMoveResize moves and resizes the focused window.
const ActionMoveResize = "MoveResize"

// Action is a user command. X, Y, Width and Height accept the values
// documented on layout.Placement; nil keeps the current frame value.
type Action struct {
	Name   string `mapstructure:"name" yaml:"name" json:"name"`
	Mode   string `mapstructure:"mode" yaml:"mode,omitempty" json:"mode,omitempty"`
	X      any    `mapstructure:"x" yaml:"x,omitempty" json:"x,omitempty"`
	Y      any    `mapstructure:"y" yaml:"y,omitempty" json:"y,omitempty"`
	Width  any    `mapstructure:"width" yaml:"width,omitempty" json:"width,omitempty"`
	Height any    `mapstructure:"height" yaml:"height,omitempty" json:"height,omitempty"`
}

// Placement returns the geometry parameters of the action.
func (a Action) Placement() layout.Placement {
	return layout.Placement{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

// DecodeAction builds an Action from a loose parameter map such as a config
// preset or a scenario step.
func DecodeAction(raw map[string]interface{}) (Action, error) {
	var a Action
	if err := mapstructure.Decode(raw, &a); err != nil {
		return Action{}, fmt.Errorf("decode action: %w", err)
	}
	if a.Name == "" {
		return Action{}, fmt.Errorf("decode action: missing name")
	}
	return a, nil
}

// Command applies a to the focused window. Unknown action names are
// ignored. Errors only come from unresolvable geometry parameters.
func (e *Engine) Command(a Action) error {
	if !e.enabled {
		return nil
	}
	focus := e.display.FocusWindow()
	if focus == nil {
		e.logger.Debug("command ignored, nothing focused", "action", a.Name)
		return nil
	}

	switch a.Name {
	case ActionMoveResize:
		e.applyWindowMode(a, focus)
		rect, err := layout.Resolve(a.Placement(), focus)
		if err != nil {
			return fmt.Errorf("move-resize: %w", err)
		}
		layout.Move(focus, rect)
		e.scheduler.Schedule("move-resize")
	default:
		e.logger.Debug("unknown command", "action", a.Name)
	}
	return nil
}

// applyWindowMode toggles FLOAT when the action asks for float and forces
// TILE otherwise.
func (e *Engine) applyWindowMode(a Action, w compositor.Window) {
	n := e.tree.FindNode(w)
	if n == nil || n.Type != tree.NodeWindow {
		return
	}
	requested, err := tree.ParseMode(a.Mode)
	if err != nil {
		e.logger.Debug("unknown window mode", "mode", a.Mode)
	}
	if requested == tree.ModeFloat {
		if n.Mode == tree.ModeFloat {
			n.Mode = tree.ModeTile
		} else {
			n.Mode = tree.ModeFloat
		}
		return
	}
	n.Mode = tree.ModeTile
}
