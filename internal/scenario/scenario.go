// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/scenario.go
// Summary: YAML scenario files describing compositor activity and expected trees.
// Usage: Loaded by `tilewm replay` and by package tests.
//
// A scenario lists monitors, a workspace count and a sequence of steps.
// Every step is a single-key map, the key naming the action:
//
//	monitors:
//	  - {x: 0, y: 0, width: 1000, height: 800}
//	workspaces: 2
//	steps:
//	  - open: {name: term, class: xterm}
//	  - focus: term
//	  - command: {name: MoveResize, mode: float, x: center, width: 0.5}
//	  - expect: {modes: {term: FLOAT}}

package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/framegrace/tilewm/compositor"
)

var (
	// ErrExpectation marks a failed expect step.
	ErrExpectation = errors.New("expectation failed")
	// ErrUnknownWindow is returned when a step names a window never opened.
	ErrUnknownWindow = errors.New("unknown window")
)

// Scenario is a decoded scenario file.
type Scenario struct {
	Name         string                            `yaml:"name"`
	Monitors     []compositor.Rect                 `yaml:"monitors"`
	Workspaces   int                               `yaml:"workspaces"`
	Gap          int                               `yaml:"gap"`
	TrackTypes   []string                          `yaml:"track_types"`
	FloatClasses []string                          `yaml:"float_classes"`
	Presets      map[string]map[string]interface{} `yaml:"presets"`
	Steps        []Step                            `yaml:"steps"`
}

// Step is one action. Args holds the raw payload, decoded per action.
type Step struct {
	Action string
	Args   interface{}
}

// UnmarshalYAML accepts a single-key mapping, or a bare action name for
// steps without arguments.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Action = node.Value
		return nil
	}
	var raw map[string]interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("line %d: expected exactly one action key, got %v", node.Line, keys)
	}
	for k, v := range raw {
		s.Action, s.Args = k, v
	}
	return nil
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	if sc.Workspaces < 1 {
		sc.Workspaces = 1
	}
	for i, step := range sc.Steps {
		if _, ok := handlers[step.Action]; !ok {
			return nil, fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
	}
	return &sc, nil
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// decode copies a step payload into target. Scalars and strings are
// converted where the meaning is unambiguous.
func decode(args interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}
