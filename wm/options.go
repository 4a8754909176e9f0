// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/options.go
// Summary: Engine options and their derivation from the system config.

package wm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/config"
	"github.com/framegrace/tilewm/internal/metrics"
	"github.com/framegrace/tilewm/tree"
)

// DefaultSwitchBorderDelay is how long the focus border stays hidden after a
// workspace switch.
const DefaultSwitchBorderDelay = 350 * time.Millisecond

// ModeMemory remembers window modes across sessions.
type ModeMemory interface {
	// Recall returns the last mode recorded for a window with the given
	// stable sequence and class.
	Recall(seq uint32, class string) (tree.Mode, bool)
	// Save records the current tree.
	Save(c tree.Capture) error
}

// Options configures an Engine. The zero value tracks normal windows, uses
// the default border style and shows the border immediately after a
// workspace switch.
type Options struct {
	TrackTypes        []compositor.WindowType
	FloatClasses      []string
	BorderStyle       string
	SwitchBorderDelay time.Duration

	Logger  *log.Logger
	Metrics *metrics.Metrics
	Memory  ModeMemory
}

// DefaultOptions returns the options used when no config is present.
func DefaultOptions() Options {
	return Options{
		TrackTypes:        []compositor.WindowType{compositor.WindowNormal},
		BorderStyle:       DefaultBorderStyle,
		SwitchBorderDelay: DefaultSwitchBorderDelay,
	}
}

// OptionsFromConfig reads the windows and border sections of cfg. Unknown
// window type names are reported through the returned slice and skipped.
func OptionsFromConfig(cfg config.Config) (Options, []string) {
	opts := DefaultOptions()
	var unknown []string

	if names := cfg.GetStringSlice("windows", "track_types", nil); len(names) > 0 {
		opts.TrackTypes = opts.TrackTypes[:0]
		for _, name := range names {
			typ, err := compositor.ParseWindowType(strings.TrimSpace(name))
			if err != nil {
				unknown = append(unknown, name)
				continue
			}
			opts.TrackTypes = append(opts.TrackTypes, typ)
		}
	}
	for _, class := range cfg.GetStringSlice("windows", "float_classes", nil) {
		if class = strings.TrimSpace(class); class != "" {
			opts.FloatClasses = append(opts.FloatClasses, class)
		}
	}
	opts.BorderStyle = cfg.GetString("border", "style_class", DefaultBorderStyle)
	delay := cfg.GetInt("border", "switch_delay_ms", int(DefaultSwitchBorderDelay/time.Millisecond))
	if delay < 0 {
		delay = 0
	}
	opts.SwitchBorderDelay = time.Duration(delay) * time.Millisecond
	return opts, unknown
}

// PresetsFromConfig decodes the named actions of the commands section.
// Entries that do not decode are skipped and reported in the joined error.
func PresetsFromConfig(cfg config.Config) (map[string]Action, error) {
	presets := make(map[string]Action)
	section := cfg.Section("commands")
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		raw := cfg.GetMap("commands", name)
		if raw == nil {
			errs = append(errs, fmt.Errorf("preset %q: not an object", name))
			continue
		}
		act, err := DecodeAction(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
			continue
		}
		presets[name] = act
	}
	return presets, errors.Join(errs...)
}
