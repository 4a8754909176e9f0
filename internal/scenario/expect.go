// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/expect.go
// Summary: Assertions on the settled tree, frames and focus border.

package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/tree"
)

// Expectation lists checks against the current state. Windows are referred
// to by their scenario names. Empty fields are not checked.
type Expectation struct {
	// Placements maps a window to its parent monitor key, e.g. "mo0ws1".
	Placements map[string]string          `mapstructure:"placements"`
	Modes      map[string]string          `mapstructure:"modes"`
	Frames     map[string]compositor.Rect `mapstructure:"frames"`
	Untracked  []string                   `mapstructure:"untracked"`
	Tracked    *int                       `mapstructure:"tracked"`

	// Border names the window whose border is visible, or "none".
	Border string `mapstructure:"border"`
	Frozen *bool  `mapstructure:"frozen"`
}

func stepExpect(r *Runner, args interface{}) error {
	var ex Expectation
	if err := decode(args, &ex); err != nil {
		return err
	}
	var problems []string
	fail := func(format string, a ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, a...))
	}
	t := r.Engine.Tree()

	for _, name := range sortedKeys(ex.Placements) {
		w, err := r.Window(name)
		if err != nil {
			return err
		}
		n := t.FindNode(w)
		if n == nil {
			fail("%s not tracked", name)
			continue
		}
		key, _ := t.ParentKey(n)
		if string(key) != ex.Placements[name] {
			fail("%s under %s, want %s", name, key, ex.Placements[name])
		}
	}
	for _, name := range sortedKeys(ex.Modes) {
		w, err := r.Window(name)
		if err != nil {
			return err
		}
		want, err := tree.ParseMode(ex.Modes[name])
		if err != nil {
			return err
		}
		got, err := r.Engine.WindowMode(w)
		if err != nil {
			fail("%s: %v", name, err)
			continue
		}
		if got != want {
			fail("%s mode %s, want %s", name, got, want)
		}
	}
	for _, name := range sortedKeys(ex.Frames) {
		w, err := r.Window(name)
		if err != nil {
			return err
		}
		if got := w.FrameRect(); got != ex.Frames[name] {
			fail("%s frame %+v, want %+v", name, got, ex.Frames[name])
		}
	}
	for _, name := range ex.Untracked {
		w, err := r.Window(name)
		if err != nil {
			return err
		}
		if t.FindNode(w) != nil {
			fail("%s should not be tracked", name)
		}
	}
	if ex.Tracked != nil {
		if got := len(t.Windows()); got != *ex.Tracked {
			fail("tracked %d windows, want %d", got, *ex.Tracked)
		}
	}
	if ex.Border != "" {
		if err := r.checkBorder(ex.Border, fail); err != nil {
			return err
		}
	}
	if ex.Frozen != nil && r.Engine.Scheduler().Frozen() != *ex.Frozen {
		fail("frozen = %v, want %v", r.Engine.Scheduler().Frozen(), *ex.Frozen)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(problems, "; "))
	}
	return nil
}

func (r *Runner) checkBorder(want string, fail func(string, ...interface{})) error {
	var visible []string
	for _, b := range r.Compositor.Borders() {
		if b.Visible() {
			visible = append(visible, r.borderOwner(b))
		}
	}
	if want == "none" {
		if len(visible) > 0 {
			fail("borders visible on %v", visible)
		}
		return nil
	}
	if _, err := r.Window(want); err != nil {
		return err
	}
	if len(visible) != 1 || visible[0] != want {
		fail("visible borders %v, want [%s]", visible, want)
	}
	return nil
}

func (r *Runner) borderOwner(b *sim.Border) string {
	if name := r.Name(b.Owner()); name != "" {
		return name
	}
	return "?"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
