// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/layout_test.go
// Summary: Exercises frame placement, parameter resolution and the column tiler.
// Usage: Executed during `go test` to guard against regressions.

package layout

import (
	"errors"
	"testing"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/tree"
)

var screen = compositor.Rect{X: 0, Y: 0, Width: 1000, Height: 500}

func TestMoveUnmaximizesAndPlaces(t *testing.T) {
	c := sim.New([]compositor.Rect{screen}, 1)
	w := c.OpenWindow(sim.WindowOptions{})
	c.Maximize(w, compositor.MaximizeBoth)

	target := compositor.Rect{X: 10, Y: 20, Width: 300, Height: 200}
	if !Move(w, target) {
		t.Fatalf("expected move")
	}
	if w.Maximized() != compositor.MaximizeNone {
		t.Fatalf("window still maximized: %v", w.Maximized())
	}
	if w.FrameRect() != target {
		t.Fatalf("frame %+v, want %+v", w.FrameRect(), target)
	}
	if w.SimActor().TransitionsCleared != 1 {
		t.Fatalf("transitions not cleared")
	}
}

func TestMoveSkipsGrabbedAndActorless(t *testing.T) {
	c := sim.New([]compositor.Rect{screen}, 1)
	grabbed := c.OpenWindow(sim.WindowOptions{})
	c.BeginGrab(grabbed, compositor.GrabOpMoving)
	before := grabbed.FrameRect()
	if Move(grabbed, compositor.Rect{Width: 1, Height: 1}) || grabbed.FrameRect() != before {
		t.Fatalf("grabbed window must not move")
	}

	bare := c.OpenWindow(sim.WindowOptions{NoActor: true})
	if Move(bare, compositor.Rect{Width: 1, Height: 1}) || bare.MoveCalls != 0 {
		t.Fatalf("window without actor must not move")
	}
	if Move(nil, compositor.Rect{}) {
		t.Fatalf("nil window must not move")
	}
}

func TestResolve(t *testing.T) {
	current := compositor.Rect{X: 5, Y: 6, Width: 100, Height: 50}
	cases := []struct {
		name string
		p    Placement
		want compositor.Rect
	}{
		{"absent keeps frame", Placement{}, current},
		{"fractions", Placement{X: 0.5, Y: 0, Width: 0.5, Height: 1}, compositor.Rect{X: 500, Y: 0, Width: 500, Height: 500}},
		{"pixels", Placement{X: 20, Width: 300}, compositor.Rect{X: 20, Y: 6, Width: 300, Height: 50}},
		{"center", Placement{X: "center", Y: "center", Width: 0.5, Height: 0.5}, compositor.Rect{X: 250, Y: 125, Width: 500, Height: 250}},
		{"edges", Placement{X: "right", Y: "bottom"}, compositor.Rect{X: 900, Y: 450, Width: 100, Height: 50}},
		{"percent strings", Placement{Width: "25%", X: "left"}, compositor.Rect{X: 0, Y: 6, Width: 250, Height: 50}},
	}
	for _, tc := range cases {
		got, err := ResolveIn(tc.p, current, screen)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestResolveRejectsUnknownValues(t *testing.T) {
	if _, err := ResolveIn(Placement{X: "sideways"}, compositor.Rect{}, screen); !errors.Is(err, ErrBadPlacement) {
		t.Fatalf("expected ErrBadPlacement, got %v", err)
	}
	if _, err := ResolveIn(Placement{Width: "top"}, compositor.Rect{}, screen); !errors.Is(err, ErrBadPlacement) {
		t.Fatalf("size keywords are not accepted, got %v", err)
	}
	if _, err := ResolveIn(Placement{Height: []int{1}}, compositor.Rect{}, screen); !errors.Is(err, ErrBadPlacement) {
		t.Fatalf("expected ErrBadPlacement for slice, got %v", err)
	}
}

func TestColumns(t *testing.T) {
	rects := Columns(screen, 2, 10)
	want := []compositor.Rect{
		{X: 10, Y: 10, Width: 485, Height: 480},
		{X: 505, Y: 10, Width: 485, Height: 480},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Fatalf("column %d = %+v, want %+v", i, rects[i], want[i])
		}
	}
	if Columns(screen, 0, 0) != nil {
		t.Fatalf("zero columns should be nil")
	}
}

func TestTilerSkipsFloatingAndMinimized(t *testing.T) {
	c := sim.New([]compositor.Rect{screen}, 1)
	a := c.OpenWindow(sim.WindowOptions{Class: "a"})
	b := c.OpenWindow(sim.WindowOptions{Class: "b"})
	f := c.OpenWindow(sim.WindowOptions{Class: "float"})
	m := c.OpenWindow(sim.WindowOptions{Class: "min"})
	c.Minimize(m)

	tl := NewTiler(0)
	tr := tree.New(tl)
	tr.InitWorkspaces(1, 1)
	for _, w := range []*sim.Window{a, b, f, m} {
		n, err := tr.AddNode(tree.MonitorKey(0, 0), tree.NodeWindow, w)
		if err != nil {
			t.Fatal(err)
		}
		if w == f {
			n.Mode = tree.ModeFloat
		}
	}
	floatBefore, minBefore := f.FrameRect(), m.FrameRect()

	tr.Render("test")
	if a.FrameRect() != (compositor.Rect{X: 0, Y: 0, Width: 500, Height: 500}) {
		t.Fatalf("a = %+v", a.FrameRect())
	}
	if b.FrameRect() != (compositor.Rect{X: 500, Y: 0, Width: 500, Height: 500}) {
		t.Fatalf("b = %+v", b.FrameRect())
	}
	if f.FrameRect() != floatBefore || m.FrameRect() != minBefore {
		t.Fatalf("floating or minimized window moved")
	}
	if tl.Moves != 2 {
		t.Fatalf("expected 2 moves, got %d", tl.Moves)
	}

	tr.Render("again")
	if tl.Moves != 0 {
		t.Fatalf("settled layout should not move windows, got %d", tl.Moves)
	}
}
