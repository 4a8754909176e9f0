// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wm/engine_test.go
// Summary: Exercises tree synchronization against the simulated compositor.
// Usage: Executed during `go test` to guard against regressions.

package wm

import (
	"testing"
	"time"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/mainloop"
	"github.com/framegrace/tilewm/tree"
)

type harness struct {
	c       *sim.Compositor
	loop    *mainloop.Loop
	e       *Engine
	renders []string
}

func newHarness(t *testing.T, workspaces, monitors int, opts Options) *harness {
	t.Helper()
	rects := make([]compositor.Rect, monitors)
	for i := range rects {
		rects[i] = compositor.Rect{X: i * 1000, Width: 1000, Height: 800}
	}
	h := &harness{c: sim.New(rects, workspaces), loop: mainloop.New()}
	renderer := tree.RendererFunc(func(_ *tree.Tree, reason string) {
		h.renders = append(h.renders, reason)
	})
	h.e = New(h.c, h.loop, renderer, opts)
	h.e.Enable()
	h.settle()
	return h
}

func (h *harness) settle() { h.loop.Drain() }

func (h *harness) open(class string, workspace, monitor int) *sim.Window {
	w := h.c.OpenWindow(sim.WindowOptions{Class: class, Workspace: workspace, Monitor: monitor})
	h.settle()
	return w
}

func (h *harness) parentKey(t *testing.T, w compositor.Window) tree.Key {
	t.Helper()
	n := h.e.Tree().FindNode(w)
	if n == nil {
		t.Fatalf("window %s not tracked", w.WMClass())
	}
	key, ok := h.e.Tree().ParentKey(n)
	if !ok {
		t.Fatalf("window %s has no parent", w.WMClass())
	}
	return key
}

// assertConsistent checks uniqueness and placement of every tracked window.
func assertConsistent(t *testing.T, h *harness) {
	t.Helper()
	seen := make(map[compositor.Window]bool)
	for _, n := range h.e.Tree().Windows() {
		w, _ := n.Window()
		if seen[w] {
			t.Fatalf("window %s has more than one node", w.WMClass())
		}
		seen[w] = true
		ws, ok := w.Workspace()
		if !ok {
			t.Fatalf("sticky window %s in tree", w.WMClass())
		}
		key, _ := h.e.Tree().ParentKey(n)
		if want := tree.MonitorKey(w.Monitor(), ws); key != want {
			t.Fatalf("window %s under %s, want %s", w.WMClass(), key, want)
		}
	}
}

func TestMoveToOtherWorkspaceKeepsMode(t *testing.T) {
	h := newHarness(t, 2, 1, Options{})
	a := h.open("A", 0, 0)

	if got := h.parentKey(t, a); got != "mo0ws0" {
		t.Fatalf("A under %s", got)
	}
	if mode, _ := h.e.WindowMode(a); mode != tree.ModeTile {
		t.Fatalf("expected TILE, got %v", mode)
	}
	h.e.Tree().FindNode(a).Mode = tree.ModeFloat

	h.c.Relocate(a, 0, 1)
	h.c.NotifyEnteredMonitor(a)
	h.settle()

	if got := h.parentKey(t, a); got != "mo0ws1" {
		t.Fatalf("A under %s after move", got)
	}
	if mode, _ := h.e.WindowMode(a); mode != tree.ModeFloat {
		t.Fatalf("mode not preserved: %v", mode)
	}
	if old := h.e.Tree().FindNode(tree.MonitorKey(0, 0)); old.Len() != 0 {
		t.Fatalf("old parent still has %d children", old.Len())
	}
	assertConsistent(t, h)
}

func TestGrabFreezesRendersUntilEnd(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	h.c.Focus(a)
	h.settle()
	h.renders = nil

	h.c.BeginGrab(a, compositor.GrabOpMoving)
	h.settle()
	if !h.e.Scheduler().Frozen() {
		t.Fatalf("expected frozen after grab begin")
	}
	if got := h.e.Tree().FindNode(a).GrabOp; got != compositor.GrabOpMoving {
		t.Fatalf("grab op not stamped: %v", got)
	}
	for i := 0; i < 5; i++ {
		h.c.Drag(a, 10, 0)
		h.settle()
	}
	if len(h.renders) != 0 {
		t.Fatalf("renders during grab: %v", h.renders)
	}

	h.c.EndGrab(a, compositor.GrabOpMoving)
	h.settle()
	if len(h.renders) != 1 || h.renders[0] != "grab-op-end" {
		t.Fatalf("expected one grab-op-end render, got %v", h.renders)
	}
	if h.e.Tree().FindNode(a).GrabOp != compositor.GrabOpNone {
		t.Fatalf("grab op not cleared")
	}
}

func TestGrabEndOnMaximizedFocusDoesNotRender(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	h.c.Focus(a)
	h.c.Maximize(a, compositor.MaximizeBoth)
	h.settle()
	h.renders = nil

	h.c.BeginGrab(a, compositor.GrabOpMoving)
	h.c.EndGrab(a, compositor.GrabOpMoving)
	h.settle()
	if len(h.renders) != 0 {
		t.Fatalf("unexpected renders %v", h.renders)
	}
	if h.e.Scheduler().Frozen() {
		t.Fatalf("gate should be open after grab end")
	}
}

func TestDestroyWithoutNodeIsAbsorbed(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	n := h.e.Tree().FindNode(a)
	h.e.Tree().RemoveNode(tree.MonitorKey(0, 0), n)
	h.renders = nil

	h.e.scheduler.Schedule("already-pending")
	h.c.CloseWindow(a)
	h.settle()
	if len(h.renders) != 1 || h.renders[0] != "already-pending" {
		t.Fatalf("expected only the pending render, got %v", h.renders)
	}
	if h.e.Registry().Attached(a) {
		t.Fatalf("registry entry should be released")
	}
}

func TestDestroyRemovesNodeAndBorder(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	b := h.open("B", 0, 0)
	borders := len(h.c.SimStage().Children())
	before := h.e.SubscriptionCount()
	h.renders = nil

	actor := a.Actor()
	h.c.CloseWindow(a)
	h.settle()

	if h.e.Tree().FindNode(a) != nil {
		t.Fatalf("destroyed window still in tree")
	}
	if h.e.Tree().FindNode(b) == nil {
		t.Fatalf("other window lost")
	}
	if got := len(h.c.SimStage().Children()); got != borders-1 {
		t.Fatalf("border not removed from stage: %d -> %d", borders, got)
	}
	if h.e.SubscriptionCount() != before-5 {
		t.Fatalf("window subscriptions not released: %d -> %d", before, h.e.SubscriptionCount())
	}
	if len(h.renders) != 1 || h.renders[0] != "window-destroy" {
		t.Fatalf("expected window-destroy render, got %v", h.renders)
	}

	// A second destroy for the same actor changes nothing.
	snapshot := h.e.Capture()
	h.renders = nil
	h.e.windowDestroyed(actor)
	h.settle()
	if len(h.renders) != 0 || h.e.Capture().WindowCount() != snapshot.WindowCount() {
		t.Fatalf("redundant destroy changed state")
	}
}

func TestRetrackIsIdempotent(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	nodes := h.e.Tree().Len()
	subs := h.e.SubscriptionCount()
	borders := len(h.c.Borders())

	for i := 0; i < 3; i++ {
		h.e.trackWindow(a)
		h.e.updateWorkspaceMonitor(a)
	}
	h.settle()
	if h.e.Tree().Len() != nodes || h.e.SubscriptionCount() != subs || len(h.c.Borders()) != borders {
		t.Fatalf("re-track changed state: nodes %d->%d subs %d->%d borders %d->%d",
			nodes, h.e.Tree().Len(), subs, h.e.SubscriptionCount(), borders, len(h.c.Borders()))
	}
	assertConsistent(t, h)
}

func TestReloadConverges(t *testing.T) {
	h := newHarness(t, 3, 2, Options{})
	a := h.open("A", 0, 0)
	b := h.open("B", 0, 1)
	c := h.open("C", 1, 0)
	d := h.open("D", 2, 1)
	_ = h.open("E", 1, 1)

	h.c.MoveToWorkspace(a, 2)
	h.c.MoveToMonitor(c, 1)
	h.c.CloseWindow(b)
	h.settle()
	h.c.MoveToWorkspace(d, 0)
	h.settle()
	assertConsistent(t, h)

	h.c.Focus(c)
	h.settle()
	if err := h.e.Command(Action{Name: ActionMoveResize, Mode: "float"}); err != nil {
		t.Fatalf("command: %v", err)
	}
	h.settle()

	before := h.e.Capture()
	h.renders = nil
	h.c.SetWorkArea(0, compositor.Rect{Width: 900, Height: 800})
	h.settle()
	after := h.e.Capture()

	bp, ap := before.Placements(), after.Placements()
	if len(bp) != len(ap) {
		t.Fatalf("window count changed: %v vs %v", bp, ap)
	}
	for seq, key := range bp {
		if ap[seq] != key {
			t.Fatalf("window %d under %s after reload, was %s", seq, ap[seq], key)
		}
	}
	if mode, _ := h.e.WindowMode(c); mode != tree.ModeFloat {
		t.Fatalf("mode lost across reload: %v", mode)
	}
	if len(h.renders) != 1 || h.renders[0] != "reload-tree" {
		t.Fatalf("expected a single reload-tree render, got %v", h.renders)
	}
	assertConsistent(t, h)
}

func TestTrackingSkipsUntrackableWindows(t *testing.T) {
	h := newHarness(t, 2, 1, Options{})
	h.c.OpenWindow(sim.WindowOptions{Class: "dlg", Type: compositor.WindowDialog})
	h.c.OpenWindow(sim.WindowOptions{Class: "sticky", Sticky: true})
	h.settle()
	if n := len(h.e.Tree().Windows()); n != 0 {
		t.Fatalf("expected no tracked windows, got %d", n)
	}

	h2 := newHarness(t, 1, 1, Options{TrackTypes: []compositor.WindowType{compositor.WindowNormal, compositor.WindowDialog}})
	h2.c.OpenWindow(sim.WindowOptions{Class: "dlg", Type: compositor.WindowDialog})
	h2.settle()
	if n := len(h2.e.Tree().Windows()); n != 1 {
		t.Fatalf("dialog should be tracked when configured, got %d", n)
	}
}

func TestDeferredTrackingRetriesOnPlacement(t *testing.T) {
	h := newHarness(t, 2, 1, Options{})
	h.e.Tree().RemoveWorkspace(1)

	w := h.open("late", 1, 0)
	if h.e.Tree().FindNode(w) != nil {
		t.Fatalf("window should be deferred without a monitor node")
	}
	h.e.Tree().AddWorkspace(1, 1)
	h.c.NotifyEnteredMonitor(w)
	h.settle()
	if got := h.parentKey(t, w); got != "mo0ws1" {
		t.Fatalf("deferred window under %s", got)
	}
}

func TestWorkspaceAddedBindsWindowAdded(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	w := h.open("A", 0, 0)

	index := h.c.AddWorkspace()
	h.settle()
	if h.e.Tree().FindNode(tree.WorkspaceKey(index)) == nil {
		t.Fatalf("workspace not mirrored")
	}
	h.c.MoveToWorkspace(w, index)
	h.settle()
	if got := h.parentKey(t, w); got != tree.MonitorKey(0, index) {
		t.Fatalf("window under %s", got)
	}

	h.e.workspaceAdded(index)
	if len(h.e.Tree().Workspaces()) != 2 {
		t.Fatalf("duplicate workspace-added changed the tree")
	}
}

func TestWorkspaceRemovedRekeys(t *testing.T) {
	h := newHarness(t, 3, 1, Options{})
	a := h.open("A", 1, 0)
	b := h.open("B", 2, 0)

	h.c.RemoveWorkspace(1)
	h.settle()

	if len(h.e.Tree().Workspaces()) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(h.e.Tree().Workspaces()))
	}
	if got := h.parentKey(t, a); got != "mo0ws0" {
		t.Fatalf("A under %s", got)
	}
	if got := h.parentKey(t, b); got != "mo0ws1" {
		t.Fatalf("B under %s", got)
	}
	assertConsistent(t, h)
}

func TestWorkspaceRemovedKeepsModes(t *testing.T) {
	for index := 0; index < 3; index++ {
		h := newHarness(t, 3, 1, Options{})
		a := h.open("A", index, 0)
		b := h.open("B", (index+1)%3, 0)
		h.e.Tree().FindNode(a).Mode = tree.ModeFloat

		h.c.RemoveWorkspace(index)
		h.settle()

		if mode, err := h.e.WindowMode(a); err != nil || mode != tree.ModeFloat {
			t.Fatalf("removing ws%d: A mode %v (%v), want FLOAT", index, mode, err)
		}
		if mode, _ := h.e.WindowMode(b); mode != tree.ModeTile {
			t.Fatalf("removing ws%d: B mode %v, want TILE", index, mode)
		}
		if len(h.e.heldModes) != 0 {
			t.Fatalf("removing ws%d: held modes not released: %v", index, h.e.heldModes)
		}
		assertConsistent(t, h)

		h.e.reload("check")
		h.settle()
		if mode, _ := h.e.WindowMode(a); mode != tree.ModeFloat {
			t.Fatalf("removing ws%d: reload lost FLOAT, got %v", index, mode)
		}
	}
}

func TestStickyWindowLeavesTree(t *testing.T) {
	h := newHarness(t, 2, 1, Options{})
	a := h.open("A", 0, 0)
	h.open("B", 1, 0)

	h.c.SetSticky(a, true)
	h.settle()
	if h.e.Tree().FindNode(a) != nil {
		t.Fatalf("sticky window still in tree")
	}
	assertConsistent(t, h)
	incremental := h.e.Capture().Placements()

	h.e.reload("check")
	h.settle()
	rebuilt := h.e.Capture().Placements()
	if len(incremental) != len(rebuilt) {
		t.Fatalf("incremental %v differs from rebuilt %v", incremental, rebuilt)
	}
	for k, v := range incremental {
		if rebuilt[k] != v {
			t.Fatalf("incremental %v differs from rebuilt %v", incremental, rebuilt)
		}
	}

	h.c.SetSticky(a, false)
	h.settle()
	if got := h.parentKey(t, a); got != "mo0ws0" {
		t.Fatalf("window back under %s", got)
	}
}

func TestFocusIndicatorShowsOnlyFocusedBorder(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	b := h.open("B", 0, 0)

	h.c.Focus(a)
	h.c.Focus(b)
	h.settle()
	if h.e.Registry().VisibleBorders() != 1 {
		t.Fatalf("expected exactly one visible border, got %d", h.e.Registry().VisibleBorders())
	}
	top := h.c.SimStage().Top()
	if top == nil || top.Owner() != b || !top.Visible() {
		t.Fatalf("focused border should be visible on top")
	}
	if top.Rect != b.FrameRect() {
		t.Fatalf("border %+v does not match frame %+v", top.Rect, b.FrameRect())
	}

	h.c.Minimize(b)
	h.settle()
	if h.e.Registry().VisibleBorders() != 0 {
		t.Fatalf("minimize should hide borders")
	}

	h.c.Focus(nil)
	h.e.showBorder()
	if h.e.Registry().VisibleBorders() != 0 {
		t.Fatalf("no focus should leave every border hidden")
	}
}

func TestWorkspaceSwitchDelaysBorder(t *testing.T) {
	h := newHarness(t, 2, 1, Options{SwitchBorderDelay: 20 * time.Millisecond})
	a := h.open("A", 0, 0)
	h.c.Focus(a)
	h.settle()

	h.c.SwitchWorkspace(1)
	h.settle()
	if h.e.Registry().VisibleBorders() != 0 {
		t.Fatalf("borders should hide on switch")
	}
	deadline := time.Now().Add(2 * time.Second)
	for h.e.Registry().VisibleBorders() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		h.settle()
	}
	if h.e.Registry().VisibleBorders() != 1 {
		t.Fatalf("border should reappear after the delay")
	}
}

func TestShowingDesktopHidesBorders(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	h.c.Focus(a)
	h.settle()
	h.c.ShowDesktop()
	h.settle()
	if h.e.Registry().VisibleBorders() != 0 {
		t.Fatalf("showing desktop should hide borders")
	}
}

func TestDisableUnwindsEverything(t *testing.T) {
	h := newHarness(t, 2, 1, Options{})
	h.open("A", 0, 0)
	h.open("B", 1, 0)

	h.e.Disable()
	h.e.Disable()
	if h.c.ConnectionCount(nil) != 0 || h.e.SubscriptionCount() != 0 {
		t.Fatalf("connections left: %d", h.c.ConnectionCount(nil))
	}
	if len(h.c.SimStage().Children()) != 0 {
		t.Fatalf("borders left on stage")
	}

	before := h.e.Capture().WindowCount()
	h.c.OpenWindow(sim.WindowOptions{Class: "C"})
	h.settle()
	if h.e.Capture().WindowCount() != before {
		t.Fatalf("events processed after disable")
	}
}

func TestReloadAfterDisableIsNoop(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	h.open("A", 0, 0)

	var reloads int
	h.e.Dispatcher().Subscribe(ListenerFunc(func(ev Event) {
		if ev.Type == EventReloaded {
			reloads++
		}
	}))
	h.e.Enable()
	h.e.Disable()
	h.settle()
	if reloads != 0 {
		t.Fatalf("reload ran after disable")
	}
}

func TestEnableResetsFreeze(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	a := h.open("A", 0, 0)
	h.c.BeginGrab(a, compositor.GrabOpMoving)
	h.settle()
	h.e.Disable()
	h.e.Enable()
	h.settle()
	if h.e.Scheduler().Frozen() {
		t.Fatalf("enable should reopen the render gate")
	}
	if h.c.ConnectionCount(nil) == 0 {
		t.Fatalf("enable should rebind signals")
	}
	assertConsistent(t, h)
}

type fakeMemory struct {
	modes map[uint32]tree.Mode
	saved int
}

func (m *fakeMemory) Recall(seq uint32, _ string) (tree.Mode, bool) {
	mode, ok := m.modes[seq]
	return mode, ok
}

func (m *fakeMemory) Save(tree.Capture) error {
	m.saved++
	return nil
}

func TestInitialModeSources(t *testing.T) {
	mem := &fakeMemory{modes: map[uint32]tree.Mode{2: tree.ModeFloat}}
	h := newHarness(t, 1, 1, Options{FloatClasses: []string{"calc"}, Memory: mem})
	a := h.open("term", 0, 0)
	b := h.open("editor", 0, 0)
	c := h.open("calc", 0, 0)

	want := map[*sim.Window]tree.Mode{a: tree.ModeTile, b: tree.ModeFloat, c: tree.ModeFloat}
	for w, mode := range want {
		if got, err := h.e.WindowMode(w); err != nil || got != mode {
			t.Fatalf("%s: mode %v (%v), want %v", w.WMClass(), got, err, mode)
		}
	}
	if mem.saved == 0 {
		t.Fatalf("render passes should save the tree")
	}
}

func TestWindowModeNotTracked(t *testing.T) {
	h := newHarness(t, 1, 1, Options{})
	w := h.c.OpenWindow(sim.WindowOptions{Type: compositor.WindowDialog})
	h.settle()
	if _, err := h.e.WindowMode(w); err != ErrNotTracked {
		t.Fatalf("expected ErrNotTracked, got %v", err)
	}
}
