// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/tree_test.go
// Summary: Exercises structural tree operations.
// Usage: Executed during `go test` to guard against regressions.

package tree

import (
	"errors"
	"testing"

	"github.com/framegrace/tilewm/compositor"
)

type stubActor struct{ transitions int }

func (a *stubActor) RemoveAllTransitions() { a.transitions++ }

type stubWindow struct {
	seq   uint32
	class string
	actor *stubActor
}

func newStubWindow(seq uint32, class string) *stubWindow {
	return &stubWindow{seq: seq, class: class, actor: &stubActor{}}
}

func (w *stubWindow) Type() compositor.WindowType         { return compositor.WindowNormal }
func (w *stubWindow) WMClass() string                     { return w.class }
func (w *stubWindow) StableSequence() uint32              { return w.seq }
func (w *stubWindow) Monitor() int                        { return 0 }
func (w *stubWindow) Workspace() (int, bool)              { return 0, true }
func (w *stubWindow) FrameRect() compositor.Rect          { return compositor.Rect{} }
func (w *stubWindow) WorkArea() compositor.Rect           { return compositor.Rect{} }
func (w *stubWindow) Maximized() compositor.MaximizeFlags { return compositor.MaximizeNone }
func (w *stubWindow) Minimized() bool                     { return false }
func (w *stubWindow) AppearsFocused() bool                { return false }
func (w *stubWindow) Grabbed() bool                       { return false }
func (w *stubWindow) Unmaximize(compositor.MaximizeFlags) {}
func (w *stubWindow) MoveFrame(bool, int, int)            {}
func (w *stubWindow) MoveResizeFrame(bool, int, int, int, int) {}
func (w *stubWindow) Actor() compositor.Actor {
	if w.actor == nil {
		return nil
	}
	return w.actor
}

func newTestTree(workspaces, monitors int) *Tree {
	tr := New(nil)
	tr.InitWorkspaces(workspaces, monitors)
	return tr
}

func TestInitWorkspacesBuildsMonitorNodes(t *testing.T) {
	tr := newTestTree(2, 2)
	if got := len(tr.Workspaces()); got != 2 {
		t.Fatalf("expected 2 workspaces, got %d", got)
	}
	for _, key := range []Key{"mo0ws0", "mo1ws0", "mo0ws1", "mo1ws1"} {
		n := tr.FindNode(key)
		if n == nil || n.Type != NodeMonitor {
			t.Fatalf("missing monitor node %s", key)
		}
	}
	if tr.Len() != 7 {
		t.Fatalf("expected 7 nodes, got %d", tr.Len())
	}
}

func TestAddNodeParentNotFound(t *testing.T) {
	tr := newTestTree(1, 1)
	_, err := tr.AddNode(MonitorKey(3, 9), NodeWindow, newStubWindow(1, "a"))
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}

func TestAddNodeAppendsAndDefaultsToTile(t *testing.T) {
	tr := newTestTree(1, 1)
	a, b := newStubWindow(1, "a"), newStubWindow(2, "b")
	na, err := tr.AddNode(MonitorKey(0, 0), NodeWindow, a)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := tr.AddNode("mo0ws0", NodeWindow, b); err != nil {
		t.Fatalf("AddNode with string key: %v", err)
	}
	if na.Mode != ModeTile {
		t.Fatalf("expected TILE default, got %v", na.Mode)
	}
	mon := tr.FindNode(MonitorKey(0, 0))
	children := tr.Children(mon)
	if len(children) != 2 || children[0].Data != a || children[1].Data != b {
		t.Fatalf("children not in insertion order")
	}
	if key, ok := tr.ParentKey(na); !ok || key != "mo0ws0" {
		t.Fatalf("unexpected parent key %q", key)
	}
}

func TestFindNodeMatchesWindowsByIdentity(t *testing.T) {
	tr := newTestTree(1, 1)
	a := newStubWindow(1, "same")
	twin := newStubWindow(1, "same")
	if _, err := tr.AddNode(MonitorKey(0, 0), NodeWindow, a); err != nil {
		t.Fatal(err)
	}
	if tr.FindNode(a) == nil {
		t.Fatalf("expected to find window a")
	}
	if tr.FindNode(twin) != nil {
		t.Fatalf("equal-valued but distinct window must not match")
	}
}

func TestFindNodeByActor(t *testing.T) {
	tr := newTestTree(1, 1)
	a, b := newStubWindow(1, "a"), newStubWindow(2, "b")
	tr.AddNode(MonitorKey(0, 0), NodeWindow, a)
	nb, _ := tr.AddNode(MonitorKey(0, 0), NodeWindow, b)
	if got := tr.FindNodeByActor(b.actor); got != nb {
		t.Fatalf("expected node for b")
	}
	if tr.FindNodeByActor(&stubActor{}) != nil {
		t.Fatalf("unknown actor should not match")
	}
	if tr.FindNodeByActor(nil) != nil {
		t.Fatalf("nil actor should not match")
	}
}

func TestRemoveNodeIsIdempotent(t *testing.T) {
	tr := newTestTree(1, 1)
	a := newStubWindow(1, "a")
	n, _ := tr.AddNode(MonitorKey(0, 0), NodeWindow, a)
	before := tr.Len()

	if !tr.RemoveNode(MonitorKey(0, 0), n) {
		t.Fatalf("first removal should report a change")
	}
	if tr.Len() != before-1 {
		t.Fatalf("node not freed")
	}
	after := tr.Capture()
	if tr.RemoveNode(MonitorKey(0, 0), n) {
		t.Fatalf("second removal should be a no-op")
	}
	if tr.RemoveNode("nowhere", n) {
		t.Fatalf("removal under unknown parent should be a no-op")
	}
	if got := tr.Capture(); got.WindowCount() != after.WindowCount() || tr.Len() != before-1 {
		t.Fatalf("tree changed after redundant removal")
	}
	if tr.FindNode(a) != nil {
		t.Fatalf("removed window still found")
	}
}

func TestWorkspaceAddRemoveReportChanges(t *testing.T) {
	tr := newTestTree(1, 1)
	if tr.AddWorkspace(0, 1) {
		t.Fatalf("duplicate add should report no change")
	}
	if !tr.AddWorkspace(1, 1) {
		t.Fatalf("new workspace should be added")
	}
	tr.AddNode(MonitorKey(0, 1), NodeWindow, newStubWindow(5, "x"))
	if !tr.RemoveWorkspace(1) {
		t.Fatalf("existing workspace should be removed")
	}
	if tr.RemoveWorkspace(1) {
		t.Fatalf("second removal should report no change")
	}
	if tr.FindNode(MonitorKey(0, 1)) != nil || len(tr.Windows()) != 0 {
		t.Fatalf("workspace subtree not freed")
	}
}

func TestClearKeepsRoot(t *testing.T) {
	tr := newTestTree(3, 2)
	tr.AddNode(MonitorKey(1, 2), NodeWindow, newStubWindow(1, "a"))
	tr.Clear()
	if tr.Len() != 1 || tr.Root() == nil || len(tr.Workspaces()) != 0 {
		t.Fatalf("clear should leave only the root")
	}
}

func TestRenderDelegatesWithReason(t *testing.T) {
	var reasons []string
	tr := New(RendererFunc(func(_ *Tree, reason string) { reasons = append(reasons, reason) }))
	tr.Render("enable")
	if len(reasons) != 1 || reasons[0] != "enable" {
		t.Fatalf("unexpected render calls %v", reasons)
	}
}

func TestCapturePlacements(t *testing.T) {
	tr := newTestTree(2, 1)
	n, _ := tr.AddNode(MonitorKey(0, 1), NodeWindow, newStubWindow(7, "term"))
	n.Mode = ModeFloat
	n.GrabOp = compositor.GrabOpMoving
	c := tr.Capture()
	if got := c.Placements()[7]; got != "mo0ws1" {
		t.Fatalf("unexpected placement %q", got)
	}
	win := c.Workspaces[1].Monitors[0].Windows[0]
	if win.Mode != "FLOAT" || win.Class != "term" || win.Grab != "moving" {
		t.Fatalf("unexpected window capture %+v", win)
	}
}

func TestKeysRoundTrip(t *testing.T) {
	m, ws, ok := ParseMonitorKey(MonitorKey(12, 3))
	if !ok || m != 12 || ws != 3 {
		t.Fatalf("ParseMonitorKey = %d %d %v", m, ws, ok)
	}
	if _, _, ok := ParseMonitorKey("ws3"); ok {
		t.Fatalf("workspace key is not a monitor key")
	}
	if mode, err := ParseMode("float"); err != nil || mode != ModeFloat {
		t.Fatalf("ParseMode(float) = %v, %v", mode, err)
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
