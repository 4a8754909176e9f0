// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/store_test.go
// Summary: Exercises mode memory and snapshot retention.

package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/framegrace/tilewm/tree"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "windows.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func capture(mode string) tree.Capture {
	return tree.Capture{Workspaces: []tree.WorkspaceCapture{{
		Key: "ws0",
		Monitors: []tree.MonitorCapture{{
			Key: "mo0ws0",
			Windows: []tree.WindowCapture{
				{Sequence: 1, Class: "term", Mode: "TILE"},
				{Sequence: 2, Class: "calc", Mode: mode},
			},
		}},
	}}}
}

func TestSaveAndRecall(t *testing.T) {
	s := openTestStore(t)
	if _, ok := s.Recall(2, "calc"); ok {
		t.Fatalf("empty store should recall nothing")
	}
	if err := s.Save(capture("FLOAT")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if mode, ok := s.Recall(2, "calc"); !ok || mode != tree.ModeFloat {
		t.Fatalf("Recall = %v, %v", mode, ok)
	}
	if _, ok := s.Recall(2, "other-class"); ok {
		t.Fatalf("class must match")
	}

	if err := s.Save(capture("TILE")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if mode, _ := s.Recall(2, "calc"); mode != tree.ModeTile {
		t.Fatalf("mode not updated: %v", mode)
	}

	recs, err := s.Windows()
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(recs) != 2 || recs[0].MonitorKey != "mo0ws0" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestUnchangedCaptureIsSkipped(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		if err := s.Save(capture("FLOAT")); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if n, err := s.SnapshotCount(); err != nil || n != 1 {
		t.Fatalf("expected 1 snapshot, got %d (%v)", n, err)
	}
}

func TestSnapshotsArePruned(t *testing.T) {
	s := openTestStore(t)
	s.SetKeep(2)
	for _, mode := range []string{"TILE", "FLOAT", "LAYOUT", "TILE"} {
		if err := s.Save(capture(mode)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if n, _ := s.SnapshotCount(); n != 2 {
		t.Fatalf("expected 2 snapshots, got %d", n)
	}
	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Tree.Workspaces[0].Monitors[0].Windows[1].Mode != "TILE" {
		t.Fatalf("latest snapshot is not the last save")
	}
	if latest.Hash == "" || latest.TakenAt.IsZero() {
		t.Fatalf("snapshot metadata missing")
	}
}

func TestForgottenWindowsArePruned(t *testing.T) {
	s := openTestStore(t)
	s.SetKeep(2)
	if err := s.Save(capture("FLOAT")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	only := tree.Capture{Workspaces: []tree.WorkspaceCapture{{
		Key: "ws0",
		Monitors: []tree.MonitorCapture{{
			Key:     "mo0ws0",
			Windows: []tree.WindowCapture{{Sequence: 1, Class: "term", Mode: "TILE"}},
		}},
	}}}
	if err := s.Save(only); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := s.Recall(2, "calc"); !ok {
		t.Fatalf("window still in a retained snapshot was forgotten")
	}

	only.Workspaces[0].Monitors[0].Windows[0].Mode = "FLOAT"
	if err := s.Save(only); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := s.Recall(2, "calc"); ok {
		t.Fatalf("window absent from retained snapshots should be forgotten")
	}
	recs, err := s.Windows()
	if err != nil || len(recs) != 1 || recs[0].Sequence != 1 {
		t.Fatalf("unexpected records %+v (%v)", recs, err)
	}
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Latest(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestReopenKeepsModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windows.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Save(capture("FLOAT")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if mode, ok := s2.Recall(2, "calc"); !ok || mode != tree.ModeFloat {
		t.Fatalf("mode lost across reopen: %v %v", mode, ok)
	}
}
