// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store_test.go
// Summary: Exercises loading, defaults and saving of the system config.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	loadErr = nil
	override = ""
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if cfg.GetString("border", "style_class", "") == "" {
		t.Fatalf("expected border style to be set")
	}
	if got := cfg.GetInt("border", "switch_delay_ms", 0); got != 350 {
		t.Fatalf("expected 350ms switch delay, got %d", got)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if disk.Section("windows") == nil {
		t.Fatalf("expected windows section to be present")
	}
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	SetSystem(Config{"log_level": "debug"})
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if got := disk.GetString("", "log_level", ""); got != "debug" {
		t.Fatalf("expected log_level debug, got %q", got)
	}
}

func TestUseFileAndPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	if err := writeConfig(path, Config{
		"windows": map[string]interface{}{
			"float_classes": []interface{}{"pavucontrol", 3},
		},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}
	resetStore()
	UseFile(path)

	cfg := System()
	got := cfg.GetStringSlice("windows", "float_classes", nil)
	if len(got) != 1 || got[0] != "pavucontrol" {
		t.Fatalf("unexpected float classes %v", got)
	}
	if types := cfg.GetStringSlice("windows", "track_types", nil); len(types) != 1 || types[0] != "normal" {
		t.Fatalf("defaults should fill missing keys, got %v", types)
	}
	if cfg.GetInt("layout", "gap", -1) != 8 {
		t.Fatalf("expected default gap")
	}
}

func TestBrokenConfigReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	resetStore()
	UseFile(path)

	if Err() == nil {
		t.Fatalf("expected a load error")
	}
	if System().GetString("", "log_level", "") != "info" {
		t.Fatalf("defaults should still apply")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Fatalf("broken config must not be overwritten")
	}
}

func TestGetters(t *testing.T) {
	cfg := Config{
		"a": Section{
			"n":    json.Number("12"),
			"f":    "1.5",
			"b":    "true",
			"list": "x, y",
			"obj":  map[string]interface{}{"name": "MoveResize"},
		},
	}
	if cfg.GetInt("a", "n", 0) != 12 || cfg.GetFloat("a", "f", 0) != 1.5 || !cfg.GetBool("a", "b", false) {
		t.Fatalf("typed getters failed")
	}
	if got := cfg.GetStringSlice("a", "list", nil); len(got) != 2 || got[1] != "y" {
		t.Fatalf("comma list = %v", got)
	}
	if cfg.GetMap("a", "obj")["name"] != "MoveResize" {
		t.Fatalf("GetMap failed")
	}
	if cfg.GetString("missing", "x", "d") != "d" {
		t.Fatalf("missing section should yield default")
	}

	clone := Clone(cfg)
	clone.Section("a")["n"] = 1
	if cfg.GetInt("a", "n", 0) != 12 {
		t.Fatalf("clone shares sections with original")
	}
}
