// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/keys.go
// Summary: Structural node keys and window modes.

package tree

import (
	"fmt"
	"strings"
)

// Key is the payload of ROOT, WORKSPACE and MONITOR nodes.
type Key string

// RootKey is the payload of the root node.
const RootKey Key = "root"

// WorkspaceKey returns the key of workspace index.
func WorkspaceKey(index int) Key {
	return Key(fmt.Sprintf("ws%d", index))
}

// MonitorKey returns the composite key grouping windows by monitor and workspace.
func MonitorKey(monitor, workspace int) Key {
	return Key(fmt.Sprintf("mo%dws%d", monitor, workspace))
}

// ParseMonitorKey splits a monitor key back into its indices.
func ParseMonitorKey(k Key) (monitor, workspace int, ok bool) {
	if _, err := fmt.Sscanf(string(k), "mo%dws%d", &monitor, &workspace); err != nil {
		return 0, 0, false
	}
	return monitor, workspace, MonitorKey(monitor, workspace) == k
}

// Mode controls how a window takes part in layout.
type Mode int

const (
	ModeNone Mode = iota
	ModeFloat
	ModeTile
	ModeLayout
)

func (m Mode) String() string {
	switch m {
	case ModeFloat:
		return "FLOAT"
	case ModeTile:
		return "TILE"
	case ModeLayout:
		return "LAYOUT"
	default:
		return "NONE"
	}
}

// ParseMode accepts mode names in any case. The empty string maps to ModeNone.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ModeNone, nil
	case "FLOAT":
		return ModeFloat, nil
	case "TILE":
		return ModeTile, nil
	case "LAYOUT":
		return ModeLayout, nil
	}
	return ModeNone, fmt.Errorf("unknown window mode %q", s)
}
