// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/capture.go
// Summary: Structural snapshots of the tree for persistence, dumps and comparisons.

package tree

// Capture is a value copy of the tree structure.
type Capture struct {
	Workspaces []WorkspaceCapture `json:"workspaces" yaml:"workspaces"`
}

// WorkspaceCapture stores one workspace and its monitors.
type WorkspaceCapture struct {
	Key      string           `json:"key" yaml:"key"`
	Monitors []MonitorCapture `json:"monitors" yaml:"monitors"`
}

// MonitorCapture stores the windows of one monitor+workspace pair in layout order.
type MonitorCapture struct {
	Key     string          `json:"key" yaml:"key"`
	Windows []WindowCapture `json:"windows,omitempty" yaml:"windows,omitempty"`
}

// WindowCapture identifies a window by stable sequence and class.
type WindowCapture struct {
	Sequence uint32 `json:"sequence" yaml:"sequence"`
	Class    string `json:"class" yaml:"class"`
	Mode     string `json:"mode" yaml:"mode"`
	Grab     string `json:"grab,omitempty" yaml:"grab,omitempty"`
}

// Capture gathers the current structure.
func (t *Tree) Capture() Capture {
	var capture Capture
	for _, ws := range t.Workspaces() {
		wsKey, _ := ws.Key()
		wc := WorkspaceCapture{Key: string(wsKey)}
		for _, mon := range t.Children(ws) {
			monKey, _ := mon.Key()
			mc := MonitorCapture{Key: string(monKey)}
			for _, n := range t.Children(mon) {
				w, ok := n.Window()
				if !ok {
					continue
				}
				winCap := WindowCapture{
					Sequence: w.StableSequence(),
					Class:    w.WMClass(),
					Mode:     n.Mode.String(),
				}
				if n.GrabOp != 0 {
					winCap.Grab = n.GrabOp.String()
				}
				mc.Windows = append(mc.Windows, winCap)
			}
			wc.Monitors = append(wc.Monitors, mc)
		}
		capture.Workspaces = append(capture.Workspaces, wc)
	}
	return capture
}

// Placements maps each window's stable sequence to its monitor key. Two
// trees with equal placements hold the same windows under the same parents.
func (c Capture) Placements() map[uint32]string {
	out := make(map[uint32]string)
	for _, ws := range c.Workspaces {
		for _, mon := range ws.Monitors {
			for _, w := range mon.Windows {
				out[w.Sequence] = mon.Key
			}
		}
	}
	return out
}

// WindowCount returns the number of captured windows.
func (c Capture) WindowCount() int {
	n := 0
	for _, ws := range c.Workspaces {
		for _, mon := range ws.Monitors {
			n += len(mon.Windows)
		}
	}
	return n
}
