// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/tiler.go
// Summary: Column tiler used as the default layout pass.
// Usage: Pass a *Tiler to tree.New or wm.New as the renderer.

package layout

import (
	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/tree"
)

// Tiler splits every monitor's work area into equal columns, one per tiled
// window, in tree order.
type Tiler struct {
	Gap int

	// Moves counts frames placed by the last pass.
	Moves int
}

// NewTiler returns a tiler with the given gap between columns.
func NewTiler(gap int) *Tiler {
	if gap < 0 {
		gap = 0
	}
	return &Tiler{Gap: gap}
}

// Render implements tree.Renderer.
func (tl *Tiler) Render(t *tree.Tree, reason string) {
	tl.Moves = 0
	t.Traverse(func(n *tree.Node) {
		if n.Type != tree.NodeMonitor {
			return
		}
		windows := tiled(t, n)
		if len(windows) == 0 {
			return
		}
		rects := Columns(windows[0].WorkArea(), len(windows), tl.Gap)
		for i, w := range windows {
			if w.FrameRect() == rects[i] {
				continue
			}
			if Move(w, rects[i]) {
				tl.Moves++
			}
		}
	})
}

func tiled(t *tree.Tree, monitor *tree.Node) []compositor.Window {
	var out []compositor.Window
	for _, child := range t.Children(monitor) {
		w, ok := child.Window()
		if !ok || child.Mode != tree.ModeTile {
			continue
		}
		if w.Minimized() || w.Maximized() != compositor.MaximizeNone || w.Grabbed() {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Columns divides area into n columns separated and surrounded by gap. The
// last column absorbs rounding so the columns always reach the right edge.
func Columns(area compositor.Rect, n, gap int) []compositor.Rect {
	if n <= 0 {
		return nil
	}
	inner := area.Width - gap*(n+1)
	if inner < n {
		inner = n
	}
	width := inner / n
	height := area.Height - 2*gap
	if height < 1 {
		height = 1
	}
	rects := make([]compositor.Rect, n)
	x := area.X + gap
	for i := 0; i < n; i++ {
		w := width
		if i == n-1 {
			w = area.X + area.Width - gap - x
			if w < 1 {
				w = 1
			}
		}
		rects[i] = compositor.Rect{X: x, Y: area.Y + gap, Width: w, Height: height}
		x += width + gap
	}
	return rects
}
