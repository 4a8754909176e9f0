// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termview/draw.go
// Summary: Scales monitors and windows of the active workspace onto the terminal.

package termview

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/tilewm/compositor"
	"github.com/framegrace/tilewm/compositor/sim"
	"github.com/framegrace/tilewm/tree"
)

var (
	styleMonitor = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTile    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleFloat   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

type box struct {
	x0, y0, x1, y1 int
}

// projection maps compositor pixels onto terminal cells.
type projection struct {
	origin compositor.Rect
	sx, sy float64
}

func newProjection(bounds compositor.Rect, cols, rows int) projection {
	p := projection{origin: bounds}
	if bounds.Width > 0 {
		p.sx = float64(cols) / float64(bounds.Width)
	}
	if bounds.Height > 0 {
		p.sy = float64(rows) / float64(bounds.Height)
	}
	return p
}

func (p projection) box(r compositor.Rect) box {
	b := box{
		x0: int(float64(r.X-p.origin.X) * p.sx),
		y0: int(float64(r.Y-p.origin.Y) * p.sy),
		x1: int(float64(r.X+r.Width-p.origin.X)*p.sx) - 1,
		y1: int(float64(r.Y+r.Height-p.origin.Y)*p.sy) - 1,
	}
	if b.x1 < b.x0 {
		b.x1 = b.x0
	}
	if b.y1 < b.y0 {
		b.y1 = b.y0
	}
	return b
}

func monitorBounds(c *sim.Compositor) compositor.Rect {
	var minX, minY, maxX, maxY int
	for m := 0; m < c.MonitorCount(); m++ {
		a := c.MonitorArea(m)
		if m == 0 || a.X < minX {
			minX = a.X
		}
		if m == 0 || a.Y < minY {
			minY = a.Y
		}
		if m == 0 || a.X+a.Width > maxX {
			maxX = a.X + a.Width
		}
		if m == 0 || a.Y+a.Height > maxY {
			maxY = a.Y + a.Height
		}
	}
	return compositor.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// visibleWindows returns the windows shown on the active workspace in
// stacking order: tiled first, then the rest, the focused window last.
func (v *View) visibleWindows() []*sim.Window {
	active := v.comp.ActiveWorkspace()
	var out []*sim.Window
	for _, w := range v.comp.AllWindows() {
		if w.Closed() || w.Minimized() {
			continue
		}
		if ws, ok := w.Workspace(); ok && ws != active {
			continue
		}
		out = append(out, w)
	}
	focused := v.comp.Focused()
	rank := func(w *sim.Window) int {
		switch {
		case w == focused:
			return 2
		case v.mode(w) == tree.ModeTile:
			return 0
		default:
			return 1
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func (v *View) mode(w *sim.Window) tree.Mode {
	m, err := v.engine.WindowMode(w)
	if err != nil {
		return tree.ModeNone
	}
	return m
}

// Draw repaints the whole screen.
func (v *View) Draw() {
	cols, rows := v.driver.Size()
	v.driver.Clear()
	if cols <= 0 || rows <= 1 {
		v.driver.Show()
		return
	}
	proj := newProjection(monitorBounds(v.comp), cols, rows-1)

	for m := 0; m < v.comp.MonitorCount(); m++ {
		b := proj.box(v.comp.MonitorArea(m))
		v.frame(b, fmt.Sprintf(" monitor %d ", m), styleMonitor, false)
	}
	for _, w := range v.visibleWindows() {
		style := styleTile
		mode := v.mode(w)
		if mode != tree.ModeTile {
			style = styleFloat
		}
		if b, ok := v.engine.Registry().Border(w).(*sim.Border); ok && b.Visible() {
			style = styleBorder
		}
		title := fmt.Sprintf(" %s [%s] ", w.WMClass(), modeLabel(w, mode))
		v.frame(proj.box(w.FrameRect()), title, style, true)
	}
	v.statusLine(cols, rows-1)
	v.driver.Show()
}

func modeLabel(w *sim.Window, m tree.Mode) string {
	switch {
	case m == tree.ModeNone:
		return "untracked"
	case w.Grabbed():
		return m.String() + " grab"
	case w.Maximized() == compositor.MaximizeBoth:
		return m.String() + " max"
	default:
		return m.String()
	}
}

func (v *View) frame(b box, title string, style tcell.Style, fill bool) {
	if fill {
		for y := b.y0 + 1; y < b.y1; y++ {
			for x := b.x0 + 1; x < b.x1; x++ {
				v.driver.SetContent(x, y, ' ', nil, tcell.StyleDefault)
			}
		}
	}
	for x := b.x0 + 1; x < b.x1; x++ {
		v.driver.SetContent(x, b.y0, '─', nil, style)
		v.driver.SetContent(x, b.y1, '─', nil, style)
	}
	for y := b.y0 + 1; y < b.y1; y++ {
		v.driver.SetContent(b.x0, y, '│', nil, style)
		v.driver.SetContent(b.x1, y, '│', nil, style)
	}
	v.driver.SetContent(b.x0, b.y0, '┌', nil, style)
	v.driver.SetContent(b.x1, b.y0, '┐', nil, style)
	v.driver.SetContent(b.x0, b.y1, '└', nil, style)
	v.driver.SetContent(b.x1, b.y1, '┘', nil, style)

	if room := b.x1 - b.x0 - 1; room > 0 {
		v.putString(b.x0+1, b.y0, runewidth.Truncate(title, room, "…"), style)
	}
}

func (v *View) statusLine(cols, y int) {
	for x := 0; x < cols; x++ {
		v.driver.SetContent(x, y, ' ', nil, styleStatus)
	}
	frozen := ""
	if v.engine.Scheduler().Frozen() {
		frozen = "  FROZEN"
	}
	text := fmt.Sprintf(" ws %d/%d  windows %d  renders %d%s  %s",
		v.comp.ActiveWorkspace()+1, v.comp.WorkspaceCount(),
		len(v.engine.Tree().Windows()), v.engine.Renders(), frozen, v.status)
	v.putString(0, y, runewidth.Truncate(text, cols, "…"), styleStatus)
}

func (v *View) putString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.driver.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
