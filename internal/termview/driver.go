// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termview/driver.go
// Summary: Screen driver abstraction over tcell.
// Usage: The sim command wraps a real terminal; tests wrap a simulation screen.

package termview

import "github.com/gdamore/tcell/v2"

// ScreenDriver is the subset of tcell.Screen the view draws through.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	HideCursor()
	Clear()
	Show()
	Sync()
	PollEvent() tcell.Event
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	GetContent(x, y int) (rune, []rune, tcell.Style, int)
}

// TcellScreenDriver adapts a tcell.Screen to the ScreenDriver interface.
type TcellScreenDriver struct {
	screen tcell.Screen
}

// NewTcellScreenDriver wraps the provided screen.
func NewTcellScreenDriver(screen tcell.Screen) *TcellScreenDriver {
	return &TcellScreenDriver{screen: screen}
}

func (d *TcellScreenDriver) Init() error {
	if err := d.screen.Init(); err != nil {
		return err
	}
	d.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	d.screen.HideCursor()
	return nil
}

func (d *TcellScreenDriver) Fini()                      { d.screen.Fini() }
func (d *TcellScreenDriver) Size() (int, int)           { return d.screen.Size() }
func (d *TcellScreenDriver) SetStyle(style tcell.Style) { d.screen.SetStyle(style) }
func (d *TcellScreenDriver) HideCursor()                { d.screen.HideCursor() }
func (d *TcellScreenDriver) Clear()                     { d.screen.Clear() }
func (d *TcellScreenDriver) Show()                      { d.screen.Show() }
func (d *TcellScreenDriver) Sync()                      { d.screen.Sync() }
func (d *TcellScreenDriver) PollEvent() tcell.Event     { return d.screen.PollEvent() }

func (d *TcellScreenDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}

func (d *TcellScreenDriver) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	return d.screen.GetContent(x, y)
}

// Underlying exposes the wrapped tcell.Screen.
func (d *TcellScreenDriver) Underlying() tcell.Screen {
	return d.screen
}
