// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/screen.go
// Summary: tcell rendering backend: draws engine snapshots onto a terminal
//          screen with selection and search highlighting.
// Usage: Wrap a tcell.Screen with New, then Draw each frame's Snapshot.

package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/emberterm/ember/term"
)

// UI renders engine snapshots on a tcell screen. It implements term.Backend.
type UI struct {
	screen tcell.Screen
}

// New initializes a tcell screen with mouse and bracketed paste enabled.
func New() (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnablePaste()
	screen.SetStyle(tcell.StyleDefault)
	return &UI{screen: screen}, nil
}

// NewWithScreen wraps an existing (possibly simulated) tcell screen.
func NewWithScreen(screen tcell.Screen) *UI {
	return &UI{screen: screen}
}

// Screen exposes the underlying tcell screen for the event loop.
func (u *UI) Screen() tcell.Screen { return u.screen }

// Size returns the current terminal dimensions as rows, cols.
func (u *UI) Size() (rows, cols int) {
	w, h := u.screen.Size()
	return h, w
}

// Fini restores the terminal.
func (u *UI) Fini() { u.screen.Fini() }

var _ term.Backend = (*UI)(nil)

// Draw paints one snapshot. Highlight spans tint cell backgrounds; the
// cursor is shown only when the snapshot says it is visible.
func (u *UI) Draw(snap *term.Snapshot) error {
	type tintKey struct{ row, col int }
	type tint struct {
		color tcell.Color
		t     float64
	}
	tints := make(map[tintKey]tint)
	for _, sp := range snap.Selection {
		for x := sp.StartCol; x <= sp.EndCol; x++ {
			tints[tintKey{sp.Row, x}] = tint{selectionTint, selectionBlend}
		}
	}
	for i, sp := range snap.Search {
		blend := searchBlend
		if i == snap.CurrentSearch {
			blend = currentSearchBlend
		}
		for x := sp.StartCol; x <= sp.EndCol; x++ {
			tints[tintKey{sp.Row, x}] = tint{searchTint, blend}
		}
	}

	for y, row := range snap.Lines {
		for x := 0; x < len(row.Cells); x++ {
			cell := row.Cells[x]
			if cell.IsContinuation() {
				continue
			}
			st := cellStyle(cell)
			if tn, ok := tints[tintKey{y, x}]; ok {
				st = highlightStyle(st, tn.color, tn.t)
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			u.screen.SetContent(x, y, r, cell.Combining, st)
		}
	}

	if snap.CursorVisible {
		u.screen.ShowCursor(snap.CursorX, snap.CursorY)
	} else {
		u.screen.HideCursor()
	}
	u.screen.Show()
	return nil
}
