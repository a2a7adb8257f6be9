// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/grid_erase.go
// Summary: Erase, insert and delete operations on cells and lines.
// Usage: Part of the grid's CSI dispatch.
// Notes: Erase fills with the current pen background and blank content.

package term

// eraseCells blanks [from, to) in the row, mending wide pairs cut at either
// boundary so a continuation never survives without its wide neighbor.
func (g *Grid) eraseCells(row *Row, from, to int) {
	if from < 0 {
		from = 0
	}
	if to > g.cols {
		to = g.cols
	}
	if from >= to {
		return
	}
	if row.Cells[from].IsContinuation() && from > 0 {
		row.Cells[from-1] = blankCell(g.penFG, g.penBG)
	}
	if to < g.cols && row.Cells[to].IsContinuation() {
		row.Cells[to] = blankCell(g.penFG, g.penBG)
	}
	for x := from; x < to; x++ {
		row.Cells[x] = blankCell(g.penFG, g.penBG)
	}
}

// EraseDisplay implements ED. Mode 0 erases cursor to end, 1 start to cursor,
// 2 the whole screen, 3 the whole screen plus scrollback. The cursor does not
// move.
func (g *Grid) EraseDisplay(mode int) {
	switch mode {
	case 0:
		g.EraseLine(0)
		for y := g.cursorY + 1; y < g.rows; y++ {
			row := g.rowRef(y)
			g.eraseCells(row, 0, g.cols)
			row.Wrapped = false
		}
	case 1:
		g.EraseLine(1)
		for y := 0; y < g.cursorY; y++ {
			row := g.rowRef(y)
			g.eraseCells(row, 0, g.cols)
			row.Wrapped = false
		}
	case 2, 3:
		for y := 0; y < g.rows; y++ {
			row := g.rowRef(y)
			g.eraseCells(row, 0, g.cols)
			row.Wrapped = false
		}
		if mode == 3 && !g.inAlt && g.scrollback != nil {
			g.scrollback.Clear()
		}
		if g.OnScreenCleared != nil {
			g.OnScreenCleared()
		}
	}
	g.markAllDirty()
}

// EraseLine implements EL. Mode 0 erases cursor to line end, 1 line start to
// cursor inclusive, 2 the whole line.
func (g *Grid) EraseLine(mode int) {
	row := g.rowRef(g.cursorY)
	switch mode {
	case 0:
		g.eraseCells(row, g.cursorX, g.cols)
	case 1:
		g.eraseCells(row, 0, g.cursorX+1)
	case 2:
		g.eraseCells(row, 0, g.cols)
	}
	g.markDirty(g.cursorY)
}

// EraseChars implements ECH: blanks n cells at the cursor without shifting.
func (g *Grid) EraseChars(n int) {
	g.eraseCells(g.rowRef(g.cursorY), g.cursorX, g.cursorX+n)
	g.markDirty(g.cursorY)
}

// InsertChars implements ICH: shifts cells at the cursor right by n, dropping
// overflow off the line end.
func (g *Grid) InsertChars(n int) {
	if g.cursorY < g.scrollTop || g.cursorY > g.scrollBottom {
		return
	}
	if n > g.cols-g.cursorX {
		n = g.cols - g.cursorX
	}
	g.insertBlanks(g.rowRef(g.cursorY), g.cursorX, n)
	g.markDirty(g.cursorY)
}

// DeleteChars implements DCH: shifts cells right of the cursor left by n,
// filling the vacated tail with blanks.
func (g *Grid) DeleteChars(n int) {
	if g.cursorY < g.scrollTop || g.cursorY > g.scrollBottom {
		return
	}
	if n > g.cols-g.cursorX {
		n = g.cols - g.cursorX
	}
	row := g.rowRef(g.cursorY)
	g.clearCellPair(row, g.cursorX)
	g.clearCellPair(row, g.cursorX+n-1)
	copy(row.Cells[g.cursorX:], row.Cells[g.cursorX+n:])
	for x := g.cols - n; x < g.cols; x++ {
		row.Cells[x] = blankCell(g.penFG, g.penBG)
	}
	if row.Cells[g.cursorX].IsContinuation() {
		row.Cells[g.cursorX] = blankCell(g.penFG, g.penBG)
	}
	g.markDirty(g.cursorY)
}

// InsertLines implements IL: inserts n blank lines at the cursor, pushing
// lines below toward the region bottom. Outside the scroll region it is a
// no-op, per the standard.
func (g *Grid) InsertLines(n int) {
	if g.cursorY < g.scrollTop || g.cursorY > g.scrollBottom {
		return
	}
	g.wrapNext = false
	if n > g.scrollBottom-g.cursorY+1 {
		n = g.scrollBottom - g.cursorY + 1
	}
	buf := g.buffer()
	for i := 0; i < n; i++ {
		copy(buf[g.cursorY+1:g.scrollBottom+1], buf[g.cursorY:g.scrollBottom])
		buf[g.cursorY] = newRow(g.cols, g.penFG, g.penBG)
	}
	g.SetCursorPos(g.cursorY, 0)
	g.markAllDirty()
}

// DeleteLines implements DL: removes n lines at the cursor, pulling lines up
// from the region bottom and blanking the vacated ones.
func (g *Grid) DeleteLines(n int) {
	if g.cursorY < g.scrollTop || g.cursorY > g.scrollBottom {
		return
	}
	g.wrapNext = false
	if n > g.scrollBottom-g.cursorY+1 {
		n = g.scrollBottom - g.cursorY + 1
	}
	buf := g.buffer()
	for i := 0; i < n; i++ {
		copy(buf[g.cursorY:g.scrollBottom], buf[g.cursorY+1:g.scrollBottom+1])
		buf[g.scrollBottom] = newRow(g.cols, g.penFG, g.penBG)
	}
	g.SetCursorPos(g.cursorY, 0)
	g.markAllDirty()
}
