// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/grid.go
// Summary: Screen model: cell matrix, cursor, modes, scrolling, resize.
// Usage: Mutated exclusively by the TerminalEngine via Performer dispatch.
// Notes: Cursor and continuation invariants are maintained by construction
//        in the single placement/erase paths, never repaired after the fact.

package term

import (
	"errors"
	"log"
)

// DefaultScrollbackCapacity is the number of retired rows kept when the
// caller does not configure a capacity.
const DefaultScrollbackCapacity = 10000

// ErrBadDimensions is returned when a caller resizes to a non-positive size.
var ErrBadDimensions = errors.New("term: rows and cols must be positive")

type savedCursor struct {
	x, y int
}

// Grid models the visible screen: a rows×cols matrix of Rows for the primary
// and alternate buffers, the cursor, the pen, the scroll region and the mode
// flags. Rows that scroll off the top of the primary screen retire into the
// ScrollbackStore; the alternate screen never touches scrollback.
type Grid struct {
	rows, cols int

	main  []Row
	alt   []Row
	inAlt bool

	cursorX, cursorY int
	cursorVisible    bool
	savedMain        savedCursor
	savedAlt         savedCursor
	wrapNext         bool

	penFG, penBG Color
	penAttr      Attribute

	scrollTop, scrollBottom int // inclusive region bounds
	originMode              bool
	autoWrap                bool
	insertMode              bool
	appCursorKeys           bool
	bracketedPaste          bool
	tabStops                map[int]bool
	lastGraphic             rune

	scrollback *ScrollbackStore

	dirty       map[int]bool
	allDirty    bool
	prevCursorY int

	title string

	// Collaborator callbacks. All optional.
	Respond                func([]byte) // answers to queries (DSR, DA) headed for the PTY
	TitleChanged           func(string)
	OnScreenCleared        func()
	OnAltScreenChange      func(bool)
	OnBracketedPasteChange func(bool)
	OnClipboard            func(string)
}

// NewGrid creates a grid of the given dimensions backed by the scrollback
// store. The store may be shared with the engine but has exactly one writer.
func NewGrid(rows, cols int, scrollback *ScrollbackStore) *Grid {
	g := &Grid{
		rows:          rows,
		cols:          cols,
		cursorVisible: true,
		autoWrap:      true,
		scrollTop:     0,
		scrollBottom:  rows - 1,
		penFG:         DefaultFG,
		penBG:         DefaultBG,
		tabStops:      make(map[int]bool),
		scrollback:    scrollback,
		dirty:         make(map[int]bool),
		allDirty:      true,
	}
	g.main = make([]Row, rows)
	for i := range g.main {
		g.main[i] = newRow(cols, DefaultFG, DefaultBG)
	}
	for i := 0; i < cols; i += 8 {
		g.tabStops[i] = true
	}
	return g
}

// Rows returns the grid height.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the grid width.
func (g *Grid) Cols() int { return g.cols }

// Cursor returns the cursor column and row.
func (g *Grid) Cursor() (x, y int) { return g.cursorX, g.cursorY }

// CursorVisible reports whether the cursor should be drawn.
func (g *Grid) CursorVisible() bool { return g.cursorVisible }

// InAltScreen reports whether the alternate buffer is active.
func (g *Grid) InAltScreen() bool { return g.inAlt }

// AppCursorKeys reports whether application cursor key mode is set.
func (g *Grid) AppCursorKeys() bool { return g.appCursorKeys }

// BracketedPaste reports whether bracketed paste mode is set.
func (g *Grid) BracketedPaste() bool { return g.bracketedPaste }

// Title returns the window title set via OSC 0/2.
func (g *Grid) Title() string { return g.title }

// buffer returns the active screen buffer.
func (g *Grid) buffer() []Row {
	if g.inAlt {
		return g.alt
	}
	return g.main
}

// RowCopy returns a deep copy of visible row y, or a zero Row out of range.
func (g *Grid) RowCopy(y int) Row {
	if y < 0 || y >= g.rows {
		return Row{}
	}
	return g.buffer()[y].Clone()
}

// rowRef returns the addressable visible row y.
func (g *Grid) rowRef(y int) *Row {
	return &g.buffer()[y]
}

// --- Performer: printing and control codes ---

// Print places a printable codepoint at the cursor, handling pending wrap,
// combining marks, wide characters and insert mode.
func (g *Grid) Print(r rune) {
	width := runeDisplayWidth(r)
	if width == 0 {
		g.attachCombining(r)
		return
	}
	if width == 2 && g.cols < 2 {
		return
	}
	g.lastGraphic = r

	if g.wrapNext && g.autoWrap {
		g.wrapToNextRow()
	}
	// A wide character that does not fit in the remaining columns wraps
	// early (or, with autowrap off, is dropped and the stale cell blanked).
	if width == 2 && g.cursorX == g.cols-1 {
		if g.autoWrap {
			g.wrapToNextRow()
		} else {
			g.clearCellPair(g.rowRef(g.cursorY), g.cursorX)
			return
		}
	}

	row := g.rowRef(g.cursorY)
	if g.insertMode {
		g.insertBlanks(row, g.cursorX, width)
	}
	g.clearCellPair(row, g.cursorX)
	if width == 2 {
		g.clearCellPair(row, g.cursorX+1)
	}
	row.Cells[g.cursorX] = Cell{Rune: r, Width: width, FG: g.penFG, BG: g.penBG, Attr: g.penAttr}
	if width == 2 {
		row.Cells[g.cursorX+1] = continuationCell(g.penFG, g.penBG)
	}
	g.markDirty(g.cursorY)

	if g.cursorX+width >= g.cols {
		g.cursorX = g.cols - 1
		g.wrapNext = true
	} else {
		g.cursorX += width
	}
}

// attachCombining appends a zero-width mark to the most recently printed cell.
func (g *Grid) attachCombining(r rune) {
	x, y := g.cursorX, g.cursorY
	if !g.wrapNext {
		x--
	}
	if x < 0 {
		// Start of row: attach to the end of the previous row if this row is
		// a soft-wrap continuation, otherwise there is nothing to combine with.
		if y > 0 && g.buffer()[y].Wrapped {
			y--
			x = g.cols - 1
		} else {
			return
		}
	}
	row := g.rowRef(y)
	if row.Cells[x].IsContinuation() && x > 0 {
		x--
	}
	if row.Cells[x].Rune == 0 {
		return
	}
	row.Cells[x].Combining = append(row.Cells[x].Combining, r)
	g.markDirty(y)
}

// wrapToNextRow moves to column 0 of the next row and marks that row as a
// soft-wrap continuation.
func (g *Grid) wrapToNextRow() {
	g.wrapNext = false
	g.cursorX = 0
	g.LineFeed()
	g.rowRef(g.cursorY).Wrapped = true
}

// insertBlanks shifts cells at and right of x by n within the row, dropping
// overflow off the line end and filling the gap with blanks.
func (g *Grid) insertBlanks(row *Row, x, n int) {
	if x >= g.cols {
		return
	}
	// A continuation at the insert point is severed from its wide start by
	// the shift; mend both halves. A wide start shifts intact with its
	// continuation, so it needs no mend — and a plain cell must survive to
	// be shifted, never blanked here.
	if row.Cells[x].IsContinuation() && x > 0 {
		row.Cells[x-1] = blankCell(g.penFG, g.penBG)
		row.Cells[x] = blankCell(g.penFG, g.penBG)
	}
	copy(row.Cells[x+n:], row.Cells[x:])
	for i := x; i < x+n && i < g.cols; i++ {
		row.Cells[i] = blankCell(g.penFG, g.penBG)
	}
	// The shift may have cut a wide pair at the right edge or left a
	// continuation with no wide neighbor at the insert point.
	if row.Cells[g.cols-1].Width == 2 {
		row.Cells[g.cols-1] = blankCell(g.penFG, g.penBG)
	}
	if x+n < g.cols && row.Cells[x+n].IsContinuation() {
		row.Cells[x+n] = blankCell(g.penFG, g.penBG)
	}
}

// clearCellPair blanks the cell at x together with the partner that makes it
// part of a wide pair, keeping the continuation invariant intact.
func (g *Grid) clearCellPair(row *Row, x int) {
	if x < 0 || x >= g.cols {
		return
	}
	c := row.Cells[x]
	if c.Width == 2 && x+1 < g.cols && row.Cells[x+1].IsContinuation() {
		row.Cells[x+1] = blankCell(g.penFG, g.penBG)
	}
	if c.IsContinuation() && x > 0 && row.Cells[x-1].Width == 2 {
		row.Cells[x-1] = blankCell(g.penFG, g.penBG)
	}
	row.Cells[x] = blankCell(g.penFG, g.penBG)
}

// Execute handles a C0 control code.
func (g *Grid) Execute(b byte) {
	switch b {
	case '\r':
		g.CarriageReturn()
	case '\n', '\v', '\f':
		g.LineFeed()
	case '\b':
		g.Backspace()
	case '\t':
		g.Tab()
	case 0x07: // BEL
	case 0x0e, 0x0f: // SO/SI charset shifts
	case 0x00, 0x7f: // NUL and DEL are ignored fill characters
	default:
		log.Printf("grid: unhandled control code %#02x", b)
	}
}

// --- Cursor movement ---

// SetCursorPos moves the cursor, clamping to screen bounds.
func (g *Grid) SetCursorPos(y, x int) {
	if x < 0 {
		x = 0
	}
	if x >= g.cols {
		x = g.cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= g.rows {
		y = g.rows - 1
	}
	if y != g.cursorY || x != g.cursorX {
		g.wrapNext = false
	}
	g.prevCursorY = g.cursorY
	g.cursorX, g.cursorY = x, y
	g.markDirty(g.prevCursorY)
	g.markDirty(g.cursorY)
}

// moveCursorOrigin addresses the cursor in origin-mode-aware coordinates:
// with DECOM set, row 0 is the top of the scroll region and movement is
// clamped inside it.
func (g *Grid) moveCursorOrigin(y, x int) {
	if g.originMode {
		y += g.scrollTop
		if y > g.scrollBottom {
			y = g.scrollBottom
		}
	}
	g.SetCursorPos(y, x)
}

// CarriageReturn moves the cursor to column 0.
func (g *Grid) CarriageReturn() {
	g.SetCursorPos(g.cursorY, 0)
	g.wrapNext = false
}

// Backspace moves the cursor one column left, stopping at column 0.
func (g *Grid) Backspace() {
	g.wrapNext = false
	if g.cursorX > 0 {
		g.SetCursorPos(g.cursorY, g.cursorX-1)
	}
}

// Tab advances to the next tab stop, or the last column.
func (g *Grid) Tab() {
	g.wrapNext = false
	for x := g.cursorX + 1; x < g.cols; x++ {
		if g.tabStops[x] {
			g.SetCursorPos(g.cursorY, x)
			return
		}
	}
	g.SetCursorPos(g.cursorY, g.cols-1)
}

// TabForward (CHT) moves forward n tab stops.
func (g *Grid) TabForward(n int) {
	for i := 0; i < n; i++ {
		g.Tab()
	}
}

// TabBackward (CBT) moves backward n tab stops.
func (g *Grid) TabBackward(n int) {
	g.wrapNext = false
	for i := 0; i < n; i++ {
		moved := false
		for x := g.cursorX - 1; x >= 0; x-- {
			if g.tabStops[x] {
				g.SetCursorPos(g.cursorY, x)
				moved = true
				break
			}
		}
		if !moved {
			g.SetCursorPos(g.cursorY, 0)
			return
		}
	}
}

// LineFeed moves the cursor down one line, scrolling the region when the
// cursor sits on its bottom row.
func (g *Grid) LineFeed() {
	g.wrapNext = false
	if g.cursorY == g.scrollBottom {
		g.ScrollUp(1)
	} else if g.cursorY < g.rows-1 {
		g.SetCursorPos(g.cursorY+1, g.cursorX)
	}
	g.markDirty(g.cursorY)
}

// Index (IND) is LineFeed under its ESC name.
func (g *Grid) Index() { g.LineFeed() }

// NextLine (NEL) is LineFeed plus carriage return.
func (g *Grid) NextLine() {
	g.LineFeed()
	g.CarriageReturn()
}

// ReverseIndex (RI) moves the cursor up, scrolling down at the region top.
func (g *Grid) ReverseIndex() {
	g.wrapNext = false
	if g.cursorY == g.scrollTop {
		g.ScrollDown(1)
	} else if g.cursorY > 0 {
		g.SetCursorPos(g.cursorY-1, g.cursorX)
	}
}

// --- Region scrolling ---

// ScrollUp shifts the scroll region up by n rows. When the region spans the
// full primary screen, the rows leaving the top retire into scrollback; in
// the alternate screen or a partial region they are discarded.
func (g *Grid) ScrollUp(n int) {
	if n <= 0 {
		return
	}
	g.wrapNext = false
	buf := g.buffer()
	retire := !g.inAlt && g.scrollTop == 0 && g.scrollBottom == g.rows-1
	for i := 0; i < n; i++ {
		if retire && g.scrollback != nil {
			g.scrollback.Push(buf[g.scrollTop])
		}
		copy(buf[g.scrollTop:g.scrollBottom], buf[g.scrollTop+1:g.scrollBottom+1])
		buf[g.scrollBottom] = newRow(g.cols, g.penFG, g.penBG)
	}
	g.markAllDirty()
}

// ScrollDown shifts the scroll region down by n rows, discarding rows that
// leave the bottom. Nothing enters scrollback.
func (g *Grid) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	g.wrapNext = false
	buf := g.buffer()
	for i := 0; i < n; i++ {
		copy(buf[g.scrollTop+1:g.scrollBottom+1], buf[g.scrollTop:g.scrollBottom])
		buf[g.scrollTop] = newRow(g.cols, g.penFG, g.penBG)
	}
	g.markAllDirty()
}

// SetScrollRegion sets the scroll region from 1-based CSI parameters.
// Out-of-order or out-of-range bounds reset to the full screen, matching
// DECSTBM. The cursor homes per the standard.
func (g *Grid) SetScrollRegion(top, bottom int) {
	top--
	bottom--
	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom >= g.rows {
		bottom = g.rows - 1
	}
	if top >= bottom {
		top, bottom = 0, g.rows-1
	}
	g.scrollTop, g.scrollBottom = top, bottom
	g.moveCursorOrigin(0, 0)
}

// --- Save/restore, reset, alternate screen ---

// SaveCursor records the cursor for the active screen (DECSC).
func (g *Grid) SaveCursor() {
	if g.inAlt {
		g.savedAlt = savedCursor{g.cursorX, g.cursorY}
	} else {
		g.savedMain = savedCursor{g.cursorX, g.cursorY}
	}
}

// RestoreCursor restores the cursor for the active screen (DECRC).
func (g *Grid) RestoreCursor() {
	g.wrapNext = false
	if g.inAlt {
		g.SetCursorPos(g.savedAlt.y, g.savedAlt.x)
	} else {
		g.SetCursorPos(g.savedMain.y, g.savedMain.x)
	}
}

// EnterAltScreen switches to a fresh scrollback-exempt buffer of identical
// dimensions, preserving the primary grid and its cursor untouched.
func (g *Grid) EnterAltScreen() {
	if g.inAlt {
		return
	}
	g.savedMain = savedCursor{g.cursorX, g.cursorY}
	g.alt = make([]Row, g.rows)
	for i := range g.alt {
		g.alt[i] = newRow(g.cols, DefaultFG, DefaultBG)
	}
	g.inAlt = true
	g.SetCursorPos(0, 0)
	g.markAllDirty()
	if g.OnAltScreenChange != nil {
		g.OnAltScreenChange(true)
	}
}

// ExitAltScreen restores the primary grid content and cursor exactly as they
// were before the switch.
func (g *Grid) ExitAltScreen() {
	if !g.inAlt {
		return
	}
	g.inAlt = false
	g.alt = nil
	g.SetCursorPos(g.savedMain.y, g.savedMain.x)
	g.markAllDirty()
	if g.OnAltScreenChange != nil {
		g.OnAltScreenChange(false)
	}
}

// Reset (RIS) brings the terminal back to its initial state. Scrollback is
// preserved; everything else resets.
func (g *Grid) Reset() {
	if g.inAlt {
		g.ExitAltScreen()
	}
	for i := range g.main {
		g.main[i] = newRow(g.cols, DefaultFG, DefaultBG)
	}
	g.penFG, g.penBG, g.penAttr = DefaultFG, DefaultBG, 0
	g.scrollTop, g.scrollBottom = 0, g.rows-1
	g.originMode = false
	g.autoWrap = true
	g.insertMode = false
	g.appCursorKeys = false
	g.setBracketedPaste(false)
	g.cursorVisible = true
	g.wrapNext = false
	g.savedMain, g.savedAlt = savedCursor{}, savedCursor{}
	g.tabStops = make(map[int]bool)
	for i := 0; i < g.cols; i += 8 {
		g.tabStops[i] = true
	}
	g.SetCursorPos(0, 0)
	g.markAllDirty()
	if g.OnScreenCleared != nil {
		g.OnScreenCleared()
	}
}

// SoftReset (DECSTR) resets modes and margins without touching screen
// content or moving the cursor.
func (g *Grid) SoftReset() {
	x, y := g.cursorX, g.cursorY
	g.insertMode = false
	g.originMode = false
	g.autoWrap = true
	g.setBracketedPaste(false)
	g.cursorVisible = true
	g.scrollTop, g.scrollBottom = 0, g.rows-1
	g.penFG, g.penBG, g.penAttr = DefaultFG, DefaultBG, 0
	g.savedMain, g.savedAlt = savedCursor{}, savedCursor{}
	g.SetCursorPos(y, x)
}

// DECALN fills the screen with E's and resets the region; the standard
// screen alignment test.
func (g *Grid) DECALN() {
	buf := g.buffer()
	for y := range buf {
		for x := range buf[y].Cells {
			buf[y].Cells[x] = Cell{Rune: 'E', Width: 1, FG: DefaultFG, BG: DefaultBG}
		}
		buf[y].Wrapped = false
	}
	g.scrollTop, g.scrollBottom = 0, g.rows-1
	g.SetCursorPos(0, 0)
	g.markAllDirty()
}

// --- Resize ---

// Resize changes the grid dimensions without reflowing content: surviving
// rows keep their cells in place, new space is padded blank, and the cursor
// and saved cursors clamp to the new bounds. The scroll region resets to the
// full screen. Scrollback is never rewritten.
func (g *Grid) Resize(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrBadDimensions
	}
	if rows == g.rows && cols == g.cols {
		return nil
	}
	g.main = resizeRows(g.main, rows, cols)
	if g.alt != nil {
		g.alt = resizeRows(g.alt, rows, cols)
	}
	g.rows, g.cols = rows, cols
	g.scrollTop, g.scrollBottom = 0, rows-1
	for i := 0; i < cols; i += 8 {
		if _, ok := g.tabStops[i]; !ok {
			g.tabStops[i] = true
		}
	}
	g.wrapNext = false
	g.clampSaved(&g.savedMain)
	g.clampSaved(&g.savedAlt)
	g.SetCursorPos(g.cursorY, g.cursorX) // clamps
	g.markAllDirty()
	return nil
}

func (g *Grid) clampSaved(s *savedCursor) {
	if s.x >= g.cols {
		s.x = g.cols - 1
	}
	if s.y >= g.rows {
		s.y = g.rows - 1
	}
}

// resizeRows truncates or pads a buffer to rows×cols. A wide pair cut by the
// new right edge is blanked rather than left half-present.
func resizeRows(buf []Row, rows, cols int) []Row {
	out := make([]Row, rows)
	for i := 0; i < rows; i++ {
		if i < len(buf) {
			row := buf[i]
			cells := make([]Cell, cols)
			n := copy(cells, row.Cells)
			for x := n; x < cols; x++ {
				cells[x] = blankCell(DefaultFG, DefaultBG)
			}
			if cols > 0 && cells[cols-1].Width == 2 {
				cells[cols-1] = blankCell(DefaultFG, DefaultBG)
			}
			if cells[0].IsContinuation() {
				cells[0] = blankCell(DefaultFG, DefaultBG)
			}
			out[i] = Row{Cells: cells, Wrapped: row.Wrapped}
		} else {
			out[i] = newRow(cols, DefaultFG, DefaultBG)
		}
	}
	return out
}

// --- Dirty tracking ---

func (g *Grid) markDirty(y int) {
	if y >= 0 && y < g.rows {
		g.dirty[y] = true
	}
}

func (g *Grid) markAllDirty() { g.allDirty = true }

// DirtyLines returns the per-row dirty set and the all-dirty flag since the
// last ClearDirty.
func (g *Grid) DirtyLines() (map[int]bool, bool) {
	return g.dirty, g.allDirty
}

// ClearDirty resets dirty tracking, keeping the cursor rows marked so
// movement and blinking always repaint.
func (g *Grid) ClearDirty() {
	g.allDirty = false
	g.dirty = make(map[int]bool)
	g.markDirty(g.prevCursorY)
	g.markDirty(g.cursorY)
}

func (g *Grid) setBracketedPaste(on bool) {
	if g.bracketedPaste == on {
		return
	}
	g.bracketedPaste = on
	if g.OnBracketedPasteChange != nil {
		g.OnBracketedPasteChange(on)
	}
}
