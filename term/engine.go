// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/engine.go
// Summary: TerminalEngine: single-writer orchestrator over grid, scrollback,
//          viewport, selection and search.
// Usage: Feed shell bytes via Write; drive input as commands; render from
//        Snapshot.
// Notes: One mutex guards all state. Bytes from one session must be written
//        from one goroutine so escape sequences are never torn.

package term

import (
	"io"
	"sync"
)

// Engine owns the terminal state and is its only writer. Collaborators hold
// the engine by reference: the PTY reader calls Write, the input layer calls
// the command methods, the renderer takes Snapshots.
type Engine struct {
	mu sync.RWMutex

	grid       *Grid
	scrollback *ScrollbackStore
	viewport   *ViewportController
	selection  *SelectionEngine
	search     *SearchEngine
	parser     *Parser

	lastClickCount int

	output func([]byte)

	// OnTitleChanged fires when the child sets the window title.
	OnTitleChanged func(string)
	// OnClipboardWrite fires when the child pushes text via OSC 52.
	OnClipboardWrite func(string)
	// OnRowRetired fires for each row retired into scrollback, with a
	// monotonic sequence number and the row's plain text. Called with the
	// engine lock held; implementations must not call back in.
	OnRowRetired func(seq int64, text string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets the sink for encoded input bytes and query responses,
// normally the PTY writer.
func WithOutput(fn func([]byte)) Option {
	return func(e *Engine) { e.output = fn }
}

// WithScrollbackCapacity bounds the retained history in rows.
func WithScrollbackCapacity(capacity int) Option {
	return func(e *Engine) {
		e.scrollback = NewScrollbackStore(capacity)
	}
}

// WithScrollPhysics overrides the viewport inertia constants.
func WithScrollPhysics(gain, friction, stop float64) Option {
	return func(e *Engine) { e.viewport.SetPhysics(gain, friction, stop) }
}

// NewEngine creates an engine with a rows×cols grid.
func NewEngine(rows, cols int, opts ...Option) (*Engine, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadDimensions
	}
	e := &Engine{
		scrollback: NewScrollbackStore(DefaultScrollbackCapacity),
		viewport:   NewViewportController(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.grid = NewGrid(rows, cols, e.scrollback)
	e.parser = NewParser(e.grid)
	reader := &engineReader{e: e}
	e.selection = NewSelectionEngine(reader)
	e.search = NewSearchEngine(reader)

	e.grid.Respond = func(b []byte) { e.send(b) }
	e.grid.TitleChanged = func(t string) {
		if e.OnTitleChanged != nil {
			e.OnTitleChanged(t)
		}
	}
	e.grid.OnClipboard = func(s string) {
		if e.OnClipboardWrite != nil {
			e.OnClipboardWrite(s)
		}
	}
	e.grid.OnScreenCleared = func() {
		e.selection.Clear()
		e.viewport.Clamp(e.maxOffset())
	}
	e.grid.OnAltScreenChange = func(bool) {
		e.selection.Clear()
		e.viewport.ScrollToBottom()
	}
	return e, nil
}

var _ io.Writer = (*Engine)(nil)

// Write feeds raw shell output into the parser and grid. Chunks may split
// characters and escape sequences arbitrarily; parser state persists across
// calls. Write never fails: malformed input degrades, it does not error.
func (e *Engine) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.scrollback.TotalPushed()
	e.parser.Parse(p)
	retired := int(e.scrollback.TotalPushed() - before)
	// A viewport scrolled into history stays anchored on the same rows while
	// new output retires lines beneath it (until eviction pushes them out).
	if retired > 0 && (e.viewport.Offset() > 0 || e.viewport.SubRow() > 0) {
		e.viewport.ScrollBy(retired, 0, e.maxOffset())
	}
	if retired > 0 && e.OnRowRetired != nil {
		pushed := e.scrollback.TotalPushed()
		for seq := before; seq < pushed; seq++ {
			idx := e.scrollback.Len() - int(pushed-seq)
			row, err := e.scrollback.Get(idx)
			if err != nil {
				continue // retired and already evicted within this chunk
			}
			e.OnRowRetired(seq, ExtractText(row.Cells))
		}
	}
	return len(p), nil
}

// send writes bytes toward the PTY collaborator.
func (e *Engine) send(b []byte) {
	if e.output != nil && len(b) > 0 {
		e.output(b)
	}
}

// maxOffset is how far the viewport can scroll into history.
func (e *Engine) maxOffset() int {
	if e.grid.InAltScreen() {
		return 0
	}
	return e.scrollback.Len()
}

// topIndex is the combined-space index of the viewport's top visible row.
func (e *Engine) topIndex() int {
	return e.scrollback.Len() - e.viewport.Offset()
}

// Resize applies new dimensions synchronously: any partially parsed escape
// sequence is preserved, but the grid resizes before any further bytes are
// processed. Resizing to non-positive dimensions is a contract violation
// surfaced to the caller.
func (e *Engine) Resize(rows, cols int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.grid.Resize(rows, cols); err != nil {
		return err
	}
	e.selection.Clear()
	e.viewport.Clamp(e.maxOffset())
	return nil
}

// Size returns the grid dimensions.
func (e *Engine) Size() (rows, cols int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.Rows(), e.grid.Cols()
}

// RetiredRows reports the monotonic count of rows ever retired into
// scrollback and how many of those are still retained. The difference is
// the number of rows evicted from history.
func (e *Engine) RetiredRows() (total int64, retained int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scrollback.TotalPushed(), e.scrollback.Len()
}

// --- Scrolling commands ---

// ScrollDelta applies a wheel or trackpad delta: immediate movement plus an
// inertia kick. Positive rows scroll into history. Ignored on the alternate
// screen, which has no history to scroll.
func (e *Engine) ScrollDelta(rows int, subRow float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid.InAltScreen() {
		return
	}
	e.viewport.ScrollBy(rows, subRow, e.maxOffset())
	e.viewport.Kick(float64(rows) + subRow)
}

// Tick advances viewport inertia by dt seconds (once per rendered frame)
// and reports whether another animation frame is needed. Tick(0) is a no-op.
func (e *Engine) Tick(dt float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport.Step(dt, e.maxOffset())
}

// ScrollToBottom sticks the viewport back to the live edge.
func (e *Engine) ScrollToBottom() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.ScrollToBottom()
}

// StuckToBottom reports whether the viewport follows new output.
func (e *Engine) StuckToBottom() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport.StuckToBottom()
}

// --- Pointer commands (viewport-relative coordinates) ---

// viewportCoord converts viewport-relative row/col to combined space.
func (e *Engine) viewportCoord(col, row int) Coord {
	return Coord{Line: e.topIndex() + row, Col: col}
}

// PointerDown begins a selection; clickCount 1/2/3 selects char/word/line
// granularity.
func (e *Engine) PointerDown(col, row, clickCount int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastClickCount = clickCount
	e.selection.Begin(e.viewportCoord(col, row), clickCount)
}

// PointerDrag extends the selection focus.
func (e *Engine) PointerDrag(col, row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Extend(e.viewportCoord(col, row))
}

// PointerUp finalizes the gesture. A single click that never grew past one
// cell is not a selection and clears; word and line clicks keep theirs.
func (e *Engine) PointerUp(col, row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.End()
	if e.selection.Text() == "" {
		e.selection.Clear()
		return
	}
	if e.lastClickCount == 1 {
		if start, end, ok := e.selection.Bounds(); ok && start == end {
			e.selection.Clear()
		}
	}
}

// CopyText returns the selected text, empty when nothing is selected.
func (e *Engine) CopyText() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selection.Text()
}

// ClearSelection drops the selection.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
}

// --- Keyboard and paste commands ---

// KeyPress encodes a key press per the current mode flags and writes it to
// the PTY. Any keyboard input also snaps the viewport to the live edge.
func (e *Engine) KeyPress(key Key, r rune, mods Modifiers) {
	e.mu.Lock()
	b := EncodeKey(key, r, mods, e.grid.AppCursorKeys())
	e.viewport.ScrollToBottom()
	e.mu.Unlock()
	e.send(b)
}

// Paste encodes pasted text, honoring bracketed paste mode, and writes it
// to the PTY.
func (e *Engine) Paste(text string) {
	e.mu.Lock()
	b := EncodePaste(text, e.grid.BracketedPaste())
	e.viewport.ScrollToBottom()
	e.mu.Unlock()
	e.send(b)
}

// --- Search commands ---

// SetSearchQuery recomputes matches for a case-sensitive literal query over
// the combined scrollback+grid text. The engine does not re-run the query on
// later mutations; callers re-issue it when the screen changes.
func (e *Engine) SetSearchQuery(query string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search.SetQuery(query)
	return len(e.search.Matches())
}

// SearchNext advances to the next match cyclically and scrolls it into
// view. ok is false when there are no matches; wrapped reports cycling past
// the end.
func (e *Engine) SearchNext() (m Match, wrapped, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, wrapped, ok = e.search.Next()
	if ok {
		e.revealLine(m.Start.Line)
	}
	return m, wrapped, ok
}

// SearchPrev moves to the previous match cyclically and scrolls it into view.
func (e *Engine) SearchPrev() (m Match, wrapped, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, wrapped, ok = e.search.Prev()
	if ok {
		e.revealLine(m.Start.Line)
	}
	return m, wrapped, ok
}

// revealLine scrolls the viewport the minimal distance that makes the
// combined-space line visible.
func (e *Engine) revealLine(line int) {
	top := e.topIndex()
	bottom := top + e.grid.Rows() - 1
	switch {
	case line < top:
		e.viewport.ScrollBy(top-line, 0, e.maxOffset())
	case line > bottom:
		e.viewport.ScrollBy(bottom-line, 0, e.maxOffset())
	}
}

// --- engineReader: combined coordinate space ---

// engineReader adapts the engine's state to the lineReader consumed by the
// selection and search engines. It is only used with the engine lock held.
type engineReader struct {
	e *Engine
}

func (r *engineReader) LineCount() int {
	return r.e.scrollback.Len() + r.e.grid.Rows()
}

func (r *engineReader) Line(index int) (Row, bool) {
	sb := r.e.scrollback
	if index < 0 {
		return Row{}, false
	}
	if index < sb.Len() {
		row, err := sb.Get(index)
		if err != nil {
			return Row{}, false
		}
		return row, true
	}
	gridRow := index - sb.Len()
	if gridRow >= r.e.grid.Rows() {
		return Row{}, false
	}
	return *r.e.grid.rowRef(gridRow), true
}
