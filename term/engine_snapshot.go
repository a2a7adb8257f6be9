// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/engine_snapshot.go
// Summary: Assemble a deep-copy Snapshot of the visible viewport for a
//          renderer.

package term

// Snapshot returns a deep copy of everything a renderer needs for one frame.
// The returned value shares no memory with engine state and is safe to read
// from any goroutine while the engine keeps mutating.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rows, cols := e.grid.Rows(), e.grid.Cols()
	top := e.topIndex()

	snap := &Snapshot{
		Cols:          cols,
		Rows:          rows,
		Lines:         make([]Row, rows),
		SubRow:        e.viewport.SubRow(),
		StuckToBottom: e.viewport.StuckToBottom(),
		CurrentSearch: -1,
		Title:         e.grid.Title(),
	}

	sbLen := e.scrollback.Len()
	for y := 0; y < rows; y++ {
		idx := top + y
		if idx < sbLen {
			row, err := e.scrollback.Get(idx)
			if err == nil {
				snap.Lines[y] = row.Clone()
				continue
			}
			snap.Lines[y] = newRow(cols, DefaultFG, DefaultBG)
		} else {
			snap.Lines[y] = e.grid.RowCopy(idx - sbLen)
		}
	}

	// The cursor lives on the live grid; it is only visible when the viewport
	// is at the live edge.
	cx, cy := e.grid.Cursor()
	snap.CursorX, snap.CursorY = cx, cy
	snap.CursorVisible = e.grid.CursorVisible() && e.viewport.StuckToBottom()

	if start, end, ok := e.selection.Bounds(); ok {
		snap.Selection = rangeSpans(start, end, top, rows, cols)
	}
	matches := e.search.Matches()
	current := e.search.Current()
	for i, m := range matches {
		spans := rangeSpans(m.Start, m.End, top, rows, cols)
		if i == current && len(spans) > 0 {
			snap.CurrentSearch = len(snap.Search)
		}
		snap.Search = append(snap.Search, spans...)
	}
	return snap
}

// rangeSpans converts an inclusive combined-space range into per-row spans
// clipped to the visible window, in viewport-relative coordinates.
func rangeSpans(start, end Coord, top, rows, cols int) []Span {
	var spans []Span
	for line := start.Line; line <= end.Line; line++ {
		y := line - top
		if y < 0 || y >= rows {
			continue
		}
		sp := Span{Row: y, StartCol: 0, EndCol: cols - 1}
		if line == start.Line {
			sp.StartCol = start.Col
		}
		if line == end.Line {
			sp.EndCol = end.Col
		}
		if sp.EndCol >= cols {
			sp.EndCol = cols - 1
		}
		if sp.StartCol <= sp.EndCol {
			spans = append(spans, sp)
		}
	}
	return spans
}
