// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/selection.go
// Summary: Pointer-driven selection over the combined scrollback+grid space.
// Usage: Begin on pointer-down, Extend on drag, Text to copy.
// Notes: Coordinates are combined-space; the engine converts from viewport.

package term

import "unicode"

// Coord addresses a cell in the combined scrollback+grid space. Line 0 is
// the oldest retained scrollback row.
type Coord struct {
	Line int
	Col  int
}

// Less orders coordinates in reading order: row-major, then column.
func (c Coord) Less(o Coord) bool {
	if c.Line != o.Line {
		return c.Line < o.Line
	}
	return c.Col < o.Col
}

// Granularity selects what a pointer gesture snaps to.
type Granularity int

const (
	GranularityChar Granularity = iota
	GranularityWord
	GranularityLine
)

// SelectionEngine tracks an anchor and focus coordinate plus the snapping
// granularity, and derives normalized bounds in reading order. It holds only
// a read reference into the engine's row space for the duration of a query.
type SelectionEngine struct {
	reader lineReader

	active      bool
	dragging    bool
	granularity Granularity
	// anchorStart/anchorEnd are the snapped bounds of the anchor gesture;
	// for a word double-click this is the whole word, so extending re-snaps
	// around it rather than around the raw click cell.
	anchorStart, anchorEnd Coord
	focus                  Coord
}

// NewSelectionEngine creates a selection engine over the given row space.
func NewSelectionEngine(reader lineReader) *SelectionEngine {
	return &SelectionEngine{reader: reader}
}

// Active reports whether a selection exists.
func (s *SelectionEngine) Active() bool { return s.active }

// Dragging reports whether a pointer gesture is in progress.
func (s *SelectionEngine) Dragging() bool { return s.dragging }

// Clear invalidates the selection.
func (s *SelectionEngine) Clear() {
	s.active = false
	s.dragging = false
}

// Begin starts a selection at coord. Click count selects granularity:
// 1 character, 2 word, 3 line; word and line bounds are snapped immediately.
func (s *SelectionEngine) Begin(coord Coord, clickCount int) {
	switch {
	case clickCount >= 3:
		s.granularity = GranularityLine
	case clickCount == 2:
		s.granularity = GranularityWord
	default:
		s.granularity = GranularityChar
	}
	s.anchorStart, s.anchorEnd = s.snap(coord)
	s.focus = coord
	s.active = true
	s.dragging = clickCount == 1
}

// Extend moves the focus during a drag, re-snapping per the granularity.
func (s *SelectionEngine) Extend(coord Coord) {
	if !s.active {
		return
	}
	s.focus = coord
}

// End finalizes the gesture on pointer-up.
func (s *SelectionEngine) End() {
	s.dragging = false
}

// Bounds returns the normalized selection range (start ≤ end in reading
// order, both inclusive), or ok=false when no selection exists.
func (s *SelectionEngine) Bounds() (start, end Coord, ok bool) {
	if !s.active {
		return Coord{}, Coord{}, false
	}
	fs, fe := s.snap(s.focus)
	start, end = s.anchorStart, s.anchorEnd
	if fs.Less(start) {
		start = fs
	}
	if end.Less(fe) {
		end = fe
	}
	return start, end, true
}

// snap expands a coordinate to its granularity bounds.
func (s *SelectionEngine) snap(c Coord) (Coord, Coord) {
	c = s.clampCoord(c)
	switch s.granularity {
	case GranularityWord:
		return s.wordBounds(c)
	case GranularityLine:
		return s.lineBounds(c)
	default:
		return c, c
	}
}

func (s *SelectionEngine) clampCoord(c Coord) Coord {
	if c.Line < 0 {
		c.Line = 0
	}
	if n := s.reader.LineCount(); c.Line >= n {
		c.Line = n - 1
	}
	if c.Col < 0 {
		c.Col = 0
	}
	if row, ok := s.reader.Line(c.Line); ok && c.Col >= len(row.Cells) {
		c.Col = len(row.Cells) - 1
	}
	return c
}

// isWordRune mirrors the front-end's rule: alphanumerics and underscore
// form words, everything else is a boundary.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds scans outward from c across whitespace/punctuation transitions.
// A click on a non-word cell selects just that cell.
func (s *SelectionEngine) wordBounds(c Coord) (Coord, Coord) {
	row, ok := s.reader.Line(c.Line)
	if !ok {
		return c, c
	}
	at := func(x int) rune {
		cell := row.Cells[x]
		if cell.IsContinuation() && x > 0 {
			cell = row.Cells[x-1]
		}
		return cell.Rune
	}
	if c.Col >= len(row.Cells) || !isWordRune(at(c.Col)) {
		return c, c
	}
	start, end := c.Col, c.Col
	for start > 0 && isWordRune(at(start-1)) {
		start--
	}
	for end < len(row.Cells)-1 && isWordRune(at(end+1)) {
		end++
	}
	return Coord{c.Line, start}, Coord{c.Line, end}
}

// lineBounds expands to the full logical line: the whole soft-wrap chain the
// row belongs to.
func (s *SelectionEngine) lineBounds(c Coord) (Coord, Coord) {
	first := logicalLineStart(s.reader, c.Line)
	last := logicalLineEnd(s.reader, c.Line)
	endCol := 0
	if row, ok := s.reader.Line(last); ok && len(row.Cells) > 0 {
		endCol = len(row.Cells) - 1
	}
	return Coord{first, 0}, Coord{last, endCol}
}

// Text walks the normalized range and concatenates cell text, skipping
// continuation placeholders and joining soft-wrapped rows without a
// separator. A newline is inserted at every hard row boundary.
func (s *SelectionEngine) Text() string {
	start, end, ok := s.Bounds()
	if !ok {
		return ""
	}
	return extractRange(s.reader, start, end)
}

// extractRange renders [start, end] (inclusive) of the combined space as
// plain text.
func extractRange(r lineReader, start, end Coord) string {
	var out []byte
	for line := start.Line; line <= end.Line; line++ {
		row, ok := r.Line(line)
		if !ok {
			break
		}
		from, to := 0, len(row.Cells)-1
		if line == start.Line {
			from = start.Col
		}
		if line == end.Line {
			to = end.Col
		}
		if to >= len(row.Cells) {
			to = len(row.Cells) - 1
		}
		if line > start.Line && !row.Wrapped {
			out = append(out, '\n')
		}
		if from <= to {
			out = append(out, ExtractText(row.Cells[from:to+1])...)
		}
	}
	return string(out)
}
