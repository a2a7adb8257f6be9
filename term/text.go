// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/text.go
// Summary: Extract plain text from rows for selection, search and copy.

package term

import (
	"strings"
	"unicode"
)

// ExtractText converts a slice of cells to plain text. Continuation
// placeholders are skipped, combining marks stay attached to their base, and
// trailing blanks are trimmed.
func ExtractText(cells []Cell) string {
	var sb strings.Builder
	sb.Grow(len(cells))
	for _, cell := range cells {
		if cell.IsContinuation() || cell.Rune == 0 {
			continue
		}
		if unicode.IsControl(cell.Rune) && cell.Rune != ' ' && cell.Rune != '\t' {
			continue
		}
		sb.WriteString(cell.Text())
	}
	return strings.TrimRight(sb.String(), " \t")
}

// lineReader is read access to the combined scrollback+grid row space.
// Line 0 is the oldest retained scrollback row; the live grid rows follow.
type lineReader interface {
	// LineCount returns the total number of combined rows.
	LineCount() int
	// Line returns the row at the combined index, false if out of range.
	Line(index int) (Row, bool)
}

// logicalLineStart walks up from index to the first row of its soft-wrap
// chain (the first row whose Wrapped flag is false).
func logicalLineStart(r lineReader, index int) int {
	for index > 0 {
		row, ok := r.Line(index)
		if !ok || !row.Wrapped {
			break
		}
		index--
	}
	return index
}

// logicalLineEnd walks down from index to the last row of its soft-wrap
// chain (the row before the next row with a clear Wrapped flag).
func logicalLineEnd(r lineReader, index int) int {
	for index < r.LineCount()-1 {
		next, ok := r.Line(index + 1)
		if !ok || !next.Wrapped {
			break
		}
		index++
	}
	return index
}
