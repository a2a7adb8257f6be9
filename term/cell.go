// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/cell.go
// Summary: Cell, Row and style types for the terminal screen model.
// Usage: Shared by the grid, scrollback, selection, search and renderers.
// Notes: A wide cell is always followed by a continuation placeholder.

package term

import "github.com/mattn/go-runewidth"

// Attribute is a bitmask of text styling flags.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrReverse
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a&AttrBold != 0 {
		parts = append(parts, "bold")
	}
	if a&AttrItalic != 0 {
		parts = append(parts, "italic")
	}
	if a&AttrUnderline != 0 {
		parts = append(parts, "underline")
	}
	if a&AttrStrikethrough != 0 {
		parts = append(parts, "strikethrough")
	}
	if a&AttrReverse != 0 {
		parts = append(parts, "reverse")
	}
	result := parts[0]
	for i := 1; i < len(parts); i++ {
		result += "|" + parts[i]
	}
	return result
}

// ColorMode defines the type of color stored.
type ColorMode int

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The 16 basic ANSI colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // 24-bit "true" color
)

// Color represents a color in potentially different modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Palette index for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Channel values for RGB mode
}

// Predefined default colors for convenience.
var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// Cell represents a single character cell on the screen.
//
// A cell holds a base rune plus any combining marks attached to it, so a
// grapheme cluster always lives in one cell. Width is 1 or 2 columns; the
// column to the right of a width-2 cell holds a continuation placeholder
// (Width 0, Rune 0) that carries no content of its own.
type Cell struct {
	Rune      rune
	Combining []rune
	Width     int
	FG        Color
	BG        Color
	Attr      Attribute
}

// IsContinuation reports whether this cell is the placeholder that follows a
// wide cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Text returns the cell's codepoints as a string. Continuation placeholders
// yield the empty string.
func (c Cell) Text() string {
	if c.IsContinuation() || c.Rune == 0 {
		return ""
	}
	if len(c.Combining) == 0 {
		return string(c.Rune)
	}
	return string(c.Rune) + string(c.Combining)
}

// blankCell returns an empty cell painted with the given colors.
func blankCell(fg, bg Color) Cell {
	return Cell{Rune: ' ', Width: 1, FG: fg, BG: bg}
}

// continuationCell returns the placeholder stored to the right of a wide cell.
func continuationCell(fg, bg Color) Cell {
	return Cell{Width: 0, FG: fg, BG: bg}
}

// runeDisplayWidth classifies a codepoint's column width: 0 for combining
// marks, 2 for wide CJK/emoji, 1 otherwise.
func runeDisplayWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Row is one screen line: exactly cols cells plus the soft-wrap flag.
//
// Wrapped means this row is a continuation of the previous row (the previous
// row overflowed into it). The flag travels with the row verbatim when it is
// retired into scrollback; history is never reflowed.
type Row struct {
	Cells   []Cell
	Wrapped bool
}

// newRow allocates a row of blank cells painted with the given colors.
func newRow(cols int, fg, bg Color) Row {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = blankCell(fg, bg)
	}
	return Row{Cells: cells}
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	cells := make([]Cell, len(r.Cells))
	copy(cells, r.Cells)
	for i := range cells {
		if len(cells[i].Combining) > 0 {
			cc := make([]rune, len(cells[i].Combining))
			copy(cc, cells[i].Combining)
			cells[i].Combining = cc
		}
	}
	return Row{Cells: cells, Wrapped: r.Wrapped}
}
