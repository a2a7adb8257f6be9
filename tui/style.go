// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/style.go
// Summary: Map engine cell styles onto tcell styles, with highlight blending
//          for selection and search overlays.

package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/emberterm/ember/term"
)

// Highlight blend weights: selections tint stronger than passive search
// matches, and the current match stands out most.
const (
	selectionBlend     = 0.35
	searchBlend        = 0.30
	currentSearchBlend = 0.55
)

var (
	selectionTint = tcell.NewRGBColor(0x3a, 0x6e, 0xa5)
	searchTint    = tcell.NewRGBColor(0xb5, 0x89, 0x00)
)

// toTcellColor converts an engine color to tcell's model.
func toTcellColor(c term.Color) tcell.Color {
	switch c.Mode {
	case term.ColorModeStandard:
		return tcell.PaletteColor(int(c.Value))
	case term.ColorMode256:
		return tcell.PaletteColor(int(c.Value))
	case term.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

// cellStyle builds the tcell style for a cell.
func cellStyle(cell term.Cell) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(toTcellColor(cell.FG)).
		Background(toTcellColor(cell.BG))
	if cell.Attr&term.AttrBold != 0 {
		st = st.Bold(true)
	}
	if cell.Attr&term.AttrItalic != 0 {
		st = st.Italic(true)
	}
	if cell.Attr&term.AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if cell.Attr&term.AttrStrikethrough != 0 {
		st = st.StrikeThrough(true)
	}
	if cell.Attr&term.AttrReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}

// blendColor interpolates between two colors in Lab space, which keeps the
// tint perceptually even across light and dark cells.
func blendColor(base, tint tcell.Color, t float64) tcell.Color {
	if !base.Valid() {
		// Default background: treat as black for blending purposes.
		base = tcell.ColorBlack
	}
	br, bg, bb := base.TrueColor().RGB()
	tr, tg, tb := tint.TrueColor().RGB()
	c1 := colorful.Color{R: float64(br) / 255, G: float64(bg) / 255, B: float64(bb) / 255}
	c2 := colorful.Color{R: float64(tr) / 255, G: float64(tg) / 255, B: float64(tb) / 255}
	mixed := c1.BlendLab(c2, t).Clamped()
	return tcell.NewRGBColor(int32(mixed.R*255), int32(mixed.G*255), int32(mixed.B*255))
}

// highlightStyle applies a tint to a style's background.
func highlightStyle(st tcell.Style, tint tcell.Color, t float64) tcell.Style {
	_, bg, _ := st.Decompose()
	return st.Background(blendColor(bg, tint, t))
}
