// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/grid_sgr.go
// Summary: SGR (Select Graphic Rendition) - pen attributes and colors.
// Usage: Part of the grid's CSI dispatch.

package term

// handleSGR processes SGR parameters into the pen applied to subsequently
// printed cells. An empty parameter list behaves as a single 0 (reset).
func (g *Grid) handleSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			g.penFG, g.penBG, g.penAttr = DefaultFG, DefaultBG, 0
		case p == 1:
			g.penAttr |= AttrBold
		case p == 3:
			g.penAttr |= AttrItalic
		case p == 4:
			g.penAttr |= AttrUnderline
		case p == 7:
			g.penAttr |= AttrReverse
		case p == 9:
			g.penAttr |= AttrStrikethrough
		case p == 22:
			g.penAttr &^= AttrBold
		case p == 23:
			g.penAttr &^= AttrItalic
		case p == 24:
			g.penAttr &^= AttrUnderline
		case p == 27:
			g.penAttr &^= AttrReverse
		case p == 29:
			g.penAttr &^= AttrStrikethrough
		case p >= 30 && p <= 37:
			g.penFG = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 38:
			if c, skip, ok := extendedColor(params[i+1:]); ok {
				g.penFG = c
				i += skip
			}
		case p == 39:
			g.penFG = DefaultFG
		case p >= 40 && p <= 47:
			g.penBG = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 48:
			if c, skip, ok := extendedColor(params[i+1:]); ok {
				g.penBG = c
				i += skip
			}
		case p == 49:
			g.penBG = DefaultBG
		case p >= 90 && p <= 97: // bright foreground
			g.penFG = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107: // bright background
			g.penBG = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		}
		i++
	}
}

// extendedColor parses the 5;n (256-color) and 2;r;g;b (truecolor) forms that
// follow SGR 38/48. Returns the color, the number of parameters consumed and
// whether the form was recognized.
func extendedColor(rest []int) (Color, int, bool) {
	if len(rest) >= 2 && rest[0] == 5 {
		return Color{Mode: ColorMode256, Value: uint8(clampByte(rest[1]))}, 2, true
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return Color{
			Mode: ColorModeRGB,
			R:    uint8(clampByte(rest[1])),
			G:    uint8(clampByte(rest[2])),
			B:    uint8(clampByte(rest[3])),
		}, 4, true
	}
	return Color{}, 0, false
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
