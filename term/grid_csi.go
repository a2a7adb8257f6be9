// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/grid_csi.go
// Summary: CSI/ESC/OSC/DCS dispatch onto the grid's operations.
// Usage: Called by the parser through the Performer interface.
// Notes: Unknown sequences are logged and consumed, never fatal.

package term

import (
	"encoding/base64"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// CSIDispatch interprets a complete CSI sequence. Missing or zero parameters
// take the standard defaults; movement clamps to bounds rather than erroring.
func (g *Grid) CSIDispatch(final rune, params []int, intermediate rune, private bool) {
	param := func(i, def int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return def
	}

	if private {
		switch final {
		case 'h':
			g.setPrivateModes(params, true)
		case 'l':
			g.setPrivateModes(params, false)
		default:
			log.Printf("grid: unhandled private CSI ?%v%c", params, final)
		}
		return
	}

	switch intermediate {
	case 0:
	case '!':
		if final == 'p' { // DECSTR
			g.SoftReset()
		}
		return
	case ' ':
		if final == 'q' { // DECSCUSR cursor style: visual preference, ignored
			return
		}
		return
	default:
		log.Printf("grid: unhandled CSI intermediate %q final %q", intermediate, final)
		return
	}

	switch final {
	case 'A': // CUU
		g.SetCursorPos(g.cursorY-param(0, 1), g.cursorX)
	case 'B': // CUD
		g.SetCursorPos(g.cursorY+param(0, 1), g.cursorX)
	case 'C': // CUF
		g.SetCursorPos(g.cursorY, g.cursorX+param(0, 1))
	case 'D': // CUB
		g.SetCursorPos(g.cursorY, g.cursorX-param(0, 1))
	case 'E': // CNL
		g.SetCursorPos(g.cursorY+param(0, 1), 0)
	case 'F': // CPL
		g.SetCursorPos(g.cursorY-param(0, 1), 0)
	case 'G', '`': // CHA / HPA
		g.SetCursorPos(g.cursorY, param(0, 1)-1)
	case 'H', 'f': // CUP / HVP
		g.moveCursorOrigin(param(0, 1)-1, param(1, 1)-1)
	case 'I': // CHT
		g.TabForward(param(0, 1))
	case 'J': // ED
		g.EraseDisplay(firstOrZero(params))
	case 'K': // EL
		g.EraseLine(firstOrZero(params))
	case 'L': // IL
		g.InsertLines(param(0, 1))
	case 'M': // DL
		g.DeleteLines(param(0, 1))
	case 'P': // DCH
		g.DeleteChars(param(0, 1))
	case 'S': // SU
		g.ScrollUp(param(0, 1))
	case 'T': // SD
		g.ScrollDown(param(0, 1))
	case 'X': // ECH
		g.EraseChars(param(0, 1))
	case 'Z': // CBT
		g.TabBackward(param(0, 1))
	case '@': // ICH
		g.InsertChars(param(0, 1))
	case 'b': // REP
		g.repeatLastGraphic(param(0, 1))
	case 'c': // DA — identify as a VT102
		g.respond("\x1b[?6c")
	case 'd': // VPA
		g.SetCursorPos(param(0, 1)-1, g.cursorX)
	case 'e': // VPR
		g.SetCursorPos(g.cursorY+param(0, 1), g.cursorX)
	case 'g': // TBC
		g.clearTabStop(firstOrZero(params))
	case 'h':
		g.setANSIModes(params, true)
	case 'l':
		g.setANSIModes(params, false)
	case 'm':
		g.handleSGR(params)
	case 'n':
		g.deviceStatusReport(firstOrZero(params))
	case 'r': // DECSTBM
		g.SetScrollRegion(param(0, 1), param(1, g.rows))
	case 's': // SCOSC
		g.SaveCursor()
	case 'u': // SCORC
		g.RestoreCursor()
	case 't': // window manipulation: collaborator concern, ignored
	default:
		log.Printf("grid: unhandled CSI %v%c", params, final)
	}
}

func firstOrZero(params []int) int {
	if len(params) > 0 {
		return params[0]
	}
	return 0
}

// ESCDispatch interprets a non-CSI escape sequence.
func (g *Grid) ESCDispatch(intermediate, final rune) {
	if intermediate == '#' {
		if final == '8' {
			g.DECALN()
		}
		return
	}
	switch final {
	case 'c': // RIS
		g.Reset()
	case 'D': // IND
		g.Index()
	case 'E': // NEL
		g.NextLine()
	case 'H': // HTS
		g.tabStops[g.cursorX] = true
	case 'M': // RI
		g.ReverseIndex()
	case '7': // DECSC
		g.SaveCursor()
	case '8': // DECRC
		g.RestoreCursor()
	case '=', '>': // keypad modes
	default:
		log.Printf("grid: unhandled ESC %q", final)
	}
}

// repeatLastGraphic re-prints the last graphic character n times (REP).
func (g *Grid) repeatLastGraphic(n int) {
	if g.lastGraphic == 0 {
		return
	}
	for i := 0; i < n; i++ {
		g.Print(g.lastGraphic)
	}
}

func (g *Grid) clearTabStop(mode int) {
	switch mode {
	case 0:
		delete(g.tabStops, g.cursorX)
	case 3:
		g.tabStops = make(map[int]bool)
	}
}

// deviceStatusReport answers DSR queries toward the PTY.
func (g *Grid) deviceStatusReport(mode int) {
	switch mode {
	case 5: // operating status: OK
		g.respond("\x1b[0n")
	case 6: // cursor position report, origin-mode aware
		y := g.cursorY
		if g.originMode {
			y -= g.scrollTop
		}
		g.respond(fmt.Sprintf("\x1b[%d;%dR", y+1, g.cursorX+1))
	}
}

func (g *Grid) respond(s string) {
	if g.Respond != nil {
		g.Respond([]byte(s))
	}
}

// setANSIModes handles SM/RM without the private prefix.
func (g *Grid) setANSIModes(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 4: // IRM insert/replace
			g.insertMode = set
		default:
			log.Printf("grid: unhandled ANSI mode %d set=%v", mode, set)
		}
	}
}

// setPrivateModes handles DECSET/DECRST.
func (g *Grid) setPrivateModes(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 1: // DECCKM application cursor keys
			g.appCursorKeys = set
		case 6: // DECOM origin mode
			g.originMode = set
			if set {
				g.SetCursorPos(g.scrollTop, 0)
			} else {
				g.SetCursorPos(0, 0)
			}
		case 7: // DECAWM autowrap
			g.autoWrap = set
		case 12: // cursor blink: visual preference
		case 25: // DECTCEM
			g.cursorVisible = set
			g.markDirty(g.cursorY)
		case 47, 1047: // alternate screen without cursor save
			if set {
				g.EnterAltScreen()
			} else {
				g.ExitAltScreen()
			}
		case 1049: // alternate screen with cursor save
			if set {
				g.EnterAltScreen()
			} else {
				g.ExitAltScreen()
			}
		case 1000, 1002, 1003, 1004, 1006, 1015: // mouse/focus reporting: input collaborator's concern
		case 2004:
			g.setBracketedPaste(set)
		case 2026: // synchronized update: renderer concern
		default:
			log.Printf("grid: unhandled private mode ?%d set=%v", mode, set)
		}
	}
}

// OSCDispatch interprets an operating system command string.
func (g *Grid) OSCDispatch(payload string) {
	cmd, rest, _ := strings.Cut(payload, ";")
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return
	}
	switch n {
	case 0, 2: // window title
		g.title = rest
		if g.TitleChanged != nil {
			g.TitleChanged(rest)
		}
	case 52: // clipboard write: "c;<base64>"
		_, data, ok := strings.Cut(rest, ";")
		if !ok {
			return
		}
		if data == "?" { // clipboard read is not offered to the child
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return
		}
		if g.OnClipboard != nil {
			g.OnClipboard(string(decoded))
		}
	case 10, 11: // default fg/bg set/query: renderer palette concern, ignored
	case 133: // shell integration marks: not modeled
	default:
		log.Printf("grid: unhandled OSC %d", n)
	}
}

// DCSDispatch consumes a device control string. Nothing is modeled; the
// sequence is already terminated by the parser.
func (g *Grid) DCSDispatch(payload string) {
	log.Printf("grid: ignoring DCS payload of %d runes", len(payload))
}
