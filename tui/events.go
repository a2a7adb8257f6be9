// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/events.go
// Summary: Translate tcell input events into engine commands.
// Usage: The event loop feeds every tcell event through Dispatcher.Handle.

package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/emberterm/ember/term"
)

// multiClickWindow is how close together clicks must land to count as a
// double or triple click.
const multiClickWindow = 400 * time.Millisecond

// Dispatcher routes input events to the engine and tracks multi-click and
// drag state. Copy is invoked on the copy shortcut with the selected text.
type Dispatcher struct {
	engine *term.Engine

	// Copy receives selected text on Ctrl+Shift+C. Optional.
	Copy func(string)
	// RequestPaste is called on the paste shortcut so the front-end can fetch
	// the clipboard (tcell delivers terminal pastes as EventPaste already).
	RequestPaste func()

	clickCount int
	lastClick  time.Time
	lastX      int
	lastY      int
	dragging   bool

	pasting  bool
	pasteBuf []rune
}

// NewDispatcher creates a dispatcher for the engine.
func NewDispatcher(engine *term.Engine) *Dispatcher {
	return &Dispatcher{engine: engine}
}

// Handle processes one tcell event. It returns false when the application
// should quit (the screen was closed beneath us).
func (d *Dispatcher) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		d.handleKey(ev)
	case *tcell.EventMouse:
		d.handleMouse(ev)
	case *tcell.EventPaste:
		if ev.Start() {
			d.pasting = true
			d.pasteBuf = d.pasteBuf[:0]
		} else {
			d.pasting = false
			d.engine.Paste(string(d.pasteBuf))
			d.pasteBuf = nil
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		if w > 0 && h > 0 {
			d.engine.Resize(h, w)
		}
	}
	return true
}

// handleKey encodes a key press for the child, intercepting the local
// copy/paste shortcuts.
func (d *Dispatcher) handleKey(ev *tcell.EventKey) {
	if d.pasting {
		// tcell reports paste content as key events between the markers.
		if ev.Key() == tcell.KeyRune {
			d.pasteBuf = append(d.pasteBuf, ev.Rune())
		} else if ev.Key() == tcell.KeyEnter {
			d.pasteBuf = append(d.pasteBuf, '\n')
		}
		return
	}

	mods := translateMods(ev.Modifiers())
	if mods&(term.ModCtrl|term.ModShift) == term.ModCtrl|term.ModShift {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			if d.Copy != nil {
				if text := d.engine.CopyText(); text != "" {
					d.Copy(text)
					return
				}
			}
		case tcell.KeyCtrlV:
			if d.RequestPaste != nil {
				d.RequestPaste()
				return
			}
		}
	}

	key, r, ok := translateKey(ev)
	if !ok {
		return
	}
	d.engine.KeyPress(key, r, mods)
}

// handleMouse routes wheel movement to scrolling and buttons to selection.
func (d *Dispatcher) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		d.engine.ScrollDelta(1, 0)
	case buttons&tcell.WheelDown != 0:
		d.engine.ScrollDelta(-1, 0)
	case buttons&tcell.Button1 != 0:
		if !d.dragging {
			now := ev.When()
			if now.Sub(d.lastClick) < multiClickWindow && x == d.lastX && y == d.lastY {
				d.clickCount++
			} else {
				d.clickCount = 1
			}
			d.lastClick = now
			d.lastX, d.lastY = x, y
			d.dragging = true
			d.engine.PointerDown(x, y, d.clickCount)
		} else {
			d.engine.PointerDrag(x, y)
		}
	default:
		if d.dragging {
			d.dragging = false
			d.engine.PointerUp(x, y)
		}
	}
}

// translateMods converts tcell's modifier mask.
func translateMods(m tcell.ModMask) term.Modifiers {
	var mods term.Modifiers
	if m&tcell.ModShift != 0 {
		mods |= term.ModShift
	}
	if m&tcell.ModAlt != 0 {
		mods |= term.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mods |= term.ModCtrl
	}
	return mods
}

// translateKey maps a tcell key event onto the engine's key vocabulary.
func translateKey(ev *tcell.EventKey) (term.Key, rune, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return term.KeyRune, ev.Rune(), true
	case tcell.KeyUp:
		return term.KeyUp, 0, true
	case tcell.KeyDown:
		return term.KeyDown, 0, true
	case tcell.KeyRight:
		return term.KeyRight, 0, true
	case tcell.KeyLeft:
		return term.KeyLeft, 0, true
	case tcell.KeyHome:
		return term.KeyHome, 0, true
	case tcell.KeyEnd:
		return term.KeyEnd, 0, true
	case tcell.KeyInsert:
		return term.KeyInsert, 0, true
	case tcell.KeyDelete:
		return term.KeyDelete, 0, true
	case tcell.KeyPgUp:
		return term.KeyPgUp, 0, true
	case tcell.KeyPgDn:
		return term.KeyPgDn, 0, true
	case tcell.KeyEnter:
		return term.KeyEnter, 0, true
	case tcell.KeyTab:
		return term.KeyTab, 0, true
	case tcell.KeyBacktab:
		return term.KeyBacktab, 0, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return term.KeyBackspace, 0, true
	case tcell.KeyEscape:
		return term.KeyEscape, 0, true
	case tcell.KeyF1:
		return term.KeyF1, 0, true
	case tcell.KeyF2:
		return term.KeyF2, 0, true
	case tcell.KeyF3:
		return term.KeyF3, 0, true
	case tcell.KeyF4:
		return term.KeyF4, 0, true
	case tcell.KeyF5:
		return term.KeyF5, 0, true
	case tcell.KeyF6:
		return term.KeyF6, 0, true
	case tcell.KeyF7:
		return term.KeyF7, 0, true
	case tcell.KeyF8:
		return term.KeyF8, 0, true
	case tcell.KeyF9:
		return term.KeyF9, 0, true
	case tcell.KeyF10:
		return term.KeyF10, 0, true
	case tcell.KeyF11:
		return term.KeyF11, 0, true
	case tcell.KeyF12:
		return term.KeyF12, 0, true
	}
	// Ctrl-letter combinations arrive as dedicated tcell keys in the C0
	// range; forward them as control runes.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return term.KeyRune, rune('a' + (rune(k) - rune(tcell.KeyCtrlA))), true
	}
	return 0, 0, false
}
