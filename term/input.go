// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/input.go
// Summary: Encode key presses and pastes into bytes for the PTY.
// Usage: The engine encodes per current mode flags (DECCKM, bracketed paste).

package term

import "strings"

// Key identifies a non-character key. Character input travels as KeyRune
// plus the rune itself.
type Key int

const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPgUp
	KeyPgDn
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// cursorKey returns the xterm encoding of a cursor-family key, switching
// between CSI and SS3 forms per application cursor key mode.
func cursorKey(letter byte, appMode bool) []byte {
	if appMode {
		return []byte{0x1b, 'O', letter}
	}
	return []byte{0x1b, '[', letter}
}

// EncodeKey translates a key press into the byte sequence the child expects,
// honoring application cursor key mode. A nil return means the key has no
// encoding (and nothing should be written).
func EncodeKey(key Key, r rune, mods Modifiers, appCursorKeys bool) []byte {
	switch key {
	case KeyUp:
		return cursorKey('A', appCursorKeys)
	case KeyDown:
		return cursorKey('B', appCursorKeys)
	case KeyRight:
		return cursorKey('C', appCursorKeys)
	case KeyLeft:
		return cursorKey('D', appCursorKeys)
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyPgUp:
		return []byte("\x1b[5~")
	case KeyPgDn:
		return []byte("\x1b[6~")
	case KeyEnter:
		return []byte{'\r'}
	case KeyTab:
		return []byte{'\t'}
	case KeyBacktab:
		return []byte("\x1b[Z")
	case KeyBackspace:
		return []byte{0x7f}
	case KeyEscape:
		return []byte{0x1b}
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5:
		return []byte("\x1b[15~")
	case KeyF6:
		return []byte("\x1b[17~")
	case KeyF7:
		return []byte("\x1b[18~")
	case KeyF8:
		return []byte("\x1b[19~")
	case KeyF9:
		return []byte("\x1b[20~")
	case KeyF10:
		return []byte("\x1b[21~")
	case KeyF11:
		return []byte("\x1b[23~")
	case KeyF12:
		return []byte("\x1b[24~")
	case KeyRune:
		return encodeRune(r, mods)
	}
	return nil
}

func encodeRune(r rune, mods Modifiers) []byte {
	if r == 0 {
		return nil
	}
	var out []byte
	if mods&ModAlt != 0 {
		out = append(out, 0x1b)
	}
	if mods&ModCtrl != 0 && r >= '@' && r <= '~' {
		// Ctrl maps letters into the C0 range.
		return append(out, byte(r&0x1f))
	}
	return append(out, []byte(string(r))...)
}

// EncodePaste wraps pasted text in bracketed-paste markers when the child
// has enabled the mode, and strips the markers from the payload either way
// so a paste can never fake them.
func EncodePaste(text string, bracketed bool) []byte {
	text = strings.ReplaceAll(text, "\x1b[200~", "")
	text = strings.ReplaceAll(text, "\x1b[201~", "")
	if !bracketed {
		return []byte(text)
	}
	out := make([]byte, 0, len(text)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, text...)
	out = append(out, "\x1b[201~"...)
	return out
}
