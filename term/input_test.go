// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/input_test.go
// Summary: Tests for key press and paste encoding.
// Usage: Run with `go test`.

package term

import (
	"bytes"
	"testing"
)

// TestCursorKeyModes verifies arrow keys switch between CSI and SS3 forms
// with application cursor key mode.
func TestCursorKeyModes(t *testing.T) {
	if got := EncodeKey(KeyUp, 0, 0, false); !bytes.Equal(got, []byte("\x1b[A")) {
		t.Errorf("normal up = %q", got)
	}
	if got := EncodeKey(KeyUp, 0, 0, true); !bytes.Equal(got, []byte("\x1bOA")) {
		t.Errorf("application up = %q", got)
	}
	// Non-cursor keys are unaffected by the mode.
	if got := EncodeKey(KeyPgUp, 0, 0, true); !bytes.Equal(got, []byte("\x1b[5~")) {
		t.Errorf("pgup = %q", got)
	}
}

// TestControlAndAltRunes verifies modifier encoding for plain characters.
func TestControlAndAltRunes(t *testing.T) {
	if got := EncodeKey(KeyRune, 'C', ModCtrl, false); !bytes.Equal(got, []byte{0x03}) {
		t.Errorf("ctrl-C = %q", got)
	}
	if got := EncodeKey(KeyRune, 'x', ModAlt, false); !bytes.Equal(got, []byte{0x1b, 'x'}) {
		t.Errorf("alt-x = %q", got)
	}
	if got := EncodeKey(KeyRune, '你', 0, false); !bytes.Equal(got, []byte("你")) {
		t.Errorf("plain multibyte = %q", got)
	}
}

// TestSpecialKeys spot-checks the fixed-sequence keys.
func TestSpecialKeys(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyEnter, "\r"},
		{KeyBackspace, "\x7f"},
		{KeyBacktab, "\x1b[Z"},
		{KeyDelete, "\x1b[3~"},
		{KeyF1, "\x1bOP"},
		{KeyF12, "\x1b[24~"},
	}
	for _, tc := range tests {
		if got := EncodeKey(tc.key, 0, 0, false); !bytes.Equal(got, []byte(tc.want)) {
			t.Errorf("key %d = %q, want %q", tc.key, got, tc.want)
		}
	}
}

// TestPasteEncoding verifies bracketed wrapping and that embedded markers in
// the pasted text are stripped so a paste cannot fake a terminator.
func TestPasteEncoding(t *testing.T) {
	if got := EncodePaste("hello", false); !bytes.Equal(got, []byte("hello")) {
		t.Errorf("plain paste = %q", got)
	}
	if got := EncodePaste("hello", true); !bytes.Equal(got, []byte("\x1b[200~hello\x1b[201~")) {
		t.Errorf("bracketed paste = %q", got)
	}
	evil := "a\x1b[201~rm -rf /\x1b[200~b"
	got := EncodePaste(evil, true)
	want := []byte("\x1b[200~arm -rf /b\x1b[201~")
	if !bytes.Equal(got, want) {
		t.Errorf("marker stripping: got %q, want %q", got, want)
	}
}
