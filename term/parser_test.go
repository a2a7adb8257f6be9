// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser_test.go
// Summary: Tests for the resumable escape sequence parser.
// Usage: Run with `go test`.
// Notes: Chunk independence is the load-bearing property: splitting the byte
//        stream anywhere must never change the dispatched actions.

package term

import (
	"reflect"
	"testing"
)

// record parses input in the given chunk sizes and returns the actions.
func record(input []byte, chunks ...int) []Action {
	rec := &Recorder{}
	p := NewParser(rec)
	if len(chunks) == 0 {
		p.Parse(input)
		return rec.Actions
	}
	at := 0
	for _, n := range chunks {
		end := at + n
		if end > len(input) {
			end = len(input)
		}
		p.Parse(input[at:end])
		at = end
	}
	if at < len(input) {
		p.Parse(input[at:])
	}
	return rec.Actions
}

// TestChunkIndependence verifies that splitting the input at every possible
// boundary yields exactly the actions of a single whole-input parse.
func TestChunkIndependence(t *testing.T) {
	input := []byte("Hi\x1b[1;31mré\xe4\xbd\xa0\x1b]0;t√tle\x07\x1b[2J\x1bM\x1b[?1049h\r\n")
	want := record(input)
	if len(want) == 0 {
		t.Fatal("whole-input parse produced no actions")
	}
	for split := 1; split < len(input); split++ {
		got := record(input, split)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("split at %d diverged:\n got %+v\nwant %+v", split, got, want)
		}
	}
	// Byte-at-a-time as the degenerate case.
	ones := make([]int, len(input))
	for i := range ones {
		ones[i] = 1
	}
	if got := record(input, ones...); !reflect.DeepEqual(got, want) {
		t.Fatalf("byte-at-a-time diverged:\n got %+v\nwant %+v", got, want)
	}
}

// TestCSIParams verifies parameter accumulation, defaults and the private
// marker.
func TestCSIParams(t *testing.T) {
	tests := []struct {
		input   string
		final   rune
		params  []int
		private bool
	}{
		{"\x1b[H", 'H', []int{0}, false},
		{"\x1b[5;10H", 'H', []int{5, 10}, false},
		{"\x1b[;10H", 'H', []int{0, 10}, false},
		{"\x1b[?25l", 'l', []int{25}, true},
		{"\x1b[38;2;10;20;30m", 'm', []int{38, 2, 10, 20, 30}, false},
	}
	for _, tc := range tests {
		acts := record([]byte(tc.input))
		if len(acts) != 1 || acts[0].Kind != ActionCSI {
			t.Errorf("%q: expected 1 CSI action, got %+v", tc.input, acts)
			continue
		}
		a := acts[0]
		if a.Final != tc.final || a.Private != tc.private || !reflect.DeepEqual(a.Params, tc.params) {
			t.Errorf("%q: got final=%q params=%v private=%v", tc.input, a.Final, a.Params, a.Private)
		}
	}
}

// TestColonSubParameters verifies a colon keeps the parameter's primary
// value and discards the sub-parameter tail, at every chunk boundary.
func TestColonSubParameters(t *testing.T) {
	tests := []struct {
		input  string
		params []int
	}{
		{"\x1b[4:3m", []int{4}},
		{"\x1b[38:2::255:0:0m", []int{38}},
		{"\x1b[58:5:123;1m", []int{58, 1}},
	}
	for _, tc := range tests {
		input := []byte(tc.input)
		for split := 1; split <= len(input); split++ {
			acts := record(input, split)
			if len(acts) != 1 || acts[0].Kind != ActionCSI || acts[0].Final != 'm' {
				t.Fatalf("%q split %d: expected 1 SGR action, got %+v", tc.input, split, acts)
			}
			if !reflect.DeepEqual(acts[0].Params, tc.params) {
				t.Errorf("%q split %d: params = %v, want %v", tc.input, split, acts[0].Params, tc.params)
			}
		}
	}
}

// TestCSIIntermediate verifies the intermediate byte reaches the dispatch.
func TestCSIIntermediate(t *testing.T) {
	acts := record([]byte("\x1b[!p"))
	if len(acts) != 1 || acts[0].Final != 'p' || acts[0].Intermediate != '!' {
		t.Fatalf("DECSTR parse wrong: %+v", acts)
	}
}

// TestOSCTermination verifies both BEL and ST terminate an OSC string.
func TestOSCTermination(t *testing.T) {
	for _, input := range []string{"\x1b]0;hello\x07", "\x1b]0;hello\x1b\\"} {
		acts := record([]byte(input))
		if len(acts) != 1 || acts[0].Kind != ActionOSC || acts[0].Payload != "0;hello" {
			t.Errorf("%q: got %+v", input, acts)
		}
	}
}

// TestCancelAbortsSequence verifies CAN drops an in-flight sequence and SUB
// additionally prints a replacement character.
func TestCancelAbortsSequence(t *testing.T) {
	acts := record([]byte("\x1b[3\x18A"))
	want := []Action{{Kind: ActionPrint, Rune: 'A'}}
	if !reflect.DeepEqual(acts, want) {
		t.Errorf("CAN: got %+v, want %+v", acts, want)
	}

	acts = record([]byte("\x1b[3\x1aA"))
	want = []Action{
		{Kind: ActionPrint, Rune: '�'},
		{Kind: ActionPrint, Rune: 'A'},
	}
	if !reflect.DeepEqual(acts, want) {
		t.Errorf("SUB: got %+v, want %+v", acts, want)
	}
}

// TestControlInsideCSI verifies C0 controls execute without aborting the
// surrounding sequence.
func TestControlInsideCSI(t *testing.T) {
	acts := record([]byte("\x1b[2\n;3H"))
	want := []Action{
		{Kind: ActionExecute, Byte: '\n'},
		{Kind: ActionCSI, Final: 'H', Params: []int{2, 3}},
	}
	if !reflect.DeepEqual(acts, want) {
		t.Errorf("got %+v, want %+v", acts, want)
	}
}

// TestParamOverflow verifies excess parameters are dropped, not crashed on,
// and the sequence still dispatches.
func TestParamOverflow(t *testing.T) {
	input := []byte("\x1b[")
	for i := 0; i < 100; i++ {
		input = append(input, '1', ';')
	}
	input = append(input, 'm')
	acts := record(input)
	if len(acts) != 1 || acts[0].Kind != ActionCSI || acts[0].Final != 'm' {
		t.Fatalf("expected one CSI m action, got %+v", acts)
	}
	if len(acts[0].Params) > maxParams {
		t.Errorf("params not capped: %d", len(acts[0].Params))
	}
}

// TestParamValueCap verifies oversized numeric parameters saturate.
func TestParamValueCap(t *testing.T) {
	acts := record([]byte("\x1b[99999999999A"))
	if len(acts) != 1 || acts[0].Params[0] != 65535 {
		t.Fatalf("expected saturated param, got %+v", acts)
	}
}

// TestDCSPassthrough verifies a DCS string is captured and dispatched whole.
func TestDCSPassthrough(t *testing.T) {
	acts := record([]byte("\x1bPq#0;2;0;0;0\x1b\\"))
	if len(acts) != 1 || acts[0].Kind != ActionDCS || acts[0].Payload != "q#0;2;0;0;0" {
		t.Fatalf("got %+v", acts)
	}
}

// TestSplitUTF8AcrossChunks verifies a multibyte character torn across Parse
// calls prints once, correctly.
func TestSplitUTF8AcrossChunks(t *testing.T) {
	input := []byte("\xe4\xbd\xa0") // 你
	for split := 1; split < len(input); split++ {
		got := record(input, split)
		want := []Action{{Kind: ActionPrint, Rune: '你'}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("split at %d: got %+v", split, got)
		}
	}
}
