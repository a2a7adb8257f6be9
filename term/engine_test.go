// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/engine_test.go
// Summary: Integration tests for the engine: writes, snapshots, scrolling,
//          pointer selection and search across the combined row space.
// Usage: Run with `go test`.

package term

import (
	"bytes"
	"strings"
	"testing"
)

// write feeds a string through the engine's io.Writer face.
func write(t *testing.T, e *Engine, s string) {
	t.Helper()
	if _, err := e.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
}

// snapshotText renders a snapshot's visible lines as trimmed text.
func snapshotText(snap *Snapshot) string {
	var lines []string
	for _, row := range snap.Lines {
		lines = append(lines, ExtractText(row.Cells))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// TestEngineWriteAndSnapshot verifies the basic write-then-render path.
func TestEngineWriteAndSnapshot(t *testing.T) {
	e, err := NewEngine(5, 20)
	if err != nil {
		t.Fatal(err)
	}
	write(t, e, "\x1b[31mHello\x1b[0m world")

	snap := e.Snapshot()
	if got := ExtractText(snap.Lines[0].Cells); got != "Hello world" {
		t.Errorf("line 0 = %q", got)
	}
	red := Color{Mode: ColorModeStandard, Value: 1}
	if snap.Lines[0].Cells[0].FG != red {
		t.Errorf("cell FG = %+v, want red", snap.Lines[0].Cells[0].FG)
	}
	if !snap.CursorVisible || snap.CursorY != 0 {
		t.Errorf("cursor: visible=%v y=%d", snap.CursorVisible, snap.CursorY)
	}
	if !snap.StuckToBottom {
		t.Error("fresh engine not stuck to bottom")
	}
}

// TestSnapshotIsDeepCopy verifies later writes do not mutate an old snapshot.
func TestSnapshotIsDeepCopy(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "aaa")
	snap := e.Snapshot()
	write(t, e, "\rbbb")
	if got := ExtractText(snap.Lines[0].Cells); got != "aaa" {
		t.Errorf("snapshot mutated: %q", got)
	}
}

// TestScrollIntoHistory verifies scrolling up reveals scrollback rows and the
// cursor hides while away from the live edge.
func TestScrollIntoHistory(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "one\r\ntwo\r\nthree\r\nfour")
	// Rows one and two are in scrollback now.
	e.ScrollDelta(2, 0)
	snap := e.Snapshot()
	if got := snapshotText(snap); got != "one\ntwo" {
		t.Errorf("scrolled view = %q, want %q", got, "one\ntwo")
	}
	if snap.CursorVisible {
		t.Error("cursor visible while scrolled into history")
	}
	if snap.StuckToBottom {
		t.Error("stuck-to-bottom while scrolled")
	}

	e.ScrollToBottom()
	snap = e.Snapshot()
	if got := snapshotText(snap); got != "three\nfour" {
		t.Errorf("bottom view = %q", got)
	}
	if !snap.CursorVisible {
		t.Error("cursor hidden at the live edge")
	}
}

// TestScrolledViewportStaysAnchored verifies new output does not drag a
// scrolled viewport back down, and the view keeps showing the same rows.
func TestScrolledViewportStaysAnchored(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "one\r\ntwo\r\nthree\r\nfour")
	e.ScrollDelta(2, 0)
	before := snapshotText(e.Snapshot())

	write(t, e, "\r\nfive\r\nsix")
	after := snapshotText(e.Snapshot())
	if before != after {
		t.Errorf("anchored view changed: %q -> %q", before, after)
	}
}

// TestKeyboardInputSnapsToBottom verifies typing returns a scrolled viewport
// to the live edge and the encoded bytes reach the output.
func TestKeyboardInputSnapsToBottom(t *testing.T) {
	var out bytes.Buffer
	e, _ := NewEngine(2, 10, WithOutput(func(b []byte) { out.Write(b) }))
	write(t, e, "a\r\nb\r\nc\r\nd")
	e.ScrollDelta(2, 0)

	e.KeyPress(KeyRune, 'x', 0)
	if !e.StuckToBottom() {
		t.Error("viewport still scrolled after key press")
	}
	if out.String() != "x" {
		t.Errorf("output = %q, want x", out.String())
	}
}

// TestAppCursorKeysReachEncoder verifies DECCKM set by the child changes the
// arrow encoding end to end.
func TestAppCursorKeysReachEncoder(t *testing.T) {
	var out bytes.Buffer
	e, _ := NewEngine(2, 10, WithOutput(func(b []byte) { out.Write(b) }))
	write(t, e, "\x1b[?1h")
	e.KeyPress(KeyUp, 0, 0)
	if out.String() != "\x1bOA" {
		t.Errorf("output = %q, want SS3 A", out.String())
	}
}

// TestPasteRespectsBracketedMode verifies paste wrapping follows the mode the
// child set.
func TestPasteRespectsBracketedMode(t *testing.T) {
	var out bytes.Buffer
	e, _ := NewEngine(2, 20, WithOutput(func(b []byte) { out.Write(b) }))
	e.Paste("hi")
	if out.String() != "hi" {
		t.Fatalf("plain paste = %q", out.String())
	}
	out.Reset()
	write(t, e, "\x1b[?2004h")
	e.Paste("hi")
	if out.String() != "\x1b[200~hi\x1b[201~" {
		t.Errorf("bracketed paste = %q", out.String())
	}
}

// TestQueryResponsesReachOutput verifies DSR answers flow through the engine
// output.
func TestQueryResponsesReachOutput(t *testing.T) {
	var out bytes.Buffer
	e, _ := NewEngine(5, 10, WithOutput(func(b []byte) { out.Write(b) }))
	write(t, e, "\x1b[6n")
	if out.String() != "\x1b[1;1R" {
		t.Errorf("CPR = %q", out.String())
	}
}

// TestPointerSelectionAcrossHistory verifies selecting across the
// scrollback/grid boundary through viewport coordinates.
func TestPointerSelectionAcrossHistory(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "one\r\ntwo\r\nthree\r\nfour")
	// Visible rows are three, four. Scroll up one row: two, three.
	e.ScrollDelta(1, 0)

	e.PointerDown(0, 0, 1)
	e.PointerDrag(4, 1)
	e.PointerUp(4, 1)
	if got := e.CopyText(); got != "two\nthree" {
		t.Errorf("selection = %q, want %q", got, "two\nthree")
	}

	snap := e.Snapshot()
	if len(snap.Selection) != 2 {
		t.Fatalf("selection spans = %d, want 2", len(snap.Selection))
	}
	if snap.Selection[0].Row != 0 || snap.Selection[1].Row != 1 {
		t.Errorf("span rows = %d,%d", snap.Selection[0].Row, snap.Selection[1].Row)
	}
}

// TestDoubleClickWord verifies word selection through the pointer commands.
func TestDoubleClickWord(t *testing.T) {
	e, _ := NewEngine(2, 20)
	write(t, e, "foo bar baz")
	e.PointerDown(5, 0, 2) // on the 'a' of bar
	e.PointerUp(5, 0)
	if got := e.CopyText(); got != "bar" {
		t.Errorf("word = %q, want bar", got)
	}
}

// TestClickWithoutDragClearsSelection verifies a plain click that never
// drags leaves nothing selected, so a later copy cannot grab one stray cell.
func TestClickWithoutDragClearsSelection(t *testing.T) {
	e, _ := NewEngine(2, 20)
	write(t, e, "hello")
	e.PointerDown(1, 0, 1)
	e.PointerUp(1, 0)
	if got := e.CopyText(); got != "" {
		t.Errorf("click selected %q, want nothing", got)
	}
	// A real drag still selects.
	e.PointerDown(0, 0, 1)
	e.PointerDrag(4, 0)
	e.PointerUp(4, 0)
	if got := e.CopyText(); got != "hello" {
		t.Errorf("drag selected %q, want hello", got)
	}
}

// TestSelectionClearedOnClear verifies a screen clear from the child drops
// the selection.
func TestSelectionClearedOnClear(t *testing.T) {
	e, _ := NewEngine(2, 20)
	write(t, e, "hello")
	e.PointerDown(0, 0, 1)
	e.PointerDrag(4, 0)
	e.PointerUp(4, 0)
	if e.CopyText() == "" {
		t.Fatal("setup: no selection")
	}
	write(t, e, "\x1bc")
	if got := e.CopyText(); got != "" {
		t.Errorf("selection survived RIS: %q", got)
	}
}

// TestSelectionClearedOnResize verifies resize invalidates the selection and
// keeps the cursor in bounds.
func TestSelectionClearedOnResize(t *testing.T) {
	e, _ := NewEngine(24, 80)
	write(t, e, "hello")
	e.PointerDown(0, 0, 1)
	e.PointerDrag(4, 0)
	e.PointerUp(4, 0)

	if err := e.Resize(30, 100); err != nil {
		t.Fatal(err)
	}
	if e.CopyText() != "" {
		t.Error("selection survived resize")
	}
	snap := e.Snapshot()
	if snap.Rows != 30 || snap.Cols != 100 {
		t.Errorf("size = %dx%d", snap.Rows, snap.Cols)
	}
	if got := ExtractText(snap.Lines[0].Cells); got != "hello" {
		t.Errorf("content lost on resize: %q", got)
	}
	if snap.CursorX >= 100 || snap.CursorY >= 30 {
		t.Errorf("cursor out of bounds: (%d,%d)", snap.CursorX, snap.CursorY)
	}
}

// TestEngineSearchRevealsMatch verifies SearchNext scrolls history so the
// match is visible and the snapshot carries highlight spans.
func TestEngineSearchRevealsMatch(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "needle\r\na\r\nb\r\nc\r\nd")

	n := e.SetSearchQuery("needle")
	if n != 1 {
		t.Fatalf("match count = %d, want 1", n)
	}
	m, wrapped, ok := e.SearchNext()
	if !ok || wrapped {
		t.Fatalf("SearchNext: ok=%v wrapped=%v", ok, wrapped)
	}
	if m.Start != (Coord{0, 0}) {
		t.Errorf("match start = %+v", m.Start)
	}
	snap := e.Snapshot()
	if got := ExtractText(snap.Lines[0].Cells); got != "needle" {
		t.Errorf("match not revealed; top line = %q", got)
	}
	if len(snap.Search) != 1 || snap.CurrentSearch != 0 {
		t.Errorf("search spans = %v current = %d", snap.Search, snap.CurrentSearch)
	}
	if snap.Search[0].StartCol != 0 || snap.Search[0].EndCol != 5 {
		t.Errorf("span = %+v", snap.Search[0])
	}
}

// TestAltScreenDisablesScrolling verifies wheel input is ignored on the
// alternate screen.
func TestAltScreenDisablesScrolling(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "a\r\nb\r\nc\r\nd") // builds scrollback
	write(t, e, "\x1b[?1049h")
	e.ScrollDelta(2, 0)
	if !e.StuckToBottom() {
		t.Error("alt screen viewport moved")
	}
	write(t, e, "\x1b[?1049l")
	e.ScrollDelta(2, 0)
	if e.StuckToBottom() {
		t.Error("primary screen scroll ignored after alt exit")
	}
}

// TestEngineTickAnimates verifies a kick animates over ticks and settles.
func TestEngineTickAnimates(t *testing.T) {
	e, _ := NewEngine(2, 10)
	write(t, e, "a\r\nb\r\nc\r\nd\r\ne\r\nf")
	e.ScrollDelta(1, 0) // immediate row plus inertia kick
	settled := 0
	for i := 0; i < 600; i++ {
		if !e.Tick(1.0 / 60) {
			settled = i
			break
		}
	}
	if settled == 0 && e.Tick(1.0/60) {
		t.Fatal("inertia never settled")
	}
	if e.StuckToBottom() {
		t.Error("viewport fell back to bottom after forward kick")
	}
}

// TestEngineTitle verifies the title flows into snapshots and the callback.
func TestEngineTitle(t *testing.T) {
	e, _ := NewEngine(2, 10)
	var cb string
	e.OnTitleChanged = func(s string) { cb = s }
	write(t, e, "\x1b]2;workbench\x07")
	if got := e.Snapshot().Title; got != "workbench" {
		t.Errorf("snapshot title = %q", got)
	}
	if cb != "workbench" {
		t.Errorf("callback title = %q", cb)
	}
}

// TestRowRetiredCallback verifies retired rows stream out with monotonic
// sequence numbers and their text.
func TestRowRetiredCallback(t *testing.T) {
	e, _ := NewEngine(2, 10)
	var seqs []int64
	var texts []string
	e.OnRowRetired = func(seq int64, text string) {
		seqs = append(seqs, seq)
		texts = append(texts, text)
	}
	write(t, e, "one\r\ntwo\r\nthree\r\nfour")
	if len(seqs) != 2 {
		t.Fatalf("retired = %d rows, want 2", len(seqs))
	}
	if seqs[0] != 0 || seqs[1] != 1 {
		t.Errorf("seqs = %v", seqs)
	}
	if texts[0] != "one" || texts[1] != "two" {
		t.Errorf("texts = %v", texts)
	}
}

// TestEngineRejectsBadSizes verifies dimension validation at both entry
// points.
func TestEngineRejectsBadSizes(t *testing.T) {
	if _, err := NewEngine(0, 10); err == nil {
		t.Error("NewEngine accepted zero rows")
	}
	e, _ := NewEngine(2, 10)
	if err := e.Resize(-1, 10); err == nil {
		t.Error("Resize accepted negative rows")
	}
}
