// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/snapshot.go
// Summary: Point-in-time read-only view of the visible screen for renderers.
// Usage: Renderers implement Backend and consume Snapshots; the core never
//        depends on a concrete rendering backend.

package term

// Span marks a highlighted cell range on one visible row, in
// viewport-relative coordinates. EndCol is inclusive.
type Span struct {
	Row      int
	StartCol int
	EndCol   int
}

// Snapshot is a deep copy of everything a renderer needs for one frame:
// the visible rows, cursor state, fractional scroll offset and highlight
// spans. It is safe to read from any goroutine after being taken.
type Snapshot struct {
	Cols, Rows int

	// Lines holds the visible rows, top to bottom, each exactly Cols cells.
	Lines []Row

	CursorX, CursorY int
	CursorVisible    bool

	// SubRow is the fractional scroll offset in [0,1) for smooth rendering.
	SubRow float64
	// StuckToBottom reports whether the viewport follows new output.
	StuckToBottom bool

	// Selection spans, empty when no selection is active.
	Selection []Span
	// Search match spans and the index of the current match's first span,
	// -1 when none.
	Search        []Span
	CurrentSearch int

	Title string
}

// Backend is the capability interface for swappable rendering backends:
// produce draw output from a snapshot. Implementations own all pixel, font
// and OS concerns.
type Backend interface {
	Draw(*Snapshot) error
}
