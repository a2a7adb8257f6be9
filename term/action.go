// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/action.go
// Summary: Action vocabulary emitted by the escape sequence parser.
// Usage: The Grid implements Performer; Recorder captures Actions for tests.

package term

// Performer receives the ordered stream of actions decoded from terminal
// output. The parser guarantees the same call sequence regardless of how the
// input bytes were chunked.
type Performer interface {
	// Print places a printable codepoint at the cursor.
	Print(r rune)
	// Execute handles a C0 control code (BS, HT, LF, CR, ...).
	Execute(b byte)
	// CSIDispatch handles a complete CSI sequence.
	CSIDispatch(final rune, params []int, intermediate rune, private bool)
	// ESCDispatch handles a non-CSI escape sequence (IND, RI, RIS, ...).
	ESCDispatch(intermediate, final rune)
	// OSCDispatch handles a complete OSC string.
	OSCDispatch(payload string)
	// DCSDispatch handles a complete DCS string.
	DCSDispatch(payload string)
}

// ActionKind discriminates recorded Actions.
type ActionKind int

const (
	ActionPrint ActionKind = iota
	ActionExecute
	ActionCSI
	ActionESC
	ActionOSC
	ActionDCS
)

// Action is one decoded parser event in value form. The live path dispatches
// through Performer without allocating; Action exists so tests and tooling can
// compare parse results structurally.
type Action struct {
	Kind         ActionKind
	Rune         rune
	Byte         byte
	Final        rune
	Intermediate rune
	Private      bool
	Params       []int
	Payload      string
}

// Recorder is a Performer that appends every dispatch to Actions.
type Recorder struct {
	Actions []Action
}

func (r *Recorder) Print(ru rune) {
	r.Actions = append(r.Actions, Action{Kind: ActionPrint, Rune: ru})
}

func (r *Recorder) Execute(b byte) {
	r.Actions = append(r.Actions, Action{Kind: ActionExecute, Byte: b})
}

func (r *Recorder) CSIDispatch(final rune, params []int, intermediate rune, private bool) {
	ps := make([]int, len(params))
	copy(ps, params)
	r.Actions = append(r.Actions, Action{
		Kind:         ActionCSI,
		Final:        final,
		Params:       ps,
		Intermediate: intermediate,
		Private:      private,
	})
}

func (r *Recorder) ESCDispatch(intermediate, final rune) {
	r.Actions = append(r.Actions, Action{Kind: ActionESC, Intermediate: intermediate, Final: final})
}

func (r *Recorder) OSCDispatch(payload string) {
	r.Actions = append(r.Actions, Action{Kind: ActionOSC, Payload: payload})
}

func (r *Recorder) DCSDispatch(payload string) {
	r.Actions = append(r.Actions, Action{Kind: ActionDCS, Payload: payload})
}
