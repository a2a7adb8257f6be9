// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser.go
// Summary: Resumable escape-sequence state machine over decoded runes.
// Usage: Feed arbitrary byte chunks with Parse; actions go to the Performer.
// Notes: Splitting the stream at any byte boundary yields identical dispatch.

package term

import "log"

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSIEntry
	stateCSIParam
	stateCSIIntermediate
	stateOSC
	stateOSCEscape
	stateDCS
	stateDCSEscape
	stateCharset
)

const (
	// maxParams bounds the CSI parameter list. Parameters beyond the cap are
	// parsed and discarded so a hostile stream cannot grow memory; the ones
	// already collected stay intact.
	maxParams = 32
	// maxStringLen bounds OSC/DCS payload buffers the same way.
	maxStringLen = 4096
)

// Parser is the escape-sequence interpreter. All state lives in the struct
// value, so the machine suspends between Parse calls at any byte boundary and
// resumes exactly where it left off.
type Parser struct {
	state parserState
	perf  Performer
	dec   ByteDecoder
	runes []rune // reused decode scratch

	params       []int
	current      int
	inSubParam   bool
	private      bool
	intermediate rune
	overflowed   bool

	oscBuffer []rune
	dcsBuffer []rune
	escInter  rune
}

// NewParser creates a parser dispatching to the given performer.
func NewParser(perf Performer) *Parser {
	return &Parser{
		state:     stateGround,
		perf:      perf,
		params:    make([]int, 0, 16),
		oscBuffer: make([]rune, 0, 128),
		dcsBuffer: make([]rune, 0, 128),
	}
}

// Parse consumes a chunk of raw bytes from the shell. Chunks may split
// multi-byte characters and escape sequences anywhere.
func (p *Parser) Parse(data []byte) {
	p.runes = p.dec.Decode(p.runes[:0], data)
	for _, r := range p.runes {
		p.step(r)
	}
}

func (p *Parser) step(r rune) {
	// Anywhere transitions: CAN and SUB abort any in-progress sequence.
	// SUB additionally shows as a replacement glyph (xterm behavior).
	if r == 0x18 || r == 0x1a {
		p.state = stateGround
		if r == 0x1a {
			p.perf.Print('�')
		}
		return
	}

	switch p.state {
	case stateGround:
		switch {
		case r == 0x1b:
			p.enterEscape()
		case r < 0x20 || r == 0x7f:
			p.perf.Execute(byte(r))
		default:
			p.perf.Print(r)
		}

	case stateEscape:
		switch {
		case r == '[':
			p.state = stateCSIEntry
			p.params = p.params[:0]
			p.current = 0
			p.inSubParam = false
			p.private = false
			p.intermediate = 0
			p.overflowed = false
		case r == ']':
			p.state = stateOSC
			p.oscBuffer = p.oscBuffer[:0]
		case r == 'P':
			p.state = stateDCS
			p.dcsBuffer = p.dcsBuffer[:0]
		case r == '(' || r == ')':
			p.state = stateCharset
		case r >= ' ' && r <= '/':
			p.escInter = r
		case r == 0x1b:
			p.enterEscape()
		case r < 0x20:
			p.perf.Execute(byte(r))
		default:
			p.perf.ESCDispatch(p.escInter, r)
			p.state = stateGround
		}

	case stateCSIEntry, stateCSIParam, stateCSIIntermediate:
		p.stepCSI(r)

	case stateOSC:
		switch {
		case r == 0x07: // BEL terminator
			p.perf.OSCDispatch(string(p.oscBuffer))
			p.state = stateGround
		case r == 0x1b:
			p.state = stateOSCEscape
		default:
			if len(p.oscBuffer) < maxStringLen {
				p.oscBuffer = append(p.oscBuffer, r)
			}
		}

	case stateOSCEscape:
		if r == '\\' { // ST terminator
			p.perf.OSCDispatch(string(p.oscBuffer))
			p.state = stateGround
		} else {
			// A bare ESC aborts the OSC and starts a fresh sequence.
			p.perf.OSCDispatch(string(p.oscBuffer))
			p.enterEscape()
			p.step(r)
		}

	case stateDCS:
		if r == 0x1b {
			p.state = stateDCSEscape
		} else if len(p.dcsBuffer) < maxStringLen {
			p.dcsBuffer = append(p.dcsBuffer, r)
		}

	case stateDCSEscape:
		if r == '\\' {
			p.perf.DCSDispatch(string(p.dcsBuffer))
			p.state = stateGround
		} else {
			p.state = stateDCS
			if len(p.dcsBuffer)+2 <= maxStringLen {
				p.dcsBuffer = append(p.dcsBuffer, 0x1b, r)
			}
		}

	case stateCharset:
		// Charset designation: the designator rune is consumed and ignored.
		p.state = stateGround
	}
}

func (p *Parser) enterEscape() {
	p.state = stateEscape
	p.escInter = 0
}

func (p *Parser) stepCSI(r rune) {
	switch {
	case r == 0x1b:
		p.enterEscape()
	case r < 0x20:
		// C0 controls execute from inside a sequence without aborting it.
		p.perf.Execute(byte(r))
	case r >= '0' && r <= '9':
		p.state = stateCSIParam
		if !p.inSubParam {
			p.current = p.current*10 + int(r-'0')
			if p.current > 65535 {
				p.current = 65535
			}
		}
	case r == ';':
		p.state = stateCSIParam
		p.pushParam()
	case r == ':':
		// Sub-parameters (SGR underline styles, colon-form extended colors)
		// are not modeled. The primary value is kept and the sub-parameter
		// tail discarded until the next ';' or the final byte, so 4:3 reads
		// as plain underline rather than whatever chunk came last.
		p.state = stateCSIParam
		p.inSubParam = true
	case r >= '<' && r <= '?':
		if p.state == stateCSIEntry {
			p.private = true
		}
		p.state = stateCSIParam
	case r >= ' ' && r <= '/':
		p.state = stateCSIIntermediate
		p.intermediate = r
	case r >= '@' && r <= '~':
		p.pushParam()
		p.perf.CSIDispatch(r, p.params, p.intermediate, p.private)
		p.state = stateGround
	default:
		log.Printf("parser: dropping rune %q inside CSI", r)
		p.state = stateGround
	}
}

func (p *Parser) pushParam() {
	if len(p.params) < maxParams {
		p.params = append(p.params, p.current)
	} else if !p.overflowed {
		p.overflowed = true
		log.Printf("parser: CSI parameter list capped at %d, discarding excess", maxParams)
	}
	p.current = 0
	p.inSubParam = false
}
