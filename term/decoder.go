// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/decoder.go
// Summary: Incremental UTF-8 decoder resumable across arbitrary chunk splits.
// Usage: Feeds decoded runes to the escape sequence parser.
// Notes: Malformed sequences decode to U+FFFD, never an error.

package term

import "unicode/utf8"

// ByteDecoder turns a byte stream into runes. It may be fed in arbitrary
// chunks: a multi-byte sequence split across calls is reassembled through the
// pending buffer, so the rune output is identical however the input is cut.
type ByteDecoder struct {
	pending [utf8.UTFMax]byte
	n       int
}

// Decode appends the runes decoded from data to dst and returns it. Bytes that
// may start a valid but incomplete sequence are buffered for the next call;
// bytes that cannot form a valid sequence yield utf8.RuneError.
func (d *ByteDecoder) Decode(dst []rune, data []byte) []rune {
	for len(data) > 0 {
		if d.n == 0 {
			// Fast path: ASCII needs no buffering.
			if data[0] < utf8.RuneSelf {
				dst = append(dst, rune(data[0]))
				data = data[1:]
				continue
			}
			r, size := utf8.DecodeRune(data)
			if r != utf8.RuneError || size > 1 {
				dst = append(dst, r)
				data = data[size:]
				continue
			}
			// Either a truncated sequence at the end of the chunk, or junk.
			if utf8.RuneStart(data[0]) && len(data) < utf8.UTFMax && !utf8.FullRune(data) {
				d.n = copy(d.pending[:], data)
				return dst
			}
			dst = append(dst, utf8.RuneError)
			data = data[1:]
			continue
		}

		// Continue a buffered partial sequence one byte at a time.
		d.pending[d.n] = data[0]
		d.n++
		data = data[1:]
		if utf8.FullRune(d.pending[:d.n]) {
			r, size := utf8.DecodeRune(d.pending[:d.n])
			dst = append(dst, r)
			// Re-decode any bytes the rune did not consume (invalid tail).
			rest := make([]byte, d.n-size)
			copy(rest, d.pending[size:d.n])
			d.n = 0
			if len(rest) > 0 {
				dst = d.Decode(dst, rest)
			}
		} else if d.n == utf8.UTFMax {
			// Four bytes that never completed: emit a replacement and retry
			// the tail as a fresh stream.
			rest := make([]byte, d.n-1)
			copy(rest, d.pending[1:d.n])
			d.n = 0
			dst = append(dst, utf8.RuneError)
			dst = d.Decode(dst, rest)
		}
	}
	return dst
}

// Pending reports how many bytes of an incomplete sequence are buffered.
func (d *ByteDecoder) Pending() int { return d.n }

// Reset discards any buffered partial sequence.
func (d *ByteDecoder) Reset() { d.n = 0 }
