// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/search.go
// Summary: Literal substring search over the combined scrollback+grid text.
// Usage: SetQuery recomputes matches; Next/Prev cycle through them.
// Notes: The engine re-runs SetQuery after mutations; there is no
//        subscription to grid changes.

package term

import (
	"strings"
	"unicode"
)

// Match is the coordinate span of one search hit in combined space. End is
// the coordinate of the last cell of the match (inclusive); a match may span
// soft-wrapped rows.
type Match struct {
	Start Coord
	End   Coord
}

// SearchEngine scans the combined text for a case-sensitive literal query
// and records match spans in appearance order. Matches are recomputed only
// on SetQuery, not incrementally per mutation, to bound cost.
type SearchEngine struct {
	reader lineReader

	query   string
	matches []Match
	current int
	// generation lets a newer SetQuery supersede a recompute still walking a
	// large history: the stale pass notices and its results are discarded.
	generation uint64
}

// NewSearchEngine creates a search engine over the given row space.
func NewSearchEngine(reader lineReader) *SearchEngine {
	return &SearchEngine{reader: reader, current: -1}
}

// Query returns the active query string.
func (s *SearchEngine) Query() string { return s.query }

// Matches returns the match spans in ascending coordinate order. The slice
// is owned by the engine and valid until the next SetQuery.
func (s *SearchEngine) Matches() []Match { return s.matches }

// Current returns the index of the current match, or -1 when none is
// selected.
func (s *SearchEngine) Current() int { return s.current }

// SetQuery replaces the query and recomputes all matches in one forward
// scan. An empty query yields zero matches and clears highlighting.
func (s *SearchEngine) SetQuery(query string) {
	s.generation++
	gen := s.generation
	s.query = query
	s.current = -1
	s.matches = nil
	if query == "" {
		return
	}
	matches := s.scan(query, gen)
	if gen != s.generation {
		// A newer query superseded this recompute; drop the stale results.
		return
	}
	s.matches = matches
}

// scan walks logical lines (soft-wrap chains joined without separators),
// finds every occurrence and maps byte offsets back to cell coordinates.
func (s *SearchEngine) scan(query string, gen uint64) []Match {
	var matches []Match
	total := s.reader.LineCount()
	for line := 0; line < total; {
		if gen != s.generation {
			return nil
		}
		last := logicalLineEnd(s.reader, line)
		text, coords := s.logicalLineText(line, last)
		from := 0
		for {
			i := strings.Index(text[from:], query)
			if i < 0 {
				break
			}
			at := from + i
			matches = append(matches, Match{
				Start: coords[at],
				End:   coords[at+len(query)-1],
			})
			// Advance one byte so overlapping occurrences are all found.
			from = at + 1
		}
		line = last + 1
	}
	return matches
}

// logicalLineText renders rows [first, last] as one string plus a byte →
// coordinate table mapping every byte of the text to its source cell. The
// cell walk mirrors ExtractText so offsets stay aligned with the trimmed
// row text.
func (s *SearchEngine) logicalLineText(first, last int) (string, []Coord) {
	var sb strings.Builder
	var coords []Coord
	for line := first; line <= last; line++ {
		row, ok := s.reader.Line(line)
		if !ok {
			break
		}
		trimmed := ExtractText(row.Cells)
		written := 0
		for col := 0; col < len(row.Cells) && written < len(trimmed); col++ {
			cell := row.Cells[col]
			text := cell.Text()
			if text == "" {
				continue
			}
			if unicode.IsControl(cell.Rune) && cell.Rune != ' ' && cell.Rune != '\t' {
				continue
			}
			for b := 0; b < len(text) && written < len(trimmed); b++ {
				coords = append(coords, Coord{Line: line, Col: col})
				written++
			}
		}
		sb.WriteString(trimmed)
	}
	return sb.String(), coords
}

// Next advances to the following match, wrapping past the last back to the
// first. ok is false when there are no matches; wrapped is true when the
// cycle restarted.
func (s *SearchEngine) Next() (m Match, wrapped, ok bool) {
	if len(s.matches) == 0 {
		return Match{}, false, false
	}
	s.current++
	if s.current >= len(s.matches) {
		s.current = 0
		wrapped = true
	}
	return s.matches[s.current], wrapped, true
}

// Prev moves to the preceding match, wrapping past the first to the last.
func (s *SearchEngine) Prev() (m Match, wrapped, ok bool) {
	if len(s.matches) == 0 {
		return Match{}, false, false
	}
	if s.current <= 0 {
		s.current = len(s.matches) - 1
		wrapped = true
	} else {
		s.current--
	}
	return s.matches[s.current], wrapped, true
}
