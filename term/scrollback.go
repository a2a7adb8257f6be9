// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/scrollback.go
// Summary: Bounded FIFO of rows retired off the top of the primary screen.
// Usage: Written only by the grid's scroll path; read by viewport queries.
// Notes: Rows are immutable after Push; history is never reflowed.

package term

import "errors"

// ErrOutOfRange is returned by Get for an index outside the retained history.
var ErrOutOfRange = errors.New("term: scrollback index out of range")

// ScrollbackStore keeps retired rows in insertion order over a ring buffer.
// Index 0 is the oldest retained row. When a push exceeds capacity the
// oldest row is evicted, exactly one per push since rows arrive one at a
// time.
type ScrollbackStore struct {
	rows     []Row
	head     int
	length   int
	capacity int
	pushed   int64
}

// NewScrollbackStore creates a store retaining at most capacity rows.
// Non-positive capacities fall back to the default of 10,000.
func NewScrollbackStore(capacity int) *ScrollbackStore {
	if capacity <= 0 {
		capacity = DefaultScrollbackCapacity
	}
	return &ScrollbackStore{
		rows:     make([]Row, capacity),
		capacity: capacity,
	}
}

// Len returns the number of retained rows.
func (s *ScrollbackStore) Len() int { return s.length }

// Capacity returns the maximum number of retained rows.
func (s *ScrollbackStore) Capacity() int { return s.capacity }

// TotalPushed returns the monotonic count of rows ever pushed, surviving
// evictions and Clear. It sequences retired rows for external indexing.
func (s *ScrollbackStore) TotalPushed() int64 { return s.pushed }

// Push appends a row at the tail, evicting the head row if full.
func (s *ScrollbackStore) Push(row Row) {
	s.pushed++
	if s.length == s.capacity {
		s.rows[s.head] = row
		s.head = (s.head + 1) % s.capacity
		return
	}
	s.rows[(s.head+s.length)%s.capacity] = row
	s.length++
}

// Get returns the row at logical history position index (0 = oldest), or
// ErrOutOfRange. The returned row must not be mutated.
func (s *ScrollbackStore) Get(index int) (Row, error) {
	if index < 0 || index >= s.length {
		return Row{}, ErrOutOfRange
	}
	return s.rows[(s.head+index)%s.capacity], nil
}

// Clear discards all retained rows (ED 3).
func (s *ScrollbackStore) Clear() {
	s.head = 0
	s.length = 0
	for i := range s.rows {
		s.rows[i] = Row{}
	}
}
