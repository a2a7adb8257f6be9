// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: searchindex/searchindex_test.go
// Summary: Tests for the in-memory FTS5 history index.
// Usage: Run with `go test`.

package searchindex

import (
	"testing"
	"time"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New()
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

// TestIndexAndSearch verifies substring matching over indexed lines.
func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)
	base := time.Now()
	lines := []string{
		"ls -la /tmp",
		"docker ps -a",
		"git status",
		"docker compose up",
	}
	for i, l := range lines {
		if err := idx.IndexLine(int64(i), base.Add(time.Duration(i)*time.Second), l); err != nil {
			t.Fatal(err)
		}
	}
	if err := idx.Flush(); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search("docker", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	// Newest first.
	if results[0].LineIdx != 3 || results[1].LineIdx != 1 {
		t.Errorf("order = %d,%d, want 3,1", results[0].LineIdx, results[1].LineIdx)
	}

	// Substrings with shell punctuation match literally.
	results, err = idx.Search("s -a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].LineIdx != 1 {
		t.Errorf("punctuated query results = %+v", results)
	}
}

// TestShortQueryFallsBackToLike verifies sub-trigram queries still match.
func TestShortQueryFallsBackToLike(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.IndexLine(0, time.Now(), "go build ./..."); err != nil {
		t.Fatal(err)
	}
	idx.Flush()

	results, err := idx.Search("go", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("short query results = %d, want 1", len(results))
	}
}

// TestEmptyLinesSkipped verifies blank lines never enter the index.
func TestEmptyLinesSkipped(t *testing.T) {
	idx := newTestIndex(t)
	idx.IndexLine(0, time.Now(), "")
	idx.IndexLine(1, time.Now(), "real content")
	idx.Flush()

	results, err := idx.Search("content", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].LineIdx != 1 {
		t.Errorf("results = %+v", results)
	}
}

// TestClear verifies Clear empties the index and it keeps working.
func TestClear(t *testing.T) {
	idx := newTestIndex(t)
	idx.IndexLine(0, time.Now(), "before clear")
	idx.Flush()
	if err := idx.Clear(); err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search("before", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("matches survived Clear: %+v", results)
	}

	idx.IndexLine(1, time.Now(), "after clear")
	idx.Flush()
	results, _ = idx.Search("after", 10)
	if len(results) != 1 {
		t.Errorf("index unusable after Clear: %+v", results)
	}
}

// TestEmptyQuery verifies the empty query returns nothing without error.
func TestEmptyQuery(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search("", 10)
	if err != nil || results != nil {
		t.Errorf("empty query: results=%v err=%v", results, err)
	}
}
