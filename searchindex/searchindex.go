// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: searchindex/searchindex.go
// Summary: In-memory SQLite FTS5 index over retired terminal history.
// Usage: The front-end feeds retired rows via IndexLine and runs substring
//        queries to jump into deep history without a linear rescan.
// Notes: The database lives in :memory: only; nothing is written to disk
//        across sessions. The engine's own search stays authoritative for
//        on-screen highlighting; this index accelerates lookup over large
//        histories.

package searchindex

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Result is a single indexed line matching a query.
type Result struct {
	LineIdx   int64 // index in the combined history space at index time
	Timestamp time.Time
	Content   string
}

// Config tunes the batching behavior of the background indexer.
type Config struct {
	// BatchSize is the number of entries accumulated before a flush.
	BatchSize int
	// BatchTimeout bounds how long a partial batch waits.
	BatchTimeout time.Duration
	// ChannelBuffer sizes the async indexing queue; full queue drops entries.
	ChannelBuffer int
}

// DefaultConfig returns the defaults used by the front-end.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		BatchTimeout:  5 * time.Second,
		ChannelBuffer: 1000,
	}
}

type entry struct {
	lineIdx   int64
	timestamp time.Time
	text      string
}

// Index is a trigram FTS5 index over terminal history lines, held entirely
// in memory. Writes batch through a background goroutine; reads are
// serialized with writes by a mutex.
type Index struct {
	config Config
	db     *sql.DB

	batchChan chan entry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu sync.RWMutex
}

const schema = `
CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY,       -- history line index
    timestamp INTEGER NOT NULL,   -- UnixNano when the line retired
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_timestamp ON lines(timestamp);

-- Trigram tokenizer gives literal substring matching ("ls -la", paths).
CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
    content,
    content='lines',
    content_rowid='id',
    tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
    INSERT INTO lines_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS lines_au AFTER UPDATE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, content) VALUES ('delete', old.id, old.content);
    INSERT INTO lines_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
`

// New creates an in-memory index and starts its background batch writer.
func New() (*Index, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an index with custom batching parameters.
func NewWithConfig(config Config) (*Index, error) {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = 5 * time.Second
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = 1000
	}

	db, err := sql.Open("sqlite", ":memory:?_pragma=temp_store(MEMORY)")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	// An in-memory database exists per connection; more than one connection
	// would see different databases.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	idx := &Index{
		config:    config,
		db:        db,
		batchChan: make(chan entry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go idx.batchWriter()
	return idx, nil
}

// IndexLine queues a retired history line for indexing. Empty lines are
// skipped; a full queue drops the entry rather than blocking the write path.
func (idx *Index) IndexLine(lineIdx int64, timestamp time.Time, text string) error {
	if text == "" {
		return nil
	}
	select {
	case idx.batchChan <- entry{lineIdx: lineIdx, timestamp: timestamp, text: text}:
	default:
		log.Printf("searchindex: queue full, dropping line %d", lineIdx)
	}
	return nil
}

// Clear drops every indexed line; called when the child clears scrollback.
func (idx *Index) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	_, err := idx.db.Exec("DELETE FROM lines")
	return err
}

// Search returns up to limit lines containing query as a literal substring,
// newest first. Queries under three bytes fall back to LIKE because the
// trigram tokenizer cannot match them.
func (idx *Index) Search(query string, limit int) ([]Result, error) {
	if query == "" {
		return nil, nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if len(query) < 3 {
		pattern := "%" + strings.ReplaceAll(strings.ReplaceAll(query, "%", `\%`), "_", `\_`) + "%"
		rows, err = idx.db.Query(`
			SELECT id, timestamp, content
			FROM lines
			WHERE content LIKE ? ESCAPE '\'
			ORDER BY timestamp DESC
			LIMIT ?
		`, pattern, limit)
	} else {
		// Double quotes make the FTS query a literal string, not syntax.
		quoted := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
		rows, err = idx.db.Query(`
			SELECT l.id, l.timestamp, l.content
			FROM lines_fts
			JOIN lines l ON l.id = lines_fts.rowid
			WHERE lines_fts MATCH ?
			ORDER BY l.timestamp DESC
			LIMIT ?
		`, quoted, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var tsNano int64
		if err := rows.Scan(&r.LineIdx, &tsNano, &r.Content); err != nil {
			continue
		}
		r.Timestamp = time.Unix(0, tsNano)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Flush blocks until every queued entry is written.
func (idx *Index) Flush() error {
	done := make(chan struct{})
	select {
	case idx.flushCh <- done:
		<-done
	case <-idx.stopCh:
	}
	return nil
}

// Close flushes pending writes, stops the background writer and closes the
// database, discarding the in-memory index.
func (idx *Index) Close() error {
	close(idx.stopCh)
	<-idx.doneCh
	return idx.db.Close()
}

// batchWriter batches queued entries into single transactions.
func (idx *Index) batchWriter() {
	defer close(idx.doneCh)

	batch := make([]entry, 0, idx.config.BatchSize)
	timer := time.NewTimer(idx.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		idx.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-idx.batchChan:
			batch = append(batch, e)
			if len(batch) >= idx.config.BatchSize {
				flush()
				timer.Reset(idx.config.BatchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(idx.config.BatchTimeout)

		case done := <-idx.flushCh:
			draining := true
			for draining {
				select {
				case e := <-idx.batchChan:
					batch = append(batch, e)
				default:
					draining = false
				}
			}
			flush()
			close(done)

		case <-idx.stopCh:
			for {
				select {
				case e := <-idx.batchChan:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// writeBatch commits a batch in one transaction.
func (idx *Index) writeBatch(batch []entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		log.Printf("searchindex: begin transaction: %v", err)
		return
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO lines (id, timestamp, content) VALUES (?, ?, ?)")
	if err != nil {
		log.Printf("searchindex: prepare: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.lineIdx, e.timestamp.UnixNano(), e.text); err != nil {
			log.Printf("searchindex: insert line %d: %v", e.lineIdx, err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("searchindex: commit: %v", err)
	}
}
