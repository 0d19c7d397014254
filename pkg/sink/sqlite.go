package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // database/sql driver

	"github.com/yaklabco/edixml/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	sha256 TEXT NOT NULL,
	encoding TEXT NOT NULL,
	segments INTEGER NOT NULL,
	xml TEXT NOT NULL,
	converted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_run_id ON documents(run_id);
CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source);
CREATE INDEX IF NOT EXISTS idx_documents_sha256 ON documents(sha256);
`

// StoredDocument is one row of the documents table.
type StoredDocument struct {
	ID          string
	RunID       string
	Source      string
	SHA256      string
	Encoding    string
	Segments    int
	XML         string
	ConvertedAt time.Time
}

// SQLiteSink stores documents as rows of a SQLite database.
type SQLiteSink struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path. Rows written
// through the sink carry runID.
func OpenSQLite(path, runID string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps writes ordered and avoids lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteSink{db: db, runID: runID, now: time.Now}, nil
}

// Write implements Sink.
func (s *SQLiteSink) Write(ctx context.Context, doc *Document) (Outcome, error) {
	if s.db == nil {
		return Outcome{}, ErrClosed
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, run_id, source, sha256, encoding, segments, xml, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.runID, doc.Source, doc.SHA256, doc.Encoding, doc.Segments, doc.XML, s.now().UTC(),
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("insert document %s: %w", doc.Source, err)
	}

	logging.FromContext(ctx).Debug("stored document",
		logging.FieldDocumentID, id,
		logging.FieldPath, doc.Source)
	return Outcome{Location: id, Written: true, Bytes: len(doc.XML)}, nil
}

// Documents returns the rows of a run ordered by source.
func (s *SQLiteSink) Documents(ctx context.Context, runID string) ([]StoredDocument, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, source, sha256, encoding, segments, xml, converted_at
		 FROM documents WHERE run_id = ? ORDER BY source`, runID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []StoredDocument
	for rows.Next() {
		var d StoredDocument
		if err := rows.Scan(&d.ID, &d.RunID, &d.Source, &d.SHA256, &d.Encoding, &d.Segments, &d.XML, &d.ConvertedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Close implements Sink.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
