// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists extracted requirements across RFCs in a
// searchable index.
// Implements: the requirement index (SQLite with a full-text table),
// replace-on-reindex ingestion, batch indexing with progress lines, keyword
// and filter search, and YAML/JSON export.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/extract"
	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const (
	dbFile            = "requirements.db"
	defaultIndexDir   = "index"
	defaultMaxResults = 20
)

// Store manages the requirement index database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index at cfg.IndexDir/requirements.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dir := cfg.IndexDir
	if dir == "" {
		dir = defaultIndexDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, indexDir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.indexDir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rfc INTEGER PRIMARY KEY,
			title TEXT,
			source TEXT,
			requirement_count INTEGER,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS requirements (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			rfc INTEGER NOT NULL REFERENCES documents(rfc),
			level TEXT NOT NULL,
			sentence TEXT NOT NULL,
			section TEXT,
			section_title TEXT,
			subject TEXT,
			action TEXT,
			condition TEXT,
			exception TEXT,
			full_context TEXT,
			UNIQUE(rfc, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requirements_rfc ON requirements(rfc)`,
		`CREATE INDEX IF NOT EXISTS idx_requirements_level ON requirements(level)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// External-content FTS4 table kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='requirements_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE requirements_fts USING fts4(content="requirements", sentence, section_title)`,
			`CREATE TRIGGER requirements_bd BEFORE DELETE ON requirements BEGIN
				DELETE FROM requirements_fts WHERE docid = old.rowid;
			END`,
			`CREATE TRIGGER requirements_bu BEFORE UPDATE ON requirements BEGIN
				DELETE FROM requirements_fts WHERE docid = old.rowid;
			END`,
			`CREATE TRIGGER requirements_ai AFTER INSERT ON requirements BEGIN
				INSERT INTO requirements_fts(docid, sentence, section_title) VALUES (new.rowid, new.sentence, new.section_title);
			END`,
			`CREATE TRIGGER requirements_au AFTER UPDATE ON requirements BEGIN
				INSERT INTO requirements_fts(docid, sentence, section_title) VALUES (new.rowid, new.sentence, new.section_title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// Document identifies one indexed RFC.
type Document struct {
	RFC    int
	Title  string
	Source types.SourceFormat
}

// Ingest replaces the indexed requirements of doc.RFC with reqs. It reports
// whether the RFC was already indexed.
func (s *Store) Ingest(ctx context.Context, doc Document, reqs []types.Requirement) (updated bool, err error) {
	if err := acquire.ValidNumber(doc.RFC); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM documents WHERE rfc = ?`, doc.RFC).Scan(&existing); err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	updated = existing > 0

	if _, err := tx.ExecContext(ctx, `DELETE FROM requirements WHERE rfc = ?`, doc.RFC); err != nil {
		return false, fmt.Errorf("deleting old requirements: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (rfc, title, source, requirement_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(rfc) DO UPDATE SET
			title=excluded.title, source=excluded.source,
			requirement_count=excluded.requirement_count, indexed_at=excluded.indexed_at`,
		doc.RFC, doc.Title, string(doc.Source), len(reqs), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO requirements (id, rfc, level, sentence, section, section_title,
			subject, action, condition, exception, full_context)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reqs {
		_, err := stmt.ExecContext(ctx,
			r.ID, doc.RFC, string(r.Level), r.Text, r.Section, r.SectionTitle,
			r.Subject, r.Action, r.Condition, r.Exception, r.FullContext,
		)
		if err != nil {
			return false, fmt.Errorf("inserting requirement %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	return updated, nil
}

// Source supplies parsed RFCs for indexing. *service.Service satisfies it.
type Source interface {
	Document(ctx context.Context, n int) (*service.Parsed, error)
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Failed  int
}

// Total returns the number of RFCs processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Failed
}

// IngestBatch parses each RFC through src and indexes its requirements with
// components filled. One RFC failing does not stop the batch.
func (s *Store) IngestBatch(ctx context.Context, src Source, numbers []int, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, n := range numbers {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		slug := acquire.Slug(n)
		p, err := src.Document(ctx, n)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", slug, err)
			summary.Failed++
			continue
		}

		reqs := extract.Requirements(p.Document.Sections, extract.Options{ParseComponents: true})
		updated, err := s.Ingest(ctx, Document{RFC: n, Title: p.Document.Metadata.Title, Source: p.Source}, reqs)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", slug, err)
			summary.Failed++
			continue
		}

		if updated {
			fmt.Fprintf(w, "updated %s (%d requirements)\n", slug, len(reqs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d requirements)\n", slug, len(reqs))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Failed)
	return summary, nil
}
