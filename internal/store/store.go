// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the conversion history: the last conversion of each
// page and the diagnostics it produced. It backs incremental conversion and
// the report command.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/sb2review/pkg/types"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = ".sb2review/history.db"

// Store manages the conversion history SQLite database.
type Store struct {
	db  *sql.DB
	run string // current run ID, stamped on every Record
}

// Open opens or creates the history database at cfg.Path (DefaultPath when
// empty) and creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			page_id TEXT PRIMARY KEY,
			run_id TEXT,
			source_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			status TEXT NOT NULL,
			errors INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			converted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			page_id TEXT NOT NULL REFERENCES pages(page_id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			level TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_page_id ON diagnostics(page_id)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_level ON diagnostics(level)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun registers a new conversion run and returns its ID. Records
// written afterwards carry the ID unless they set their own.
func (s *Store) StartRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}
	s.run = id
	return id, nil
}

// Last returns the recorded conversion of pageID. The boolean is false when
// the page has never been recorded.
func (s *Store) Last(ctx context.Context, pageID string) (types.ConversionRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT page_id, run_id, source_path, output_path, fingerprint, status, errors, warnings, converted_at
		 FROM pages WHERE page_id = ?`, pageID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ConversionRecord{}, false, nil
	}
	if err != nil {
		return types.ConversionRecord{}, false, fmt.Errorf("reading page %s: %w", pageID, err)
	}
	return rec, true, nil
}

// Record replaces the stored conversion of rec.PageID and its diagnostics
// in one transaction.
func (s *Store) Record(ctx context.Context, rec types.ConversionRecord, diags []types.Diagnostic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM diagnostics WHERE page_id = ?`, rec.PageID); err != nil {
		return fmt.Errorf("deleting old diagnostics: %w", err)
	}

	if rec.RunID == "" {
		rec.RunID = s.run
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (page_id, run_id, source_path, output_path, fingerprint, status, errors, warnings, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET
			run_id=excluded.run_id, source_path=excluded.source_path, output_path=excluded.output_path,
			fingerprint=excluded.fingerprint, status=excluded.status,
			errors=excluded.errors, warnings=excluded.warnings,
			converted_at=excluded.converted_at`,
		rec.PageID, nullString(rec.RunID), rec.SourcePath, rec.OutputPath, rec.Fingerprint, string(rec.Status),
		rec.Errors, rec.Warnings, rec.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting page: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (page_id, seq, level, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range diags {
		if _, err := stmt.ExecContext(ctx, rec.PageID, i, string(d.Level), d.Message); err != nil {
			return fmt.Errorf("inserting diagnostic %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Pages returns every recorded conversion ordered by page ID.
func (s *Store) Pages(ctx context.Context) ([]types.ConversionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_id, run_id, source_path, output_path, fingerprint, status, errors, warnings, converted_at
		 FROM pages ORDER BY page_id`)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var recs []types.ConversionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.ConversionRecord, error) {
	var (
		rec         types.ConversionRecord
		runID       sql.NullString
		status      string
		convertedAt string
	)
	err := sc.Scan(&rec.PageID, &runID, &rec.SourcePath, &rec.OutputPath, &rec.Fingerprint,
		&status, &rec.Errors, &rec.Warnings, &convertedAt)
	if err != nil {
		return rec, err
	}
	rec.RunID = runID.String
	rec.Status = types.ConversionStatus(status)
	if t, err := time.Parse(time.RFC3339Nano, convertedAt); err == nil {
		rec.ConvertedAt = t
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
