// Package journal records capture runs in SQLite so repeated daily grabs are
// auditable: one row per run, one per saved page. A failing journal never
// blocks a capture — callers log and move on.
package journal

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/chuachunmin/issuegrab/capture"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER,
	pages       INTEGER NOT NULL DEFAULT 0,
	output_path TEXT
);
CREATE TABLE IF NOT EXISTS pages (
	run_id             TEXT NOT NULL REFERENCES runs(run_id),
	page_index         INTEGER NOT NULL,
	fingerprint_sha256 TEXT NOT NULL,
	file_path          TEXT NOT NULL,
	width              INTEGER NOT NULL,
	height             INTEGER NOT NULL,
	kind               TEXT NOT NULL,
	saved_at           INTEGER NOT NULL,
	PRIMARY KEY (run_id, page_index)
);
`

// Pragmas applied on open, in EXEC form so they work with any driver.
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Journal is a capture-run ledger backed by SQLite.
type Journal struct {
	db    *sql.DB
	runID string
}

// Open opens (creating if needed) the journal database at path. Parent
// directories are created.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// StartRun opens a new run row and returns its ID.
func (j *Journal) StartRun(ctx context.Context) (string, error) {
	runID := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("journal: start run: %w", err)
	}
	j.runID = runID
	return runID, nil
}

// RecordPage stores one saved page artifact under the current run. The raw
// fingerprint can be a multi-megabyte data URL, so only its SHA-256 is kept.
func (j *Journal) RecordPage(ctx context.Context, index int, cand capture.PageCandidate, path string) error {
	if j.runID == "" {
		return fmt.Errorf("journal: no run started")
	}
	sum := sha256.Sum256([]byte(cand.Fingerprint))
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO pages (run_id, page_index, fingerprint_sha256, file_path, width, height, kind, saved_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		j.runID, index, hex.EncodeToString(sum[:]), path,
		cand.Width, cand.Height, string(cand.Kind), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("journal: record page: %w", err)
	}
	return nil
}

// FinishRun closes out the current run with its totals.
func (j *Journal) FinishRun(ctx context.Context, pages int, outputPath string) error {
	if j.runID == "" {
		return fmt.Errorf("journal: no run started")
	}
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, pages = ?, output_path = ? WHERE run_id = ?`,
		time.Now().Unix(), pages, outputPath, j.runID)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	return nil
}

// PageCount returns how many pages are recorded for a run.
func (j *Journal) PageCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("journal: page count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
