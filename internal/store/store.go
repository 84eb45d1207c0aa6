// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps the digest history in SQLite: every generated digest,
// its ranked entries, the reference index handed to the user, and the
// feedback sessions recorded against it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const dbFile = "digests.db"

// ErrNotFound is returned when a digest does not exist.
var ErrNotFound = errors.New("digest not found")

// Store manages the digest history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dir/digests.db and creates the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS digests (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			period TEXT NOT NULL,
			generated_at TEXT,
			partial INTEGER NOT NULL DEFAULT 0,
			record TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			digest_id TEXT NOT NULL REFERENCES digests(id) ON DELETE CASCADE,
			paper_id TEXT NOT NULL,
			rank INTEGER NOT NULL,
			tier TEXT NOT NULL,
			score REAL NOT NULL,
			exclusion_reason TEXT,
			reasons TEXT,
			PRIMARY KEY (digest_id, paper_id)
		)`,
		`CREATE TABLE IF NOT EXISTS refs (
			digest_id TEXT NOT NULL REFERENCES digests(id) ON DELETE CASCADE,
			ref_index INTEGER NOT NULL,
			paper_id TEXT NOT NULL,
			PRIMARY KEY (digest_id, ref_index)
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			digest_id TEXT,
			date TEXT NOT NULL,
			record TEXT NOT NULL,
			history TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_paper_id ON entries(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_digest_id ON feedback(digest_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveDigest writes d, its entries and its reference index in one
// transaction. Saving a digest with an existing ID replaces it.
func (s *Store) SaveDigest(ctx context.Context, d types.Digest) error {
	record, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding digest: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM digests WHERE id = ?`, d.ID); err != nil {
		return fmt.Errorf("replacing digest: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO digests (id, period, generated_at, partial, record) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Period, d.Provenance.GeneratedAt, d.Provenance.Partial, string(record),
	)
	if err != nil {
		return fmt.Errorf("inserting digest: %w", err)
	}

	entryStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (digest_id, paper_id, rank, tier, score, exclusion_reason, reasons)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	for _, e := range d.Entries {
		reasons, _ := json.Marshal(e.Reasons)
		_, err := entryStmt.ExecContext(ctx,
			d.ID, e.Candidate.ID, e.Rank, string(e.Tier), e.Score,
			string(e.ExclusionReason), string(reasons),
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.Candidate.ID, err)
		}
	}

	refStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (digest_id, ref_index, paper_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing ref insert: %w", err)
	}
	defer refStmt.Close()

	for _, block := range d.Tiers {
		for _, item := range block.Items {
			if _, err := refStmt.ExecContext(ctx, d.ID, item.RankIndex, item.PaperID); err != nil {
				return fmt.Errorf("inserting ref %d: %w", item.RankIndex, err)
			}
		}
	}

	return tx.Commit()
}

// LoadDigest returns the digest with the given ID.
func (s *Store) LoadDigest(ctx context.Context, id string) (types.Digest, error) {
	return s.scanDigest(s.db.QueryRowContext(ctx,
		`SELECT record FROM digests WHERE id = ?`, id), id)
}

// LatestDigest returns the most recently saved digest.
func (s *Store) LatestDigest(ctx context.Context) (types.Digest, error) {
	return s.scanDigest(s.db.QueryRowContext(ctx,
		`SELECT record FROM digests ORDER BY seq DESC LIMIT 1`), "latest")
}

func (s *Store) scanDigest(row *sql.Row, label string) (types.Digest, error) {
	var record string
	if err := row.Scan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Digest{}, fmt.Errorf("%s: %w", label, ErrNotFound)
		}
		return types.Digest{}, fmt.Errorf("reading digest: %w", err)
	}
	var d types.Digest
	if err := json.Unmarshal([]byte(record), &d); err != nil {
		return types.Digest{}, fmt.Errorf("decoding digest: %w", err)
	}
	return d, nil
}

// Resolve maps a reference index of a stored digest to its paper ID.
func (s *Store) Resolve(ctx context.Context, digestID string, ref int) (string, error) {
	var paperID string
	err := s.db.QueryRowContext(ctx,
		`SELECT paper_id FROM refs WHERE digest_id = ? AND ref_index = ?`, digestID, ref,
	).Scan(&paperID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &types.ReferenceError{Ref: ref, DigestID: digestID}
	}
	if err != nil {
		return "", fmt.Errorf("resolving ref %d: %w", ref, err)
	}
	return paperID, nil
}

// DigestSummary is one row of the digest history.
type DigestSummary struct {
	ID          string
	Period      string
	GeneratedAt string
	Partial     bool
	Presented   int
	Feedback    int
}

// ListDigests returns up to limit digests, newest first.
func (s *Store) ListDigests(ctx context.Context, limit int) ([]DigestSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.period, COALESCE(d.generated_at, ''), d.partial,
			(SELECT count(*) FROM refs r WHERE r.digest_id = d.id),
			(SELECT count(*) FROM feedback f WHERE f.digest_id = d.id)
		 FROM digests d ORDER BY d.seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	defer rows.Close()

	var out []DigestSummary
	for rows.Next() {
		var ds DigestSummary
		if err := rows.Scan(&ds.ID, &ds.Period, &ds.GeneratedAt, &ds.Partial, &ds.Presented, &ds.Feedback); err != nil {
			return nil, fmt.Errorf("scanning digest: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// RecordFeedback stores a feedback session and the history entry it
// produced. entry may be nil when the feedback changed nothing.
func (s *Store) RecordFeedback(ctx context.Context, fb types.Feedback, entry *types.HistoryEntry) error {
	record, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("encoding feedback: %w", err)
	}
	var history sql.NullString
	if entry != nil {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encoding history entry: %w", err)
		}
		history = sql.NullString{String: string(data), Valid: true}
	}
	var digestID sql.NullString
	if fb.DigestID != "" {
		digestID = sql.NullString{String: fb.DigestID, Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO feedback (digest_id, date, record, history) VALUES (?, ?, ?, ?)`,
		digestID, fb.Date, string(record), history,
	)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// PaperHistory lists the tiers a paper was placed in across stored
// digests, oldest first.
func (s *Store) PaperHistory(ctx context.Context, paperID string) ([]types.Tier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.tier FROM entries e JOIN digests d ON d.id = e.digest_id
		 WHERE e.paper_id = ? ORDER BY d.seq`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying paper history: %w", err)
	}
	defer rows.Close()

	var tiers []types.Tier
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning tier: %w", err)
		}
		tiers = append(tiers, types.Tier(t))
	}
	return tiers, rows.Err()
}

// Stats summarizes the database contents.
type Stats struct {
	Digests    int
	Entries    int
	Feedback   int
	LastPeriod string
}

// Stats returns row counts and the period of the latest digest.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	queries := []struct {
		sql  string
		dest *int
	}{
		{`SELECT count(*) FROM digests`, &st.Digests},
		{`SELECT count(*) FROM entries`, &st.Entries},
		{`SELECT count(*) FROM feedback`, &st.Feedback},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return Stats{}, fmt.Errorf("counting rows: %w", err)
		}
	}
	err := s.db.QueryRowContext(ctx,
		`SELECT period FROM digests ORDER BY seq DESC LIMIT 1`).Scan(&st.LastPeriod)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("reading last period: %w", err)
	}
	return st, nil
}
