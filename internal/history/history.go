// Package history journals finished release runs to a SQLite database so
// `shipr history` can show what was shipped, when, and with what coverage.
package history

import (
	"database/sql"
	"fmt"
)

// Outcomes recorded in the journal.
const (
	OutcomeReleased = "released"
	OutcomeFailed   = "failed"
)

// Release is one journaled release run.
type Release struct {
	ID          int64
	Version     string
	Tag         string
	Branch      sql.NullString
	Coverage    sql.NullFloat64
	Outcome     string
	FailedState sql.NullString
	DurationMS  int64
	CreatedAt   string
}

// Repository provides journal operations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record appends a release run to the journal and returns its ID.
func (r *Repository) Record(rel Release) (int64, error) {
	if rel.Version == "" {
		return 0, fmt.Errorf("journal entry missing version")
	}
	if rel.Outcome != OutcomeReleased && rel.Outcome != OutcomeFailed {
		return 0, fmt.Errorf("invalid outcome %q", rel.Outcome)
	}
	res, err := r.db.Exec(`INSERT INTO releases
		(version, tag, branch, coverage, outcome, failed_state, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		rel.Version, rel.Tag, rel.Branch, rel.Coverage, rel.Outcome, rel.FailedState, rel.DurationMS)
	if err != nil {
		return 0, fmt.Errorf("insert release: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent entries, newest first. limit <= 0 means all.
func (r *Repository) List(limit int) ([]Release, error) {
	q := `SELECT id, version, tag, branch, coverage, outcome, failed_state, duration_ms, created_at
		FROM releases ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = r.db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Release
	for rows.Next() {
		var rel Release
		if err := rows.Scan(&rel.ID, &rel.Version, &rel.Tag, &rel.Branch, &rel.Coverage,
			&rel.Outcome, &rel.FailedState, &rel.DurationMS, &rel.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// Last returns the most recent journaled release, or nil when the journal
// is empty.
func (r *Repository) Last() (*Release, error) {
	rels, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return &rels[0], nil
}
