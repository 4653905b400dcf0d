package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/staticroute/internal/emitter"
)

// ErrNoRuns is returned by LatestRun on an empty ledger.
var ErrNoRuns = errors.New("no emission runs recorded")

// Run is one recorded emission.
type Run struct {
	ID           string         `json:"id"`
	Seq          int64          `json:"seq"`
	Source       string         `json:"source"`
	SourceSHA256 string         `json:"source_sha256"`
	Files        []emitter.File `json:"files"`
}

// NewRun builds a run record from an emission result.
func NewRun(id string, result *emitter.Result) Run {
	files := make([]emitter.File, len(result.Files))
	copy(files, result.Files)
	return Run{
		ID:           id,
		Source:       result.Source,
		SourceSHA256: result.SourceSHA256,
		Files:        files,
	}
}

// Routes returns the routes of the run in lexical order.
func (r *Run) Routes() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Route)
	}
	sort.Strings(out)
	return out
}

// RecordRun appends run and assigns its seq. The run and its files are
// written in one transaction.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, source, source_sha256, emitted)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, seq, run.Source, run.SourceSHA256, len(run.Files))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, f := range run.Files {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_files (run_id, route, path, sha256)
			VALUES (?, ?, ?, ?)
		`, run.ID, f.Route, f.Path, f.SHA256)
		if err != nil {
			return fmt.Errorf("record run file %s: %w", f.Route, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	run.Seq = seq
	return nil
}

// LatestRun returns the run with the highest seq, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	return s.runAt(ctx, `SELECT id, seq, source, source_sha256 FROM runs ORDER BY seq DESC LIMIT 1`)
}

// PreviousRun returns the run recorded immediately before seq, or ErrNoRuns.
func (s *Store) PreviousRun(ctx context.Context, seq int64) (*Run, error) {
	return s.runAt(ctx, `SELECT id, seq, source, source_sha256 FROM runs WHERE seq < ? ORDER BY seq DESC LIMIT 1`, seq)
}

// CountRuns returns the number of recorded runs.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func (s *Store) runAt(ctx context.Context, query string, args ...any) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&run.ID, &run.Seq, &run.Source, &run.SourceSHA256)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT route, path, sha256 FROM run_files
		WHERE run_id = ?
		ORDER BY route ASC
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("read run files: %w", err)
	}
	defer rows.Close()

	run.Files = []emitter.File{}
	for rows.Next() {
		var f emitter.File
		if err := rows.Scan(&f.Route, &f.Path, &f.SHA256); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		run.Files = append(run.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run files: %w", err)
	}
	return run, nil
}

// Stale returns the files of prev whose routes are not in current.
func Stale(prev *Run, current []string) []emitter.File {
	if prev == nil {
		return nil
	}
	keep := make(map[string]bool, len(current))
	for _, r := range current {
		keep[r] = true
	}
	var stale []emitter.File
	for _, f := range prev.Files {
		if !keep[f.Route] {
			stale = append(stale, f)
		}
	}
	return stale
}
