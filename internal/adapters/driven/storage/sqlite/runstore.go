package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores a run and replaces its issues.
func (s *runStore) SaveRun(ctx context.Context, run domain.RunRecord, issues []domain.Issue) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, ended_at, status, error, scanned, emitted, unmapped,
			failed, duplicates, collisions, total_office_a, total_office_b, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			status = excluded.status,
			error = excluded.error,
			scanned = excluded.scanned,
			emitted = excluded.emitted,
			unmapped = excluded.unmapped,
			failed = excluded.failed,
			duplicates = excluded.duplicates,
			collisions = excluded.collisions,
			total_office_a = excluded.total_office_a,
			total_office_b = excluded.total_office_b,
			output_path = excluded.output_path
	`, run.ID, formatTime(run.StartedAt), formatNullableTime(run.EndedAt),
		string(run.Status), nullString(run.Error),
		run.Scanned, run.Emitted, run.Unmapped, run.Failed, run.Duplicates, run.Collisions,
		run.TotalOfficeA, run.TotalOfficeB, nullString(run.OutputPath))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_issues WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing run issues: %w", err)
	}

	if len(issues) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_issues (run_id, seq, kind, external_id, detail)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing issue insert: %w", err)
		}
		defer stmt.Close()

		for i, issue := range issues {
			if _, err := stmt.ExecContext(ctx, run.ID, i, string(issue.Kind),
				issue.ExternalID, nullString(issue.Detail)); err != nil {
				return fmt.Errorf("saving issue: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, status, error, scanned, emitted, unmapped,
			failed, duplicates, collisions, total_office_a, total_office_b, output_path
		FROM runs WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit returns all runs.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, status, error, scanned, emitted, unmapped,
			failed, duplicates, collisions, total_office_a, total_office_b, output_path
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ListIssues returns the issues recorded for a run in recorded order.
func (s *runStore) ListIssues(ctx context.Context, runID string) ([]domain.Issue, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT kind, external_id, detail
		FROM run_issues
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run issues: %w", err)
	}
	defer rows.Close()

	var issues []domain.Issue //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			kind   string
			issue  domain.Issue
			detail sql.NullString
		)
		if err := rows.Scan(&kind, &issue.ExternalID, &detail); err != nil {
			return nil, fmt.Errorf("scanning run issue: %w", err)
		}
		issue.Kind = domain.IssueKind(kind)
		issue.Detail = detail.String
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run issues: %w", err)
	}
	return issues, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var (
		run        domain.RunRecord
		startedAt  string
		endedAt    sql.NullString
		status     string
		runErr     sql.NullString
		outputPath sql.NullString
	)
	err := row.Scan(&run.ID, &startedAt, &endedAt, &status, &runErr,
		&run.Scanned, &run.Emitted, &run.Unmapped, &run.Failed, &run.Duplicates, &run.Collisions,
		&run.TotalOfficeA, &run.TotalOfficeB, &outputPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.StartedAt = parseNullableTime(sql.NullString{String: startedAt, Valid: true})
	run.EndedAt = parseNullableTime(endedAt)
	run.Status = domain.RunStatus(status)
	run.Error = runErr.String
	run.OutputPath = outputPath.String
	return &run, nil
}

// timeLayout is fixed-width so text ordering is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time, or returns nil for the zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime parses a nullable timestamp column.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
