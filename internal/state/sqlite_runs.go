package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

const runColumns = `id, command, dialect, status, files, violations, started_at, finished_at`

// StartRun records the start of a lint or fix run.
func (s *SQLiteStore) StartRun(command, dialect string) (*core.Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	run := &core.Run{
		ID:        generateID(),
		Command:   command,
		Dialect:   dialect,
		Status:    core.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("starting run", slog.String("id", run.ID), slog.String("command", command))

	_, err := s.db.ExecContext(ctx(),
		`INSERT INTO runs (id, command, dialect, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Dialect, string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return run, nil
}

// CompleteRun marks a run as finished with the given status and totals.
func (s *SQLiteStore) CompleteRun(id string, status core.RunStatus, files, violations int) error {
	if s.db == nil {
		return ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx(),
		`UPDATE runs SET status = ?, files = ?, violations = ?, finished_at = ? WHERE id = ?`,
		string(status), files, violations, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*core.Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx(), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListRuns retrieves the most recent runs up to the given limit.
func (s *SQLiteStore) ListRuns(limit int) ([]*core.Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx(),
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRun converts a runs row to a core.Run.
func scanRun(row scanner) (*core.Run, error) {
	var (
		run        core.Run
		status     string
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Command, &run.Dialect, &status, &run.Files, &run.Violations, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.Status = core.RunStatus(status)

	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	return &run, nil
}
