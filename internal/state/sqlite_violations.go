package state

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// RecordViolations stores the violations a run found, in one transaction.
func (s *SQLiteStore) RecordViolations(runID string, violations []core.RunViolation) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if len(violations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx(),
		`INSERT INTO violations (run_id, path, code, line, col, description) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range violations {
		if _, err := stmt.ExecContext(ctx(), runID, v.Path, v.Code, v.Line, v.Column, v.Description); err != nil {
			return fmt.Errorf("failed to record violation %s at %s:%d: %w", v.Code, v.Path, v.Line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit violations: %w", err)
	}
	s.logger.Debug("recorded violations", slog.String("run", runID), slog.Int("count", len(violations)))
	return nil
}

// ViolationCounts returns the number of violations per code for a run.
func (s *SQLiteStore) ViolationCounts(runID string) (map[string]int, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx(),
		`SELECT code, COUNT(*) FROM violations WHERE run_id = ? GROUP BY code`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count violations: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("failed to count violations: %w", err)
		}
		counts[code] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count violations: %w", err)
	}
	return counts, nil
}

// ListViolations returns the stored violations of a run ordered by path
// and position.
func (s *SQLiteStore) ListViolations(runID string) ([]core.RunViolation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx(),
		`SELECT path, code, line, col, description FROM violations WHERE run_id = ? ORDER BY path, line, col, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	var out []core.RunViolation
	for rows.Next() {
		var v core.RunViolation
		if err := rows.Scan(&v.Path, &v.Code, &v.Line, &v.Column, &v.Description); err != nil {
			return nil, fmt.Errorf("failed to list violations: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
