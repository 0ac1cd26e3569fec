package core

import "time"

// Store records lint runs and the violations they found.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Run operations
	StartRun(command, dialect string) (*Run, error)
	CompleteRun(id string, status RunStatus, files, violations int) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	// Violation operations
	RecordViolations(runID string, violations []RunViolation) error
	ViolationCounts(runID string) (map[string]int, error)
	ListViolations(runID string) ([]RunViolation, error)
}

// RunStatus represents the status of a lint run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusClean     RunStatus = "clean"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one invocation of lint or fix over a set of files.
type Run struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	Dialect    string     `json:"dialect"`
	Status     RunStatus  `json:"status"`
	Files      int        `json:"files"`
	Violations int        `json:"violations"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunViolation is a violation as stored in the run history.
type RunViolation struct {
	Path        string `json:"path"`
	Code        string `json:"code"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Description string `json:"description"`
}
