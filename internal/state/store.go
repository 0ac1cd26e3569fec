// Package state records the history of lint and fix runs in SQLite: one
// row per run and one per violation it found.
//
// Core types are defined in pkg/core. This package re-exports them via
// type aliases for convenience.
package state

import (
	"errors"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Type aliases - these types are defined in pkg/core.
type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run

	// RunViolation is an alias for core.RunViolation.
	RunViolation = core.RunViolation
)

// Re-export status constants from core.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusClean     = core.RunStatusClean
	RunStatusFailed    = core.RunStatusFailed
	RunStatusCancelled = core.RunStatusCancelled
)

// Errors returned by the store.
var (
	ErrNotOpen     = errors.New("database not opened")
	ErrRunNotFound = errors.New("run not found")
)

var _ Store = (*SQLiteStore)(nil)
