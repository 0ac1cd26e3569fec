package engine

// run.go - linting and fixing files in parallel, with history recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"golang.org/x/sync/errgroup"
)

// Command names recorded in the run history.
const (
	CommandLint = "lint"
	CommandFix  = "fix"
)

// RunOptions configures LintFiles.
type RunOptions struct {
	// Fix runs the fix loop on every file
	Fix bool
	// Write saves fixed files in place; only with Fix
	Write bool
	// Jobs bounds the number of files processed at once (NumCPU if < 1)
	Jobs int
	// Stdin is read for StdinPath
	Stdin io.Reader
}

// RunResult is the outcome of LintFiles. Files are in input order.
type RunResult struct {
	RunID    string
	Fix      bool
	Files    []*lint.FileResult
	Duration time.Duration
}

// ViolationCount returns the number of violations over all files. For a
// fix run these are the violations left after fixing.
func (r *RunResult) ViolationCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(Remaining(f, r.Fix))
	}
	return n
}

// Remaining returns what is still wrong with f after a run: the
// violations after fixing when the fix loop ran on it, all of them
// otherwise.
func Remaining(f *lint.FileResult, fixed bool) []lint.Violation {
	if fixed && f.Tree != nil && f.Templated == f.Source {
		return f.Remaining
	}
	return f.Violations
}

// LintFiles lints (or fixes) paths in parallel. Files are read from disk,
// StdinPath from opts.Stdin. When history is enabled the run and its
// violations are recorded.
func (e *Engine) LintFiles(ctx context.Context, paths []string, opts RunOptions) (*RunResult, error) {
	start := time.Now()

	l, err := e.Linter("")
	if err != nil {
		return nil, err
	}

	command := CommandLint
	if opts.Fix {
		command = CommandFix
	}

	result := &RunResult{Fix: opts.Fix, Files: make([]*lint.FileResult, len(paths))}

	var run *state.Run
	if e.store != nil {
		run, err = e.store.StartRun(command, e.Dialect())
		if err != nil {
			return nil, err
		}
		result.RunID = run.ID
	}

	e.logger.Info("starting run", slog.String("command", command), slog.Int("files", len(paths)))

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	var stdin string
	for _, p := range paths {
		if p == StdinPath {
			data, err := io.ReadAll(opts.Stdin)
			if err != nil {
				return nil, e.failRun(run, fmt.Errorf("failed to read stdin: %w", err))
			}
			stdin = string(data)
			break
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw := stdin
			if p != StdinPath {
				data, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				raw = string(data)
			}

			var res *lint.FileResult
			var err error
			if opts.Fix {
				res, err = l.FixString(gctx, raw, p)
			} else {
				res, err = l.LintString(gctx, raw, p)
			}
			if err != nil {
				return err
			}

			if opts.Fix && opts.Write && p != StdinPath && res.Changed() {
				if err := writeFile(p, res.Fixed); err != nil {
					return err
				}
				e.logger.Debug("fixed file", slog.String("path", p))
			}
			result.Files[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, e.failRun(run, err)
	}

	result.Duration = time.Since(start)
	if err := e.completeRun(run, result); err != nil {
		return nil, err
	}

	e.logger.Info("run completed",
		slog.String("command", command),
		slog.Int("files", len(paths)),
		slog.Int("violations", result.ViolationCount()),
		slog.Int64("duration_ms", result.Duration.Milliseconds()))

	return result, nil
}

// writeFile replaces the content of path, keeping its mode.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

// failRun marks a recorded run as cancelled or failed and returns err.
func (e *Engine) failRun(run *state.Run, err error) error {
	if run == nil {
		return err
	}
	status := state.RunStatusFailed
	if errors.Is(err, context.Canceled) {
		status = state.RunStatusCancelled
	}
	if cerr := e.store.CompleteRun(run.ID, status, 0, 0); cerr != nil {
		e.logger.Error("failed to complete run", slog.String("run", run.ID), slog.String("error", cerr.Error()))
	}
	return err
}

// completeRun stores the violations of a finished run.
func (e *Engine) completeRun(run *state.Run, result *RunResult) error {
	if run == nil {
		return nil
	}

	var stored []state.RunViolation
	for _, f := range result.Files {
		for _, v := range Remaining(f, result.Fix) {
			stored = append(stored, state.RunViolation{
				Path:        f.Path,
				Code:        v.Code,
				Line:        v.Line,
				Column:      v.Column,
				Description: v.Description,
			})
		}
	}
	if err := e.store.RecordViolations(run.ID, stored); err != nil {
		return e.failRun(run, err)
	}

	status := state.RunStatusClean
	if len(stored) > 0 {
		status = state.RunStatusFailed
	}
	return e.store.CompleteRun(run.ID, status, len(result.Files), len(stored))
}
