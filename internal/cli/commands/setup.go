// Package commands implements the leaplint subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/spf13/cobra"
)

// ErrViolations is returned by commands that found lint or parse
// violations. The process exits with status 1 for it.
var ErrViolations = errors.New("lint issues found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return nil, nil, err
	}

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Engine = eng

	cleanup := func() {
		if err := eng.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close engine", slog.String("error", err.Error()))
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only read the rule and dialect registries.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)).
		WithNoColor(cfg.NoColor)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// WithFormat replaces the renderer when a command-level --format was given.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) {
	if format == "" {
		return
	}
	c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format)).
		WithNoColor(c.Cfg.NoColor)
}

// Helper functions shared across commands

// getConfig returns the configuration loaded by the root command, or
// loads it from the command's flags when the command runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg, ok := config.FromContext(cmd.Context()); ok {
		return cfg, nil
	}
	cfg, err := config.LoadConfig("", cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	recurse := cfg.Recurse
	engineCfg := engine.Config{
		Project:   cfg.Project(),
		Recurse:   &recurse,
		Verbosity: cfg.Verbose,
		Root:      cfg.ProjectRoot,
		Logger:    logger,
	}
	if cfg.History != nil && cfg.History.Enabled {
		engineCfg.HistoryPath = cfg.History.Path
	}
	return engine.New(engineCfg)
}

// readSource reads one input: a file, or stdin for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == engine.StdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// sources expands the command's arguments into inputs: "-" for stdin,
// files as given, directories walked for SQL files.
func sources(eng *engine.Engine, args []string) ([]string, error) {
	paths, err := eng.Discover(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no SQL files found")
	}
	return paths, nil
}
