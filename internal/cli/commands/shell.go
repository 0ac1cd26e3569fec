package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/spf13/cobra"
)

// Shell modes: what is printed for each line of SQL.
const (
	ShellModeTree = "tree"
	ShellModeLint = "lint"
	ShellModeLex  = "lex"
)

// shellPath is the file name reported for SQL typed into the shell.
const shellPath = "<shell>"

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive SQL parsing and linting",
		Long: `Start an interactive shell. Every line of SQL is parsed and, depending
on the mode, printed as a tree, linted or lexed.

Commands:
  .dialect [name]       Show or switch the dialect
  .mode tree|lint|lex   Choose what is printed for each line
  .help                 Show help
  .quit                 Exit`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

// shell holds the state of an interactive session.
type shell struct {
	eng     *engine.Engine
	r       *output.Renderer
	dialect string
	mode    string
}

func newShell(eng *engine.Engine, r *output.Renderer) *shell {
	return &shell{eng: eng, r: r, dialect: eng.Dialect(), mode: ShellModeTree}
}

func (s *shell) prompt() string {
	return fmt.Sprintf("leaplint(%s)> ", s.dialect)
}

func runShell(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sh := newShell(cmdCtx.Engine, cmdCtx.Renderer)

	historyFile := ""
	if cmdCtx.Cfg.History != nil && cmdCtx.Cfg.History.Path != "" {
		dir := filepath.Dir(cmdCtx.Cfg.History.Path)
		if err := os.MkdirAll(dir, 0o750); err == nil {
			historyFile = filepath.Join(dir, "shell_history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.prompt(),
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	sh.r.Printf("leaplint shell (dialect: %s, mode: %s)\n", sh.dialect, sh.mode)
	sh.r.Println("Type .help for commands, .quit to exit")
	sh.r.Println("")

	ctx := cmd.Context()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if quit := sh.handleLine(ctx, line); quit {
			return nil
		}
		rl.SetPrompt(sh.prompt())
	}
}

// handleLine runs one line of input. It reports whether the session ends.
func (s *shell) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}
	if err := s.run(ctx, line); err != nil {
		s.r.Error(err.Error())
	}
	return false
}

func (s *shell) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.r.Writer())

	case ".dialect":
		if len(parts) < 2 {
			s.r.Printf("dialect: %s (available: %s)\n", s.dialect, strings.Join(dialect.List(), ", "))
			return false
		}
		d, ok := dialect.Get(parts[1])
		if !ok {
			s.r.Error(fmt.Sprintf("unknown dialect %q (available: %s)", parts[1], strings.Join(dialect.List(), ", ")))
			return false
		}
		s.dialect = d.Name()
		s.r.Printf("dialect: %s\n", s.dialect)

	case ".mode":
		if len(parts) < 2 {
			s.r.Printf("mode: %s\n", s.mode)
			return false
		}
		switch mode := strings.ToLower(parts[1]); mode {
		case ShellModeTree, ShellModeLint, ShellModeLex:
			s.mode = mode
			s.r.Printf("mode: %s\n", s.mode)
		default:
			s.r.Error(fmt.Sprintf("unknown mode %q (expected tree, lint or lex)", parts[1]))
		}

	default:
		s.r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

// run parses, lints or lexes one line of SQL in the current mode.
func (s *shell) run(ctx context.Context, sql string) error {
	raw := sql + "\n"
	switch s.mode {
	case ShellModeLint:
		res, err := s.eng.Lint(ctx, s.dialect, raw, shellPath)
		if err != nil {
			return err
		}
		if len(res.Violations) == 0 {
			s.r.Success("no violations")
			return nil
		}
		for _, v := range res.Violations {
			renderViolation(s.r, v)
		}

	case ShellModeLex:
		lexed, err := s.eng.Lex(ctx, s.dialect, raw, shellPath)
		if err != nil {
			return err
		}
		for _, tok := range lexed.Tokens {
			pos := tok.Pos()
			s.r.Printf("%-24s %3d:%-3d %q\n", tok.Type(), pos.Line, pos.Column, tok.Raw())
		}
		renderParseViolations(s.r, lexed.Violations)

	default:
		parsed, err := s.eng.Parse(ctx, s.dialect, raw, shellPath)
		if err != nil {
			return err
		}
		if parsed.Tree != nil {
			s.r.Printf("%s", segment.Stringify(parsed.Tree, false))
		}
		renderParseViolations(s.r, parsed.Violations)
	}
	return nil
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .dialect [name]       Show or switch the dialect
  .mode tree|lint|lex   tree prints the parse tree, lint the violations,
                        lex the tokens of each line
  .help                 Show this help message
  .quit / .exit         Exit the shell

Tips:
  - Every other line is treated as SQL
  - Use arrow keys to navigate history
  - Tab completion works for commands, dialects and modes
`
	_, _ = fmt.Fprintln(w, help)
}

// newShellCompleter completes dot commands and their arguments.
func newShellCompleter() *readline.PrefixCompleter {
	dialects := make([]readline.PrefixCompleterInterface, 0, len(dialect.List()))
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".mode",
			readline.PcItem(ShellModeTree),
			readline.PcItem(ShellModeLint),
			readline.PcItem(ShellModeLex),
		),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
