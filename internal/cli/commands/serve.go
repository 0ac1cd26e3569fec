package commands

import (
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Watch []string // Paths re-linted on change
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse and lint API over HTTP",
		Long: `Start an HTTP server with a JSON API.

Endpoints:
  POST /parse, /lex, /lint, /fix   body: {"sql": "...", "dialect": "...", "path": "..."}
  GET  /rules, /rules/{id}         rule documentation
  GET  /dialects                   registered dialects
  GET  /runs, /runs/{id}           run history (with --history)
  GET  /events                     server-sent lint events
  GET  /healthz

The server shuts down gracefully on interrupt.`,
		Example: `  # Serve on the default address
  leaplint serve

  # Serve on another port and push lint events for a directory
  leaplint serve --addr :9000 --watch ./queries`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: "+config.DefaultServeAddr+")")
	cmd.Flags().StringSliceVar(&opts.Watch, "watch", nil, "Re-lint these paths on change and push /events")
	cmd.Flags().Bool("history", false, "Record watched runs and serve /runs")
	cmd.Flags().String("history-path", "", "Path of the history database")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(server.Config{
		Engine: cmdCtx.Engine,
		Addr:   cmdCtx.Cfg.Serve.Addr,
		Watch:  opts.Watch,
		Logger: cmdCtx.Logger,
	})
	return srv.Serve(cmd.Context())
}
