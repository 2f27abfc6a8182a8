package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popper/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the placement API over HTTP",
		Long: `Serve exposes placement over HTTP. Scenes are posted as JSON, TOML or YAML:

  GET  /healthz
  GET  /v1/modifiers
  POST /v1/place
  POST /v1/pipeline   (?format=svg|dot)
  POST /v1/snapshot   (?scale=2)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			srv := server.New(
				server.WithLogger(logger),
				server.WithMaxBody(maxBody),
				server.WithTimeout(timeout),
			)
			printInfo("listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")

	return cmd
}
