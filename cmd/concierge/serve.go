package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the concierge as a JSON API over HTTP, with Prometheus metrics on /metrics.
With --mcp the same conversations are exposed as MCP tools on /mcp (streamable HTTP).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := cli.Build(ctx, cfg, logger, cli.Collaborators{})
		if err != nil {
			return err
		}
		defer app.Close()

		l, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
		}

		logger.Info("Starting concierge",
			"addr", cfg.Server.Addr,
			"llm", cfg.LLM.Provider,
			"lookup", cfg.Lookup.Source,
			"store", cfg.Store.Backend,
			"mcp", cfg.Server.MCP,
		)
		err = cli.Serve(ctx, l, app.Handler(logger), cfg.Server.ShutdownTimeout, logger)
		if sig := ctx.Signal(); sig != nil {
			logger.Info("Concierge stopped", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default :8080)")
	serveCmd.Flags().Bool("mcp", false, "Also serve the Model Context Protocol on /mcp")
}
