package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol server on stdin/stdout",
	Long: `Exposes the concierge as MCP tools (create_session, submit_message,
get_session, get_graph) over stdio, for agents that launch it as a subprocess.
Logs go to stderr. For the HTTP transport use 'serve --mcp'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		app, err := cli.Build(cmd.Context(), cfg, logger, cli.Collaborators{})
		if err != nil {
			return err
		}
		defer app.Close()

		logger.Info("Starting concierge MCP server (stdio)")
		return app.MCPServer(logger).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
