package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/cli"
	"github.com/aretw0/concierge/internal/presentation/tui"
	"github.com/aretw0/concierge/pkg/runner"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the concierge in the terminal",
	Long: `Starts an interactive conversation on stdin/stdout.
With --json every line in and out is a JSON object, for use from scripts.`,
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

		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")
		plain, _ := cmd.Flags().GetBool("plain")

		var handler runner.IOHandler
		switch {
		case jsonMode:
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
		case plain || !runner.IsTerminal(os.Stdout):
			handler = runner.NewTextHandler(os.Stdin, os.Stdout)
		default:
			tui.PrintBanner(os.Stdout)
			handler = runner.NewTextHandler(os.Stdin, os.Stdout, runner.WithRenderer(tui.NewRenderer()))
		}

		r := runner.New(app.Concierge,
			runner.WithHandler(handler),
			runner.WithSessionID(sessionID),
			runner.WithLogger(logger),
		)
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "", "Resume or name a session (useful with the file and redis stores)")
	chatCmd.Flags().Bool("json", false, "Exchange newline-delimited JSON instead of text")
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
}
