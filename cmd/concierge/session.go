package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect and remove sessions held by the configured store (file or redis).`,
}

func withApp(cmd *cobra.Command, fn func(app *cli.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	app, err := cli.Build(cmd.Context(), cfg, newLogger(cfg), cli.Collaborators{})
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			ids, err := app.Concierge.Sessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			state, err := app.Concierge.Session(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", args[0], err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:     "rm <session-id>...",
	Aliases: []string{"delete"},
	Short:   "Remove sessions",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			for _, id := range args {
				if err := app.Concierge.DeleteSession(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete session %q: %w", id, err)
				}
				fmt.Printf("Session %s removed.\n", id)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
}
