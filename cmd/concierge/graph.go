package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/cli"
	"github.com/aretw0/concierge/internal/presentation/graph"
	"github.com/aretw0/concierge/internal/validator"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the conversation graph",
	Long: `Outputs a Mermaid diagram (graph TD) of the node topology.
With --session the nodes visited by that session's last turn are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := cli.Build(cmd.Context(), cfg, newLogger(cfg), cli.Collaborators{})
		if err != nil {
			return err
		}
		defer app.Close()

		if err := validator.ValidateGraph(app.Concierge.Graph()); err != nil {
			if check, _ := cmd.Flags().GetBool("check"); check {
				return err
			}
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		nodes := app.Concierge.Inspect()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(nodes)
		}

		var overlay *graph.GraphOverlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			state, err := app.Concierge.Session(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", sessionID, err)
			}
			overlay = graph.OverlayFromState(state)
		}

		fmt.Print(graph.GenerateMermaid(nodes, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("json", false, "Print the topology as JSON")
	graphCmd.Flags().Bool("check", false, "Fail when nodes are unreachable or cannot reach a terminal node")
	graphCmd.Flags().StringP("session", "s", "", "Highlight the path of this session's last turn")
}
