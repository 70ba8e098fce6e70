package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge is a conversational assistant for events and cities",
	Long: `Concierge answers questions about upcoming events and cities.
Run it as an HTTP service with 'serve' or talk to it directly with 'chat'.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("store", "", "Session backend: memory, redis or file")
	rootCmd.PersistentFlags().String("lookup", "", "Lookup source: fixtures or live")
}

// flagKeys maps command line flags to configuration keys. Flags only apply when set.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"store":      "store.backend",
	"lookup":     "lookup.source",
	"addr":       "server.addr",
	"mcp":        "server.mcp",
}

// loadConfig reads the configuration with the command's flags layered on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, overrides)
}

// newLogger writes to stderr so that stdout stays free for the conversation.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewWithFormat(os.Stderr, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
}
