// Command sfap serves, publishes and dispatches sfap views and modules.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg        Config
		configPath string
		debug      bool
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "sfap",
		Short:         "Navigation dispatch shell tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			loaded, err := LoadConfig(configPath, nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				loaded.Debug = debug
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("SFAP_CONFIG"), "Path to the YAML config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable the debug setting")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		serveCmd(&cfg),
		dispatchCmd(&cfg),
		migrateCmd(&cfg),
		publishCmd(&cfg),
		versionCmd(),
	)

	return root
}
