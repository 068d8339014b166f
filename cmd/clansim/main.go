package main

import (
	"os"

	"github.com/spf13/cobra"

	"clansim/internal/logger"
)

// configPath is shared by every subcommand through the persistent --config flag.
var configPath string

func main() {
	logger.Init()

	root := &cobra.Command{
		Use:   "clansim",
		Short: "Rules engine for a clan life simulation",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "clansim.yaml", "Game config file")
	root.AddCommand(initCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(simulateCmd())
	root.AddCommand(tiersCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
