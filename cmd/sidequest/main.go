package main

import (
	"os"

	"github.com/spf13/cobra"

	"sidequest/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "sidequest",
		Short:        "Side quest and NPC generator for tabletop games",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Project config file")
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(savedCmd())
	root.AddCommand(importCmd())
	root.AddCommand(rollCmd())
	root.AddCommand(prefsCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(tokenCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
