package main

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "spool-api",
	Short:   "Filament spool tracker",
	Version: Version,
	Long: `
spool-api serves the spool inventory, the RFID scale endpoint and the
operator panel API.

COMMANDS:
  serve       Run the HTTP server
  migrate     Apply pending database migrations

Configuration is read from the environment and an optional .env file.
`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("spool-api {{.Version}}\n")
}
