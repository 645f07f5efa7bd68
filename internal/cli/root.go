// Package cli implements the paperclip CLI front-end (SPEC_FULL.md §0/§9):
// check, build, serve, fmt, and a debug inspect subcommand. check, build
// and inspect parse and evaluate through internal/bundle and internal/eval
// directly, fmt through internal/parser and internal/printer; only serve
// runs over internal/workspace. Grounded on
// ecoker-launchpad/internal/cli's root.go + subcommand-per-file layout and
// its cobra.Command/Execute convention.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "paperclip",
	Short: "Compile, check, and preview paperclip component files",
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(inspectCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
