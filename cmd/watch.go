package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("no-reload", false,
		"disable automatic reload when the tree file changes")
}

// watchCmd is an explicit alias for the default inspector behavior.
var watchCmd = &cobra.Command{
	Use:   "watch [tree-file]",
	Short: "Open the live marker inspector",
	Long: `Open the interactive marker inspector.

Identical to running markers with no subcommand: shows the marker
table and reloads it when the tree file changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspector,
}
