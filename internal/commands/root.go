// Package commands wires the popline CLI: the interactive host at the root
// plus the pick and history subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/popline/popline/internal/logx"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "popline",
	Short: "Popup-selection layer for the command line",
	Long: `Popline shows a scrollable, searchable selection popup just below the
cursor line: recall a prior command, pick a directory, or complete a file
name without leaving the prompt.

Run without arguments for the interactive prompt, or pipe candidates into
'popline pick' to use the popup from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the CLI.
func Execute() error {
	logx.SetLevelFromEnv()
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(historyCmd)
}
