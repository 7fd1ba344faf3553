// Package cli provides the command-line interface for chattab.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chattab/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chattab",
		Short: "Turn exported chat transcripts into tables",
		Long: `chattab converts the plain-text export of a chat conversation into a table.

Multi-line messages are merged back together, system notices and omitted
media are dropped, and every message becomes one row with its date, time,
sender and text plus derived columns (weekday, hour, letter and word counts)
ready for analysis.

Start with:
  chattab detect chat/chat.txt --write-config chattab.yaml
  chattab diagnose chattab.yaml
  chattab parse -c chattab.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
