package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chattab/pkg/config"
	"github.com/ccollicutt/chattab/pkg/export"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chattab configuration file without converting anything.

Checks:
  - YAML or TOML syntax
  - Non-empty input and output names
  - Format, strategy, content anchor and date order values
  - Locale support and the prefix pattern, if set
  - Input file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	exporter, err := export.NewExporter(cfg.Format)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	loc := cfg.ResolvedLocale()

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Input:      %s\n", cfg.InputPath())
	fmt.Fprintf(w, "  Output:     %s\n", export.Path(cfg.OutputDir, cfg.OutputName, exporter))
	fmt.Fprintf(w, "  Group chat: %t\n", bool(cfg.GroupChat))
	fmt.Fprintf(w, "  Locale:     %s\n", loc.Tag)
	fmt.Fprintf(w, "  Strategy:   %s (content anchor %s)\n", cfg.Strategy, cfg.ContentAnchor)
	fmt.Fprintf(w, "  Date order: %s\n", cfg.ResolvedDateOrder())
	if cfg.PrefixPattern != "" {
		fmt.Fprintf(w, "  Prefix:     %s\n", cfg.PrefixPattern)
	}

	fmt.Fprintf(w, "\nNoise phrases:\n")
	for _, p := range loc.Noise {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	if cfg.GroupChat {
		for _, p := range loc.GroupNoise {
			fmt.Fprintf(w, "  - %s (group)\n", p)
		}
	}

	// Input existence is a warning only
	if info, err := os.Stat(cfg.InputPath()); err != nil {
		fmt.Fprintf(w, "\nWarning: input file not found: %s\n", cfg.InputPath())
	} else if info.IsDir() {
		fmt.Fprintf(w, "\nWarning: input path is a directory: %s\n", cfg.InputPath())
	} else {
		fmt.Fprintf(w, "\nInput file found: %s (%d bytes)\n", cfg.InputPath(), info.Size())
	}

	return nil
}
