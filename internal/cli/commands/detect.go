package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chattab/pkg/detector"
	"github.com/ccollicutt/chattab/pkg/extractor"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <chat-file>",
		Short: "Detect the message format of a chat export",
		Long: `Analyze a chat export to detect its message-line format.

Samples lines from the head of the file and reports:
  - the matching format and the extraction strategy that handles it
  - whether timestamps are bracketed
  - the date order, with a note when the sampled dates cannot settle it
  - the share of lines that start a message (the rest are continuations)

Optionally generates a starter config file with --write-config.

Example:
  chattab detect chat/chat.txt
  chattab detect --sample 500 chat/family.txt
  chattab detect --write-config chattab.yaml chat/chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	chatFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check file exists
	if _, err := os.Stat(chatFile); os.IsNotExist(err) {
		return fmt.Errorf("chat file not found: %s", chatFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, chatFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, chatFile, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote starter config to: %s\n", opts.WriteConfig)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(result, chatFile, opts, out)
	case "text":
		return outputDetectText(result, chatFile, opts, out)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(result *detector.DetectionResult, chatFile string, opts *DetectOptions, w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	good := r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warn := r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	fmt.Fprintln(w, header.Render("=== Chat Format Detection ==="))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", chatFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Message lines: %d (%.1f%%, the rest are continuations)\n",
		result.PrefixLines, result.PrefixShare()*100)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, warn.Render("No chat message format detected."))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Each message should start like \"1/2/23, 10:00 - name: text\"")
		fmt.Fprintln(w, "or \"[1/2/23, 10:00:00] name: text\". Check the first lines of the export.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", good.Render(best.Format.Name))
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintf(w, "Bracketed: %s\n", yesNo(best.Format.Bracketed))
	fmt.Fprintf(w, "Strategy: %s (supported: %s)\n", result.Strategy(), strings.Join(best.Format.Strategies, ", "))
	fmt.Fprintf(w, "Date order: %s\n", result.DateOrder)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	if !best.ParsedTime.IsZero() {
		fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format(extractor.DateTimeLayout))
	}
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "%s %s\n", warn.Render("Note:"), result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "strategy: %s\n", result.Strategy())
	fmt.Fprintf(w, "date_order: %s\n", result.DateOrder)
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   pattern: '%s'\n", m.Format.PatternStr)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string   `json:"name"`
	Pattern    string   `json:"pattern"`
	Bracketed  bool     `json:"bracketed"`
	Strategies []string `json:"strategies"`
	Confidence float64  `json:"confidence"`
	MatchCount int      `json:"match_count"`
	SampleLine string   `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Matches       []JSONMatch `json:"matches"`
	Strategy      string      `json:"strategy,omitempty"`
	DateOrder     string      `json:"date_order"`
	SampledLines  int         `json:"sampled_lines"`
	ParsedLines   int         `json:"parsed_lines"`
	PrefixLines   int         `json:"prefix_lines"`
	PrefixShare   float64     `json:"prefix_share"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(result *detector.DetectionResult, chatFile string, opts *DetectOptions, w io.Writer) error {
	out := JSONOutput{
		File:          chatFile,
		Strategy:      result.Strategy(),
		DateOrder:     string(result.DateOrder),
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		PrefixLines:   result.PrefixLines,
		PrefixShare:   result.PrefixShare(),
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Bracketed:  m.Format.Bracketed,
			Strategies: m.Format.Strategies,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file with the detected format.
func writeStarterConfig(result *detector.DetectionResult, chatFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no chat message format detected")
	}

	content := generateStarterConfig(chatFile, result)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(chatFile string, result *detector.DetectionResult) string {
	inputDir := filepath.Dir(chatFile)
	if abs, err := filepath.Abs(inputDir); err == nil {
		inputDir = abs
	}
	inputName := strings.TrimSuffix(filepath.Base(chatFile), filepath.Ext(chatFile))

	best := result.BestMatch()

	dateOrderComment := ""
	if result.AmbiguityNote != "" {
		dateOrderComment = "  # not settled by the sampled dates, check it"
	}

	return fmt.Sprintf(`# chattab configuration
# Generated by: chattab detect
# Detected format: %s (%.0f%% confidence)

input_dir: %q
input_name: %q

output_dir: export
output_name: %q
format: csv               # csv | json | yaml

# Set to true for group conversations to drop membership changes.
group_chat: false

# Language of the export: noise phrases, sentinel and weekday names.
locale: it                # it | en | de | es | fr

strategy: %s
content_anchor: prefix
date_order: %s%s

# Replace the locale noise phrases (lines containing one are dropped):
# noise:
#   always: ["end-to-end encrypted", "media omitted"]
#   group: ["added", "left"]

log_file: debug.log
log_level: debug
`, best.Format.Name, best.Confidence*100,
		inputDir,
		inputName,
		inputName,
		result.Strategy(),
		result.DateOrder, dateOrderComment)
}
