package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chattab/internal/logging"
	"github.com/ccollicutt/chattab/pkg/config"
	"github.com/ccollicutt/chattab/pkg/detector"
	"github.com/ccollicutt/chattab/pkg/export"
	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [config-file]",
		Short: "Diagnose common configuration and input issues",
		Long: `Diagnose common configuration and input issues.

This command checks your setup for common problems:
- Config file syntax and values (defaults when no file is given)
- Input file existence and size
- Message format of the input against the configured strategy and date order
- A dry run of the conversion, without writing the table
- Output location

Exit codes:
  0 - No errors found
  1 - At least one check failed
  2 - The command itself could not run

Example:
  chattab diagnose
  chattab diagnose chattab.yaml
  chattab diagnose -v chattab.yaml  # verbose output`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, configPath, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, configPath string, opts *DiagnoseOptions, w io.Writer) error {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		return finishDiagnostics(results, opts, w)
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		return finishDiagnostics(results, opts, w)
	}

	// 3. Check the input file
	result = checkInputFile(cfg)
	results = append(results, result)
	if result.Status != "error" {
		// 4. Check the message format against the config
		results = append(results, checkMessageFormat(ctx, cfg)...)

		// 5. Convert without writing
		results = append(results, checkDryRun(ctx, cfg))
	}

	// 6. Check the output location
	results = append(results, checkOutput(cfg))

	return finishDiagnostics(results, opts, w)
}

func finishDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions, w io.Writer) error {
	if errCount := printDiagnostics(results, opts, w); errCount > 0 {
		ExitCode = 1
	}
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	if path == "" {
		result.Status = "ok"
		result.Message = "No config file given, using defaults and CHATTAB_* variables"
		return result
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'chattab detect <chat-file> --write-config chattab.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.LoadOrDefault(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"):
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		case strings.Contains(err.Error(), "toml"):
			result.Suggests = []string{
				"Check TOML syntax - strings need quotes, tables use [section] headers",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config loaded successfully"
	result.Details = []string{
		fmt.Sprintf("Input: %s", cfg.InputPath()),
		fmt.Sprintf("Locale: %s", cfg.ResolvedLocale().Tag),
		fmt.Sprintf("Strategy: %s", cfg.Strategy),
		fmt.Sprintf("Date order: %s", cfg.ResolvedDateOrder()),
		fmt.Sprintf("Group chat: %t", bool(cfg.GroupChat)),
	}
	return cfg, result
}

func checkInputFile(cfg *config.Config) DiagnosticResult {
	input := cfg.InputPath()
	result := DiagnosticResult{
		Check: fmt.Sprintf("Input: %s", input),
	}

	info, err := os.Stat(input)
	switch {
	case os.IsNotExist(err):
		result.Status = "error"
		result.Message = "File does not exist"
		result.Suggests = []string{
			"Check input_dir and input_name (\".txt\" is appended to the name)",
			fmt.Sprintf("Or set %s to the export's base name", config.EnvInputName),
		}
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
	case info.Size() == 0:
		result.Status = "warning"
		result.Message = "File is empty (0 bytes)"
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
	}
	return result
}

func checkMessageFormat(ctx context.Context, cfg *config.Config) []DiagnosticResult {
	results := []DiagnosticResult{}

	result := DiagnosticResult{
		Check: "Message Format",
	}

	detection, err := detector.New().DetectFromFile(ctx, cfg.InputPath())
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot sample file: %v", err)
		return append(results, result)
	}

	if !detection.HasMatch() {
		result.Status = "error"
		result.Message = "No chat message format detected in the first lines"
		result.Suggests = []string{
			"Messages should start like \"1/2/23, 10:00 - name: text\" or \"[1/2/23, 10:00:00] name: text\"",
			"Run 'chattab detect <chat-file>' for details",
		}
		return append(results, result)
	}

	best := detection.BestMatch()
	result.Details = []string{
		fmt.Sprintf("Format: %s", best.Format.Name),
		fmt.Sprintf("Sample: %s", truncate(best.SampleLine, 60)),
		fmt.Sprintf("Message lines: %d of %d sampled", detection.PrefixLines, detection.SampledLines),
	}

	if !best.Format.Supports(cfg.Strategy) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Strategy %q cannot read %s lines", cfg.Strategy, best.Format.Name)
		result.Suggests = []string{
			fmt.Sprintf("Set strategy: %s", detection.Strategy()),
		}
	} else {
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s, readable with strategy %q", best.Format.Name, cfg.Strategy)
	}
	results = append(results, result)

	order := DiagnosticResult{
		Check: "Date Order",
	}
	configured := cfg.ResolvedDateOrder()
	switch {
	case configured == extractor.OrderAuto:
		order.Status = "ok"
		order.Message = fmt.Sprintf("Inferred at run time (sample suggests %s)", detection.DateOrder)
	case detection.AmbiguityNote != "":
		order.Status = "ok"
		order.Message = fmt.Sprintf("Using %s; the sampled dates fit either order", configured)
		order.Details = []string{detection.AmbiguityNote}
	case configured != detection.DateOrder:
		order.Status = "warning"
		order.Message = fmt.Sprintf("Configured %s but the sampled dates are %s", configured, detection.DateOrder)
		order.Suggests = []string{
			fmt.Sprintf("Set date_order: %s", detection.DateOrder),
		}
	default:
		order.Status = "ok"
		order.Message = fmt.Sprintf("Sampled dates agree with %s", configured)
	}
	results = append(results, order)

	return results
}

func checkDryRun(ctx context.Context, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Dry Run",
	}

	table, err := buildTable(ctx, cfg, logging.Discard(), cfg.InputPath())
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Conversion would fail: %v", err)

		var (
			boundaryErr *parser.BoundaryError
			decodeErr   *parser.DecodeError
			parseErr    *extractor.ParseError
		)
		switch {
		case errors.As(err, &boundaryErr):
			result.Suggests = []string{
				"The first kept line must start a message",
				"Check that locale matches the export language so the header notice is dropped",
			}
		case errors.As(err, &decodeErr):
			result.Suggests = []string{"Re-export the chat or convert the file to UTF-8"}
		case errors.As(err, &parseErr):
			result.Suggests = []string{
				fmt.Sprintf("Message #%d: %s", parseErr.Index, truncate(parseErr.Text, 60)),
				"Try strategy: split, or date_order: auto",
			}
		}
		return result
	}

	result.Message = fmt.Sprintf("%d messages, %d rows, %d dropped for missing content",
		table.Messages, table.Len(), table.Dropped)
	if table.Len() == 0 {
		result.Status = "warning"
		result.Suggests = []string{"No rows would be written; check the noise phrases and the strategy"}
		return result
	}
	result.Status = "ok"
	return result
}

func checkOutput(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Output",
	}

	exporter, err := export.NewExporter(cfg.Format)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return result
	}
	dest := export.Path(cfg.OutputDir, cfg.OutputName, exporter)

	info, err := os.Stat(cfg.OutputDir)
	switch {
	case os.IsNotExist(err):
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s (directory will be created)", dest)
		return result
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access output directory: %v", err)
		return result
	case !info.IsDir():
		result.Status = "error"
		result.Message = fmt.Sprintf("Output path %s is a file, not a directory", cfg.OutputDir)
		return result
	}

	if _, err := os.Stat(dest); err == nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%s exists and will be overwritten", dest)
		return result
	}

	result.Status = "ok"
	result.Message = dest
	return result
}

// printDiagnostics writes the results and returns the number of errors.
func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions, w io.Writer) int {
	fmt.Fprintln(w, "=== chattab Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before running parse.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nSetup is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nSetup looks good!")
	}

	return errCount
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
