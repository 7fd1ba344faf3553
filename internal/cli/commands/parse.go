package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chattab/internal/logging"
	"github.com/ccollicutt/chattab/pkg/config"
	"github.com/ccollicutt/chattab/pkg/export"
	"github.com/ccollicutt/chattab/pkg/output"
	"github.com/ccollicutt/chattab/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	ConfigFile string
	Output     string
	Verbose    bool
	Quiet      bool

	// Overrides of config values, applied only when the flag is set
	Format     string
	GroupChat  bool
	Locale     string
	Strategy   string
	DateOrder  string
	OutputDir  string
	OutputName string
	LogFile    string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [chat-file|dir|glob ...]",
		Short: "Convert chat exports into tables",
		Long: `Convert exported chat transcripts into tables.

Each export is read whole, noise lines (encryption notices, omitted media and,
for group chats, membership changes) are dropped, continuation lines are
merged into the message they belong to, and every message becomes one row:

  Date, Time, Name, Content, DateTime, Year, Weekday, Hour,
  LetterCount, WordCount

Without arguments the input is <input_dir>/<input_name>.txt from the config
and the output <output_dir>/<output_name>.<format>. With arguments every
matching file is converted into <output_dir>/<file-name>.<format>.

Settings are read from the config file, then CHATTAB_* environment
variables, then flags.

Example:
  chattab parse
  chattab parse -c chattab.yaml
  chattab parse --group --locale en chats/family.txt
  chattab parse -f json 'chats/*.txt'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (YAML, or TOML by .toml extension)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log debug messages to the console")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, warnings and errors on the console")

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Table format (csv|json|yaml)")
	cmd.Flags().BoolVarP(&opts.GroupChat, "group", "g", false, "Group chat: also drop membership changes")
	cmd.Flags().StringVar(&opts.Locale, "locale", "", "Export language (it|en|de|es|fr)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "Extraction strategy (split|pattern)")
	cmd.Flags().StringVar(&opts.DateOrder, "date-order", "", "Date order (mdy|dmy|ymd|auto)")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory for the tables")
	cmd.Flags().StringVar(&opts.OutputName, "output-name", "", "Base name of the table (single input only)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Debug log file (empty string disables it)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	start := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Verbose && opts.Quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyParseFlags(cmd, cfg, opts); err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	exporter, err := export.NewExporter(cfg.Format)
	if err != nil {
		return err
	}

	jobs, err := planJobs(cmd, cfg, args, exporter)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cmd, cfg, opts)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	files := make([]output.FileReport, 0, len(jobs))
	for _, job := range jobs {
		fr, err := convertFile(ctx, cfg, logger.With("file", job.input), job, exporter)
		if err != nil {
			logger.Error("Conversion failed.", "file", job.input, "error", err)
			return fmt.Errorf("%s: %w", job.input, err)
		}
		files = append(files, fr)
	}

	report := output.NewReport(files, opts.ConfigFile, start, time.Now())
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	return nil
}

// applyParseFlags copies explicitly set flags over the loaded config and
// validates the result again.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config, opts *ParseOptions) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.Format
	}
	if flags.Changed("group") {
		cfg.GroupChat = config.Flag(opts.GroupChat)
	}
	if flags.Changed("locale") {
		cfg.Locale = opts.Locale
	}
	if flags.Changed("strategy") {
		cfg.Strategy = opts.Strategy
	}
	if flags.Changed("date-order") {
		cfg.DateOrder = opts.DateOrder
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.OutputDir
	}
	if flags.Changed("output-name") {
		cfg.OutputName = opts.OutputName
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.LogFile
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

type parseJob struct {
	input string
	dest  string
}

// planJobs pairs every input with its destination.
func planJobs(cmd *cobra.Command, cfg *config.Config, args []string, exporter export.Exporter) ([]parseJob, error) {
	if len(args) == 0 {
		return []parseJob{{
			input: cfg.InputPath(),
			dest:  export.Path(cfg.OutputDir, cfg.OutputName, exporter),
		}}, nil
	}

	files, err := parser.ExpandInputs(args)
	if err != nil {
		return nil, fmt.Errorf("expanding inputs: %w", err)
	}

	if len(files) == 1 && cmd.Flags().Changed("output-name") {
		return []parseJob{{
			input: files[0],
			dest:  export.Path(cfg.OutputDir, cfg.OutputName, exporter),
		}}, nil
	}
	if len(files) > 1 && cmd.Flags().Changed("output-name") {
		return nil, fmt.Errorf("--output-name needs exactly one input, got %d", len(files))
	}

	jobs := make([]parseJob, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		dest := export.Path(cfg.OutputDir, name, exporter)
		if prev, ok := seen[dest]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, f, dest)
		}
		seen[dest] = f
		jobs = append(jobs, parseJob{input: f, dest: dest})
	}
	return jobs, nil
}

func setupLogger(cmd *cobra.Command, cfg *config.Config, opts *ParseOptions) (*slog.Logger, func() error, error) {
	consoleLevel := slog.LevelInfo
	switch {
	case opts.Verbose:
		consoleLevel = slog.LevelDebug
	case opts.Quiet:
		consoleLevel = slog.LevelWarn
	}

	logOpts := logging.Options{
		Console:      cmd.ErrOrStderr(),
		ConsoleLevel: consoleLevel,
	}
	if cfg.LogFile != "" {
		fileLevel, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		logOpts.File = cfg.LogFile
		logOpts.FileLevel = fileLevel
	}

	logger, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	return logger, closeLog, nil
}

func convertFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, job parseJob, exporter export.Exporter) (output.FileReport, error) {
	table, err := buildTable(ctx, cfg, logger, job.input)
	if err != nil {
		return output.FileReport{}, err
	}

	if err := export.WriteFile(job.dest, table, exporter); err != nil {
		return output.FileReport{}, err
	}
	logger.Info("Exported table.", "path", job.dest, "rows", table.Len())

	return output.NewFileReport(job.input, job.dest, table), nil
}
