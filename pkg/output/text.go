package output

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "2006-01-02 15:04"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

type textStyles struct {
	header  lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
}

// newTextStyles binds styles to w so that colour is only emitted when w is
// a terminal.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true),
		section: r.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		label: r.NewStyle().
			Foreground(lipgloss.Color("243")),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "chattab: %d file(s), %d messages, %d rows written, %d dropped\n",
		report.Summary.FilesProcessed,
		report.Summary.Messages,
		report.Summary.Rows,
		report.Summary.Dropped)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	st := newTextStyles(w)

	fmt.Fprintln(w, st.header.Render("=== chattab Parse Report ==="))
	fmt.Fprintln(w)

	for i := range report.Files {
		if err := f.formatFile(&report.Files[i], st, w); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d file(s), %d messages, %d rows written, %d dropped\n",
		report.Summary.FilesProcessed,
		report.Summary.Messages,
		report.Summary.Rows,
		report.Summary.Dropped)

	if f.opts.Verbose {
		if report.Metadata.ConfigFile != "" {
			fmt.Fprintf(w, "Config: %s\n", report.Metadata.ConfigFile)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatFile(fr *FileReport, st textStyles, w io.Writer) error {
	fmt.Fprintln(w, st.section.Render(fr.Input))
	fmt.Fprintf(w, "  %s %s\n", st.label.Render("Output:  "), fr.Output)
	fmt.Fprintf(w, "  %s %s (dates %s)\n", st.label.Render("Strategy:"), fr.Strategy, fr.DateOrder)
	fmt.Fprintf(w, "  %s %d messages, %d rows, %d dropped\n", st.label.Render("Records: "),
		fr.Messages, fr.Rows, fr.Dropped)

	if fr.First == nil {
		fmt.Fprintln(w, "  "+st.warning.Render("No records written"))
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintf(w, "  %s %s to %s\n", st.label.Render("Period:  "),
		fr.First.Format(timeLayout), fr.Last.Format(timeLayout))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  Sender\tMessages\tWords\tLetters")
	for _, s := range fr.Senders {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\n", s.Name, s.Messages, s.Words, s.Letters)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return nil
}
