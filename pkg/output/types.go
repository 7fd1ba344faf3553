// Package output renders the report of a parse run.
package output

import (
	"sort"
	"time"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

// Report is the complete output of a parse run.
type Report struct {
	// Summary provides aggregate statistics across files.
	Summary Summary `json:"summary"`

	// Files holds one entry per processed export, in processing order.
	Files []FileReport `json:"files"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	FilesProcessed int `json:"files_processed"`
	Messages       int `json:"messages"`
	Rows           int `json:"rows"`
	Dropped        int `json:"dropped"`
}

// FileReport describes one export converted into one table file.
type FileReport struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Strategy  string `json:"strategy"`
	DateOrder string `json:"date_order"`

	// Messages is the number of logical messages reconstructed.
	Messages int `json:"messages"`

	// Rows is the number of records written.
	Rows int `json:"rows"`

	// Dropped is the number of messages skipped for missing content.
	Dropped int `json:"dropped"`

	// First and Last are the earliest and latest message times, nil for an
	// empty table.
	First *time.Time `json:"first,omitempty"`
	Last  *time.Time `json:"last,omitempty"`

	// Senders is sorted by message count, most active first.
	Senders []SenderStats `json:"senders"`
}

// SenderStats totals the records of one sender.
// Words and Letters sum the exported WordCount and LetterCount columns.
type SenderStats struct {
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	Words    int    `json:"words"`
	Letters  int    `json:"letters"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the configuration file used, empty for defaults.
	ConfigFile string `json:"config_file,omitempty"`

	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewFileReport summarises a table written from input to output.
func NewFileReport(input, output string, table *extractor.Table) FileReport {
	fr := FileReport{
		Input:     input,
		Output:    output,
		Strategy:  table.Strategy,
		DateOrder: string(table.DateOrder),
		Messages:  table.Messages,
		Rows:      table.Len(),
		Dropped:   table.Dropped,
		Senders:   []SenderStats{},
	}

	bySender := make(map[string]*SenderStats)
	for i := range table.Records {
		rec := &table.Records[i]

		if fr.First == nil || rec.DateTime.Before(*fr.First) {
			t := rec.DateTime
			fr.First = &t
		}
		if fr.Last == nil || rec.DateTime.After(*fr.Last) {
			t := rec.DateTime
			fr.Last = &t
		}

		s := bySender[rec.Name]
		if s == nil {
			s = &SenderStats{Name: rec.Name}
			bySender[rec.Name] = s
		}
		s.Messages++
		s.Words += rec.WordCount
		s.Letters += rec.LetterCount
	}

	for _, s := range bySender {
		fr.Senders = append(fr.Senders, *s)
	}
	sort.Slice(fr.Senders, func(i, j int) bool {
		if fr.Senders[i].Messages != fr.Senders[j].Messages {
			return fr.Senders[i].Messages > fr.Senders[j].Messages
		}
		return fr.Senders[i].Name < fr.Senders[j].Name
	})

	return fr
}

// NewReport aggregates file reports into a Report.
func NewReport(files []FileReport, configFile string, start, end time.Time) *Report {
	report := &Report{
		Files: files,
		Metadata: Metadata{
			ConfigFile:  configFile,
			GeneratedAt: end,
			Duration:    end.Sub(start),
		},
	}
	if report.Files == nil {
		report.Files = []FileReport{}
	}

	report.Summary.FilesProcessed = len(files)
	for _, f := range files {
		report.Summary.Messages += f.Messages
		report.Summary.Rows += f.Rows
		report.Summary.Dropped += f.Dropped
	}

	return report
}
