package detector

import (
	"regexp"

	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/parser"
)

// ExportFormat is a known message-line layout of a chat export.
// Pattern captures the date, the time and the sender name.
type ExportFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for config output
	Bracketed  bool           // Timestamp is wrapped in square brackets
	Strategies []string       // Extraction strategies that handle it, preferred first
	Examples   []string       // Example message lines
}

// Supports reports whether the format can be extracted with strategy.
func (f *ExportFormat) Supports(strategy string) bool {
	for _, s := range f.Strategies {
		if s == strategy {
			return true
		}
	}
	return false
}

// DefaultFormats returns the built-in export formats to detect.
// Formats are ordered roughly by specificity (more specific patterns first).
func DefaultFormats() []*ExportFormat {
	date := `(` + parser.DatePattern + `)`
	clock := `(` + parser.TimePattern + `)`

	formats := []*ExportFormat{
		// Date and time bracketed separately
		{
			Name:       "Split brackets",
			PatternStr: `^\[` + date + `\],\s+\[` + clock + `\]\s+(.+?):`,
			Bracketed:  true,
			Strategies: []string{extractor.StrategyPattern},
			Examples:   []string{"[02/01/2023], [10:00:00] alice: hello"},
		},
		// iOS style, one bracket around date and time
		{
			Name:       "Bracketed (iOS)",
			PatternStr: `^\[` + date + `,\s+` + clock + `\]\s+(.+?):`,
			Bracketed:  true,
			Strategies: []string{extractor.StrategyPattern},
			Examples:   []string{"[02/01/23, 10:00:00] alice: hello"},
		},
		// Android style, hyphen between time and sender
		{
			Name:       "Dash separated (Android)",
			PatternStr: `^` + date + `,\s+` + clock + ` - (.+?):`,
			Strategies: []string{extractor.StrategySplit, extractor.StrategyPattern},
			Examples:   []string{"1/2/23, 10:00 - alice: hello"},
		},
	}

	// Compile all patterns
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
