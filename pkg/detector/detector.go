// Package detector inspects a chat export and reports its message-line
// format, the extraction strategy that fits it and its date order.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/parser"
)

// DefaultSampleSize is the number of non-empty lines read from a file.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a chat export.
type DetectionResult struct {
	Matches       []FormatMatch       // Formats that matched, sorted by confidence descending
	SampledLines  int                 // Number of lines sampled
	ParsedLines   int                 // Number of lines matching the best format
	PrefixLines   int                 // Number of lines starting with a message timestamp
	DateOrder     extractor.DateOrder // Date order inferred from the best format's dates
	AmbiguityNote string              // Warning about date ordering if applicable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *ExportFormat
	Confidence float64   // 0.0 to 1.0 (share of sampled lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample, zero if it did not parse
}

// Detector analyzes chat exports to identify their format.
type Detector struct {
	formats    []*ExportFormat
	prefix     *parser.PrefixMatcher
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		prefix:     parser.NewPrefixMatcher(nil),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a chat export and returns detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of export lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
		DateOrder:    extractor.DefaultDateOrder,
	}

	if len(lines) == 0 {
		return result
	}

	type formatStats struct {
		format     *ExportFormat
		matchCount int
		sampleLine string
		sampleDate string
		sampleTime string
		dates      []string
	}

	stats := make(map[string]*formatStats)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if d.prefix.Match(line) {
			result.PrefixLines++
		}

		for _, format := range d.formats {
			matches := format.Pattern.FindStringSubmatch(line)
			if len(matches) < 3 {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{
					format:     format,
					sampleLine: line,
					sampleDate: matches[1],
					sampleTime: matches[2],
				}
			}
			stats[key].matchCount++
			stats[key].dates = append(stats[key].dates, matches[1])
		}
	}

	if len(stats) == 0 {
		return result
	}

	var best *formatStats
	for _, s := range stats {
		if best == nil || s.matchCount > best.matchCount ||
			(s.matchCount == best.matchCount && len(s.format.PatternStr) > len(best.format.PatternStr)) {
			best = s
		}
	}

	order, ambiguous := extractor.InferDateOrder(best.dates)
	result.DateOrder = order
	if ambiguous {
		result.AmbiguityNote = fmt.Sprintf("Sampled dates do not settle day versus month order; assuming %s. "+
			"Set date_order in the config if that is wrong.", order)
	}

	for _, s := range stats {
		m := FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
		}
		if t, err := extractor.ParseDateTime(s.sampleDate, s.sampleTime, order); err == nil {
			m.ParsedTime = t
		}
		result.Matches = append(result.Matches, m)
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return len(result.Matches[i].Format.PatternStr) > len(result.Matches[j].Format.PatternStr)
	})

	result.ParsedLines = result.Matches[0].MatchCount

	return result
}

// sampleFile reads up to sampleSize non-empty lines from the head of a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, &parser.IOError{Path: path, Op: "open", Err: err}
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &parser.IOError{Path: path, Op: "read", Err: err}
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// PrefixShare returns the share of sampled lines that start a message.
// The rest are continuation lines.
func (r *DetectionResult) PrefixShare() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.PrefixLines) / float64(r.SampledLines)
}

// Strategy returns the preferred extraction strategy for the best match,
// or an empty string when nothing matched.
func (r *DetectionResult) Strategy() string {
	best := r.BestMatch()
	if best == nil {
		return ""
	}
	return best.Format.Strategies[0]
}

// Bracketed reports whether the best match uses bracketed timestamps.
func (r *DetectionResult) Bracketed() bool {
	best := r.BestMatch()
	return best != nil && best.Format.Bracketed
}
