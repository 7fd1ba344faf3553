package parser

import (
	"regexp"
)

// Timestamp prefix building blocks, shared with the record extractor.
const (
	// DatePattern matches a date such as 01/02/23, 1.2.2023 or 2023-01-02.
	DatePattern = `\d{1,4}[/.\-]\d{1,2}[/.\-]\d{1,4}`

	// TimePattern matches hours and minutes with optional seconds.
	TimePattern = `\d{1,2}:\d{2}(?::\d{2})?`

	// DefaultPrefixPattern anchors a message start: a date, optionally
	// bracketed, a comma, whitespace, then a time, optionally bracketed.
	DefaultPrefixPattern = `^\[?(` + DatePattern + `)\]?,\s+\[?(` + TimePattern + `)\]?`
)

// PrefixMatcher recognises lines that begin a new message.
type PrefixMatcher struct {
	pattern *regexp.Regexp
}

// NewPrefixMatcher creates a matcher for the given anchored pattern.
// A nil pattern selects DefaultPrefixPattern.
func NewPrefixMatcher(pattern *regexp.Regexp) *PrefixMatcher {
	if pattern == nil {
		pattern = defaultPrefix
	}
	return &PrefixMatcher{pattern: pattern}
}

var defaultPrefix = regexp.MustCompile(DefaultPrefixPattern)

// Match reports whether line starts with a message timestamp.
func (m *PrefixMatcher) Match(line string) bool {
	return m.pattern.MatchString(line)
}

// Pattern returns the underlying expression.
func (m *PrefixMatcher) Pattern() *regexp.Regexp {
	return m.pattern
}
