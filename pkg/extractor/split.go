package extractor

import (
	"strings"
)

// SplitExtractor decomposes a message with plain delimiter splits:
// date before the first comma, time up to the next hyphen, then
// "name: content" after it. Content is the second colon-separated segment
// only, so text after a further colon is not part of it.
type SplitExtractor struct {
	missingText string
}

// NewSplitExtractor creates a SplitExtractor marking messages without content
// with missingText.
func NewSplitExtractor(missingText string) *SplitExtractor {
	return &SplitExtractor{missingText: missingText}
}

// Name returns the strategy name.
func (e *SplitExtractor) Name() string {
	return StrategySplit
}

// Fields never fails; a message missing any delimiter gets the sentinel content.
func (e *SplitExtractor) Fields(message string) (Fields, error) {
	date, rest, _ := strings.Cut(message, ",")
	f := Fields{Date: date, Content: e.missingText}

	timePart, rest, ok := strings.Cut(rest, "-")
	f.Time = strings.TrimSpace(timePart)
	if !ok {
		return f, nil
	}

	name, rest, ok := strings.Cut(rest, ":")
	f.Name = strings.TrimSpace(name)
	if !ok {
		return f, nil
	}

	f.Content, _, _ = strings.Cut(rest, ":")
	return f, nil
}
