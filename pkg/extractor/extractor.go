package extractor

import (
	"fmt"
)

// Strategy names.
const (
	StrategySplit   = "split"
	StrategyPattern = "pattern"
)

// Content anchors for the pattern strategy.
const (
	// AnchorPrefix starts content right after the matched prefix.
	AnchorPrefix = "prefix"

	// AnchorName starts content two characters after the first occurrence
	// of the sender name in the line.
	AnchorName = "name"
)

// Extractor splits one logical message into its raw fields.
type Extractor interface {
	// Fields decomposes a message. Implementations either return an error
	// or mark a missing content with the sentinel they were built with.
	Fields(message string) (Fields, error)

	// Name returns the strategy name.
	Name() string
}

// New creates the extractor for a strategy. missingText is the sentinel
// content of the split strategy; anchor selects the content anchor of the
// pattern strategy and defaults to AnchorPrefix.
func New(strategy, missingText, anchor string) (Extractor, error) {
	switch strategy {
	case StrategySplit, "":
		return NewSplitExtractor(missingText), nil
	case StrategyPattern:
		return NewPatternExtractor(anchor)
	default:
		return nil, fmt.Errorf("unsupported strategy: %s (supported: split, pattern)", strategy)
	}
}
