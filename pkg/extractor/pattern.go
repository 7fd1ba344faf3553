package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ccollicutt/chattab/pkg/parser"
)

// namePattern is a sender name: word characters with interior spaces.
const namePattern = `[\p{L}\p{M}\p{N}_]+(?: +[\p{L}\p{M}\p{N}_]+)*`

// MessagePattern anchors the full prefix of a message: timestamp, optional
// closing bracket, optional " - ", sender name and the colon after it.
const MessagePattern = `^\[?(` + parser.DatePattern + `)\]?,\s+\[?(` + parser.TimePattern + `)\]?(?: - | )?(` + namePattern + `):`

var messagePrefix = regexp.MustCompile(MessagePattern)

// PatternExtractor decomposes a message with one anchored expression.
type PatternExtractor struct {
	anchor string
}

// NewPatternExtractor creates a PatternExtractor for the given content anchor.
func NewPatternExtractor(anchor string) (*PatternExtractor, error) {
	switch anchor {
	case "":
		anchor = AnchorPrefix
	case AnchorPrefix, AnchorName:
	default:
		return nil, fmt.Errorf("unsupported content anchor: %s (supported: prefix, name)", anchor)
	}
	return &PatternExtractor{anchor: anchor}, nil
}

// Name returns the strategy name.
func (e *PatternExtractor) Name() string {
	return StrategyPattern
}

// Fields returns ErrPrefixMismatch when the message has no sender prefix.
func (e *PatternExtractor) Fields(message string) (Fields, error) {
	loc := messagePrefix.FindStringSubmatchIndex(message)
	if loc == nil {
		return Fields{}, ErrPrefixMismatch
	}

	f := Fields{
		Date: message[loc[2]:loc[3]],
		Time: message[loc[4]:loc[5]],
		Name: message[loc[6]:loc[7]],
	}

	start := loc[1]
	if strings.HasPrefix(message[start:], " ") {
		start++
	}
	if e.anchor == AnchorName {
		start = strings.Index(message, f.Name) + len(f.Name) + 2
	}
	if start < len(message) {
		f.Content = message[start:]
	}
	return f, nil
}
