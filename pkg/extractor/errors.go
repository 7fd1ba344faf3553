package extractor

import (
	"errors"
	"fmt"
)

// ErrPrefixMismatch is returned when a message does not start with the
// timestamp and sender prefix the extractor expects.
var ErrPrefixMismatch = errors.New("message prefix did not match")

// ParseError reports a message whose fields or date-time could not be parsed.
type ParseError struct {
	Index int    // 0-based position of the message
	Text  string // offending message or date-time text
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at message %d %q: %v", e.Index, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
