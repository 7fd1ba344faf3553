package parser

import "fmt"

// IOError reports a source file that could not be opened or read.
type IOError struct {
	Path string
	Op   string // "open", "read"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DecodeError reports a source file that is not valid UTF-8.
type DecodeError struct {
	Path    string
	LineNum int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s line %d: invalid UTF-8", e.Path, e.LineNum)
}

// BoundaryError reports a first retained line that does not start a message,
// so there is no message for it to continue.
type BoundaryError struct {
	Line string
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("boundary error: first line does not start a message: %q", e.Line)
}
