// Package parser reads chat export files and rebuilds the logical messages
// that the export split across several physical lines.
package parser

// RawLine is a single physical line of an export, as written by the app.
type RawLine struct {
	// Content is the line text without its line terminator.
	Content string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// MessageSeparator joins a continuation line to the message it belongs to.
const MessageSeparator = ". "
