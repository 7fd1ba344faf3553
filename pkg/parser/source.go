package parser

import (
	"bytes"
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lineBreaks normalises every line terminator an export may contain to "\n":
// CR, CRLF, vertical tab, form feed, the file, group and record separators,
// NEL and the Unicode line and paragraph separators.
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\x1c", "\n",
	"\x1d", "\n",
	"\x1e", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// ReadLines loads a whole export file and splits it into physical lines.
// A leading byte order mark is dropped. Returns *IOError when the file cannot
// be read and *DecodeError when it is not valid UTF-8.
func ReadLines(ctx context.Context, path string) ([]RawLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		op := "read"
		if os.IsNotExist(err) || os.IsPermission(err) {
			op = "open"
		}
		return nil, &IOError{Path: path, Op: op, Err: err}
	}

	for i, line := range bytes.Split(data, []byte("\n")) {
		if !utf8.Valid(line) {
			return nil, &DecodeError{Path: path, LineNum: i + 1}
		}
	}

	text, _, err := transform.String(unicode.UTF8BOM.NewDecoder(), string(data))
	if err != nil {
		return nil, &IOError{Path: path, Op: "read", Err: err}
	}

	return SplitLines(text), nil
}

// SplitLines splits text on line breaks. A trailing line break does not
// produce an empty final line.
func SplitLines(text string) []RawLine {
	text = lineBreaks.Replace(text)
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	parts := strings.Split(text, "\n")
	lines := make([]RawLine, len(parts))
	for i, p := range parts {
		lines[i] = RawLine{Content: p, LineNum: i + 1}
	}
	return lines
}
