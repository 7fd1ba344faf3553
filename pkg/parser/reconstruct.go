package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ccollicutt/chattab/pkg/locale"
)

// Reconstructor rebuilds logical messages from the physical lines of an export.
type Reconstructor struct {
	locale  *locale.Locale
	group   bool
	matcher *PrefixMatcher
	logger  *slog.Logger
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLocale selects the noise phrases and lowercasing rules.
func WithLocale(l *locale.Locale) Option {
	return func(r *Reconstructor) {
		if l != nil {
			r.locale = l
		}
	}
}

// WithGroupChat enables membership-change filtering for group conversations.
func WithGroupChat(group bool) Option {
	return func(r *Reconstructor) {
		r.group = group
	}
}

// WithPrefixPattern overrides the message-start pattern.
func WithPrefixPattern(re *regexp.Regexp) Option {
	return func(r *Reconstructor) {
		r.matcher = NewPrefixMatcher(re)
	}
}

// WithLogger sets the logger for stage progress.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconstructor) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReconstructor creates a Reconstructor. Defaults: the Italian locale,
// no group filtering, DefaultPrefixPattern, and a discarding logger.
func NewReconstructor(opts ...Option) *Reconstructor {
	r := &Reconstructor{
		locale:  locale.MustLookup(locale.DefaultLocale),
		matcher: NewPrefixMatcher(nil),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconstruct reads the export at path and returns its logical messages in
// source order.
func (r *Reconstructor) Reconstruct(ctx context.Context, path string) ([]string, error) {
	lines, err := ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Imported chat.", "path", path, "lines", len(lines))

	return r.ReconstructLines(ctx, lines)
}

// ReconstructLines normalises, filters and merges already-read lines.
func (r *Reconstructor) ReconstructLines(ctx context.Context, lines []RawLine) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := r.clean(lines)
	r.logger.Info("Cleaned chat from empty and unuseful lines.", "kept", len(clean), "dropped", len(lines)-len(clean))

	messages, err := r.merge(clean)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Merged messages belonging together.")
	r.logger.Info(fmt.Sprintf("Total messages: %d", len(messages)))

	return messages, nil
}

// clean trims and lowercases every line and drops the noise.
func (r *Reconstructor) clean(lines []RawLine) []string {
	filter := NewNoiseFilter(r.locale.Noise, r.locale.GroupNoise, r.group)

	kept := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := r.locale.Lower(strings.TrimSpace(raw.Content))
		if !filter.Keep(line) {
			r.logger.Debug("dropped line", "line", raw.LineNum)
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// merge starts a message at each timestamped line and appends every other
// line to the current one.
func (r *Reconstructor) merge(lines []string) ([]string, error) {
	var messages []string
	pos := -1

	for _, line := range lines {
		if r.matcher.Match(line) {
			messages = append(messages, line)
			pos++
			continue
		}
		if pos < 0 {
			return nil, &BoundaryError{Line: line}
		}
		messages[pos] += MessageSeparator + line
	}

	return messages, nil
}
