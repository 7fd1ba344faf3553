package extractor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ccollicutt/chattab/pkg/locale"
)

// Builder turns logical messages into a Table using one Extractor.
type Builder struct {
	extractor Extractor
	locale    *locale.Locale
	order     DateOrder
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLocale sets the sentinel and weekday names.
func WithLocale(l *locale.Locale) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.locale = l
		}
	}
}

// WithDateOrder sets how dates are read. OrderAuto, the default, infers it
// from the messages and falls back to the locale's order.
func WithDateOrder(o DateOrder) BuilderOption {
	return func(b *Builder) {
		if o != "" {
			b.order = o
		}
	}
}

// WithLogger sets the logger for stage progress.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder around ex.
func NewBuilder(ex Extractor, opts ...BuilderOption) *Builder {
	b := &Builder{
		extractor: ex,
		locale:    locale.MustLookup(locale.DefaultLocale),
		order:     OrderAuto,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build extracts every message, drops those with missing content, and derives
// the computed columns. Extraction is eager: the first *ParseError aborts the
// whole build.
func (b *Builder) Build(ctx context.Context, messages []string) (*Table, error) {
	fields := make([]Fields, 0, len(messages))
	for i, m := range messages {
		f, err := b.extractor.Fields(m)
		if err != nil {
			return nil, &ParseError{Index: i, Text: m, Err: err}
		}
		fields = append(fields, f)
	}
	b.logger.Info("Extracted dates, times, names and contents.", "strategy", b.extractor.Name())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := &Table{
		Strategy: b.extractor.Name(),
		Messages: len(messages),
		Records:  make([]Record, 0, len(fields)),
	}

	// kept holds indexes into fields so errors name the source message
	kept := make([]int, 0, len(fields))
	for i, f := range fields {
		if f.Content == b.locale.MissingText {
			b.logger.Debug("skipped message with missing text", "index", i)
			table.Dropped++
			continue
		}
		kept = append(kept, i)
	}
	b.logger.Info("Generated table.", "rows", len(kept), "dropped", table.Dropped)

	dates := make([]string, len(kept))
	for j, i := range kept {
		dates[j] = fields[i].Date
	}
	table.DateOrder = b.resolveOrder(dates)

	for _, i := range kept {
		f := fields[i]
		rec, err := b.record(f, table.DateOrder)
		if err != nil {
			return nil, &ParseError{Index: i, Text: f.Date + " " + f.Time, Err: err}
		}
		table.Records = append(table.Records, rec)
	}
	b.logger.Info("Cleaned table.", "rows", table.Len())

	return table, nil
}

func (b *Builder) resolveOrder(dates []string) DateOrder {
	if b.order != OrderAuto {
		return b.order
	}

	fallback := DefaultDateOrder
	if o, err := ParseDateOrder(b.locale.DateOrder); err == nil && o != OrderAuto {
		fallback = o
	}
	order, ambiguous := inferDateOrder(dates, fallback)
	if ambiguous {
		b.logger.Warn("date order is ambiguous, assuming "+string(order), "dates", len(dates))
	} else {
		b.logger.Debug("inferred date order", "order", order)
	}
	return order
}

func (b *Builder) record(f Fields, order DateOrder) (Record, error) {
	dt, err := ParseDateTime(f.Date, f.Time, order)
	if err != nil {
		return Record{}, err
	}
	hour, err := ParseHour(f.Time)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Date:        f.Date,
		Time:        f.Time,
		Name:        f.Name,
		Content:     f.Content,
		DateTime:    dt,
		Year:        dt.Format("2006"),
		Weekday:     b.locale.Weekday(dt),
		Hour:        hour,
		LetterCount: utf8.RuneCountInString(f.Content),
		WordCount:   len(strings.Split(f.Content, " ")),
	}, nil
}
