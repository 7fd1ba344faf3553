package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ccollicutt/chattab/pkg/config"
	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/parser"
)

// buildTable runs the reconstructor and the record builder over one export.
func buildTable(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string) (*extractor.Table, error) {
	loc := cfg.ResolvedLocale()

	r := parser.NewReconstructor(
		parser.WithLocale(loc),
		parser.WithGroupChat(bool(cfg.GroupChat)),
		parser.WithPrefixPattern(cfg.CompiledPrefixPattern()),
		parser.WithLogger(logger),
	)

	messages, err := r.Reconstruct(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("reconstructing messages: %w", err)
	}

	ex, err := extractor.New(cfg.Strategy, loc.MissingText, cfg.ContentAnchor)
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}

	b := extractor.NewBuilder(ex,
		extractor.WithLocale(loc),
		extractor.WithDateOrder(cfg.ResolvedDateOrder()),
		extractor.WithLogger(logger),
	)

	table, err := b.Build(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("extracting records: %w", err)
	}
	return table, nil
}
