// Package export writes extracted chat tables to files.
package export

import (
	"fmt"
	"io"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(table *extractor.Table, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv", "":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, json, yaml)", format)
	}
}

// indexedRecord carries the row index next to the record fields.
type indexedRecord struct {
	Index            int `json:"index" yaml:"index"`
	extractor.Record `yaml:",inline"`
}

func indexed(table *extractor.Table) []indexedRecord {
	rows := make([]indexedRecord, len(table.Records))
	for i, r := range table.Records {
		rows[i] = indexedRecord{Index: i, Record: r}
	}
	return rows
}
