package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

// CSVExporter writes one row per record, preceded by a header row. The first
// column is the 0-based row index and has an empty header.
type CSVExporter struct{}

// Export writes the table as CSV
func (e *CSVExporter) Export(table *extractor.Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{""}, extractor.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range table.Records {
		row := append([]string{strconv.Itoa(i)}, table.Records[i].Row()...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
