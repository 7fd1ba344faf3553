package export

import (
	"encoding/json"
	"io"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

// JSONExporter exports the table as a pretty-printed JSON array
type JSONExporter struct{}

// Export writes the table as JSON
func (e *JSONExporter) Export(table *extractor.Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(indexed(table))
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
