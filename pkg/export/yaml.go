package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

// YAMLExporter exports the table as a YAML sequence
type YAMLExporter struct{}

// Export writes the table as YAML
func (e *YAMLExporter) Export(table *extractor.Table, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(indexed(table))
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
