package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

// Path composes the destination path for a base name.
func Path(dir, name string, e Exporter) string {
	return filepath.Join(dir, name+"."+e.Extension())
}

// WriteFile exports table to path, replacing any existing file and creating
// the parent directory when needed.
func WriteFile(path string, table *extractor.Table, e Exporter) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := e.Export(table, bw); err != nil {
		_ = f.Close()
		return fmt.Errorf("exporting %s: %w", e.Extension(), err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	return f.Close()
}
