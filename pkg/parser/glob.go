package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ExportExtension is the file extension of chat exports.
const ExportExtension = ".txt"

// ExpandInputs turns file paths, directories and glob patterns into a sorted,
// deduplicated list of export files. A directory contributes its *.txt files.
// Patterns that match nothing are kept as literal paths so that the caller
// reports a proper file-not-found error for them.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			pattern = filepath.Join(pattern, "*"+ExportExtension)
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}

	sort.Strings(result)
	return result, nil
}
