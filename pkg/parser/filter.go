package parser

import (
	"strings"
	"unicode/utf8"
)

// NoiseFilter drops boilerplate lines before reconstruction.
type NoiseFilter struct {
	phrases []string
}

// NewNoiseFilter builds a filter from the always-dropped phrases, adding the
// group phrases when group is true. Phrases must already be lowercase.
func NewNoiseFilter(always, group []string, isGroup bool) *NoiseFilter {
	phrases := append([]string(nil), always...)
	if isGroup {
		phrases = append(phrases, group...)
	}
	return &NoiseFilter{phrases: phrases}
}

// Keep reports whether a normalised line survives the filter: it must be
// longer than one character and contain none of the noise phrases.
func (f *NoiseFilter) Keep(line string) bool {
	if utf8.RuneCountInString(line) <= 1 {
		return false
	}
	for _, p := range f.phrases {
		if strings.Contains(line, p) {
			return false
		}
	}
	return true
}
