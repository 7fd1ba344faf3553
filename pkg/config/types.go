// Package config provides configuration loading and validation for chattab.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/locale"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// InputDir and InputName compose the export path <dir>/<name>.txt.
	InputDir  string `yaml:"input_dir" toml:"input_dir"`
	InputName string `yaml:"input_name" toml:"input_name"`

	// OutputDir and OutputName compose the destination <dir>/<name>.<ext>.
	OutputDir  string `yaml:"output_dir" toml:"output_dir"`
	OutputName string `yaml:"output_name" toml:"output_name"`

	// Format selects the exporter (csv, json, yaml).
	Format string `yaml:"format" toml:"format"`

	// GroupChat enables membership-change filtering.
	GroupChat Flag `yaml:"group_chat" toml:"group_chat"`

	// Locale selects noise phrases, the missing-text sentinel and weekday names.
	Locale string `yaml:"locale" toml:"locale"`

	// Strategy selects the record extractor (split, pattern).
	Strategy string `yaml:"strategy" toml:"strategy"`

	// ContentAnchor selects where the pattern strategy starts content (prefix, name).
	ContentAnchor string `yaml:"content_anchor" toml:"content_anchor"`

	// DateOrder is mdy, dmy, ymd or auto (the default).
	DateOrder string `yaml:"date_order" toml:"date_order"`

	// PrefixPattern overrides the regex recognising message starts.
	PrefixPattern string `yaml:"prefix_pattern,omitempty" toml:"prefix_pattern"`

	// Noise overrides the locale's noise phrases.
	Noise NoiseConfig `yaml:"noise,omitempty" toml:"noise"`

	// LogFile receives records at LogLevel and above. Empty disables it.
	LogFile  string `yaml:"log_file" toml:"log_file"`
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// populated during validation
	compiledPrefix *regexp.Regexp
	locale         *locale.Locale
	dateOrder      extractor.DateOrder
}

// NoiseConfig replaces the locale's noise phrases. A nil list keeps the default.
type NoiseConfig struct {
	Always []string `yaml:"always,omitempty" toml:"always"`
	Group  []string `yaml:"group,omitempty" toml:"group"`
}

// CompiledPrefixPattern returns the compiled message-start pattern, or nil
// when the default applies.
func (c *Config) CompiledPrefixPattern() *regexp.Regexp {
	return c.compiledPrefix
}

// ResolvedLocale returns the locale with any noise overrides applied.
func (c *Config) ResolvedLocale() *locale.Locale {
	return c.locale
}

// ResolvedDateOrder returns the validated date order.
func (c *Config) ResolvedDateOrder() extractor.DateOrder {
	return c.dateOrder
}

// InputPath returns <input_dir>/<input_name>.txt.
func (c *Config) InputPath() string {
	return filepath.Join(c.InputDir, c.InputName+".txt")
}

// Flag is a boolean that also accepts 0 and 1, in config files and the environment.
type Flag bool

// ParseFlag parses true/false, yes/no, on/off and 1/0.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid flag %q (use true/false or 1/0)", s)
	}
	return Flag(b), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: flag must be a scalar", value.Line)
	}
	v, err := ParseFlag(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*f = v
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Flag) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case bool:
		*f = Flag(v)
	case int64:
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid flag %d (use 0 or 1)", v)
		}
		*f = v == 1
	case string:
		p, err := ParseFlag(v)
		if err != nil {
			return err
		}
		*f = p
	default:
		return fmt.Errorf("invalid flag type %T", data)
	}
	return nil
}
