package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chattab/internal/logging"
	"github.com/ccollicutt/chattab/pkg/export"
	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/locale"
)

// Load reads and validates a configuration file. Files ending in .toml are
// decoded as TOML, everything else as YAML. Unknown keys are errors in both.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it is set and otherwise validates the
// defaults with environment overrides applied.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown key %q", undecoded[0].String())
		}
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks a configuration for errors and resolves the locale, the
// date order and the optional prefix pattern.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.InputName) == "" {
		return errors.New("input_name: must not be empty")
	}
	if strings.TrimSpace(cfg.OutputName) == "" {
		return errors.New("output_name: must not be empty")
	}

	if _, err := export.NewExporter(cfg.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	switch cfg.ContentAnchor {
	case "", extractor.AnchorPrefix, extractor.AnchorName:
	default:
		return fmt.Errorf("content_anchor: unsupported anchor: %s (supported: prefix, name)", cfg.ContentAnchor)
	}

	if _, err := extractor.New(cfg.Strategy, "", cfg.ContentAnchor); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	order, err := extractor.ParseDateOrder(cfg.DateOrder)
	if err != nil {
		return fmt.Errorf("date_order: %w", err)
	}
	cfg.dateOrder = order

	loc, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	cfg.locale = loc.WithNoise(cfg.Noise.Always, cfg.Noise.Group)

	if cfg.LogFile != "" {
		if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}

	cfg.compiledPrefix = nil
	if cfg.PrefixPattern != "" {
		re, err := validatePrefixPattern(cfg.PrefixPattern)
		if err != nil {
			return fmt.Errorf("prefix_pattern: %w", err)
		}
		cfg.compiledPrefix = re
	}

	return nil
}

func validatePrefixPattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "^") {
		return nil, errors.New("must be anchored with ^")
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return re, nil
}
