package config

import (
	"fmt"
	"os"

	"github.com/ccollicutt/chattab/pkg/extractor"
	"github.com/ccollicutt/chattab/pkg/locale"
)

// Default values for configuration.
const (
	DefaultInputDir   = "chat"
	DefaultInputName  = "chat"
	DefaultOutputDir  = "export"
	DefaultOutputName = "chat"
	DefaultFormat     = "csv"
	DefaultLogFile    = "debug.log"
	DefaultLogLevel   = "debug"
)

// Environment variable names.
const (
	EnvInputName  = "CHATTAB_INPUT_NAME"
	EnvOutputName = "CHATTAB_OUTPUT_NAME"
	EnvGroupChat  = "CHATTAB_GROUP_CHAT"
	EnvLocale     = "CHATTAB_LOCALE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		InputDir:      DefaultInputDir,
		InputName:     DefaultInputName,
		OutputDir:     DefaultOutputDir,
		OutputName:    DefaultOutputName,
		Format:        DefaultFormat,
		Locale:        locale.DefaultLocale,
		Strategy:      extractor.StrategySplit,
		ContentAnchor: extractor.AnchorPrefix,
		DateOrder:     string(extractor.OrderAuto),
		LogFile:       DefaultLogFile,
		LogLevel:      DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if v := os.Getenv(EnvInputName); v != "" {
		c.InputName = v
	}
	if v := os.Getenv(EnvOutputName); v != "" {
		c.OutputName = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Locale = v
	}
	if v := os.Getenv(EnvGroupChat); v != "" {
		f, err := ParseFlag(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvGroupChat, err)
		}
		c.GroupChat = f
	}
	return nil
}
