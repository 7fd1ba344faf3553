package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/chattab/pkg/extractor"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
input_dir: exports
input_name: family
output_name: family-table
format: json
group_chat: true
locale: en
strategy: pattern
date_order: dmy
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InputPath() != filepath.Join("exports", "family.txt") {
		t.Errorf("InputPath() = %q", cfg.InputPath())
	}
	if cfg.OutputName != "family-table" || cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir/OutputName = %q/%q", cfg.OutputDir, cfg.OutputName)
	}
	if !cfg.GroupChat {
		t.Error("GroupChat = false, want true")
	}
	if cfg.ResolvedDateOrder() != extractor.OrderDMY {
		t.Errorf("ResolvedDateOrder() = %q, want dmy", cfg.ResolvedDateOrder())
	}
	if cfg.ResolvedLocale().MissingText != "missing text" {
		t.Errorf("MissingText = %q, want %q", cfg.ResolvedLocale().MissingText, "missing text")
	}
	if cfg.CompiledPrefixPattern() != nil {
		t.Error("CompiledPrefixPattern() should be nil without prefix_pattern")
	}
}

func TestLoad_TOML(t *testing.T) {
	content := `
input_name = "team"
group_chat = 1
locale = "de"
date_order = "auto"

[noise]
always = ["Nachricht gelöscht"]
`
	path := writeTempFile(t, "config.toml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InputName != "team" {
		t.Errorf("InputName = %q, want team", cfg.InputName)
	}
	if !cfg.GroupChat {
		t.Error("GroupChat = false, want true")
	}
	noise := cfg.ResolvedLocale().Noise
	if len(noise) != 1 || noise[0] != "nachricht gelöscht" {
		t.Errorf("Noise = %v, want [nachricht gelöscht]", noise)
	}
	// group phrases keep the locale default
	if len(cfg.ResolvedLocale().GroupNoise) != 2 {
		t.Errorf("GroupNoise = %v, want locale default", cfg.ResolvedLocale().GroupNoise)
	}
}

func TestLoad_TOMLUnknownKey(t *testing.T) {
	path := writeTempFile(t, "config.toml", `inptu_name = "typo"`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Fatal("Load() expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "inptu_name") {
		t.Errorf("error %q should name the key", err)
	}
}

func TestLoad_YAMLUnknownKey(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "date_oder: dmy\n")
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Fatal("Load() expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "date_oder") {
		t.Errorf("error %q should name the key", err)
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := writeTempFile(t, "empty.yaml", "# nothing set\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InputName != DefaultInputName {
		t.Errorf("InputName = %q, want default", cfg.InputName)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_GroupChatFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    Flag
		wantErr bool
	}{
		{value: "true", want: true},
		{value: "false", want: false},
		{value: "1", want: true},
		{value: "0", want: false},
		{value: "yes", want: true},
		{value: "2", wantErr: true},
		{value: "[1]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			path := writeTempFile(t, "config.yaml", "group_chat: "+tt.value+"\n")
			cfg, err := Load(context.Background(), path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.GroupChat != tt.want {
				t.Errorf("GroupChat = %v, want %v", cfg.GroupChat, tt.want)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvInputName, "from-env")
	t.Setenv(EnvOutputName, "out-env")
	t.Setenv(EnvGroupChat, "1")
	t.Setenv(EnvLocale, "fr")

	path := writeTempFile(t, "config.yaml", "input_name: from-file\nlocale: it\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InputName != "from-env" {
		t.Errorf("InputName = %q, want from-env", cfg.InputName)
	}
	if cfg.OutputName != "out-env" {
		t.Errorf("OutputName = %q, want out-env", cfg.OutputName)
	}
	if !cfg.GroupChat {
		t.Error("GroupChat = false, want true")
	}
	if cfg.ResolvedLocale().MissingText != "texte manquant" {
		t.Errorf("locale not overridden: %q", cfg.ResolvedLocale().MissingText)
	}
}

func TestLoad_InvalidEnvironmentFlag(t *testing.T) {
	t.Setenv(EnvGroupChat, "maybe")

	path := writeTempFile(t, "config.yaml", "input_name: chat\n")
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Fatal("Load() expected error for invalid CHATTAB_GROUP_CHAT")
	}
	if !strings.Contains(err.Error(), EnvGroupChat) {
		t.Errorf("error %q should name the variable", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}

	if cfg.InputPath() != filepath.Join("chat", "chat.txt") {
		t.Errorf("InputPath() = %q", cfg.InputPath())
	}
	if cfg.OutputDir != "export" || cfg.OutputName != "chat" || cfg.Format != "csv" {
		t.Errorf("output defaults = %q/%q/%q", cfg.OutputDir, cfg.OutputName, cfg.Format)
	}
	if cfg.GroupChat {
		t.Error("GroupChat should default to false")
	}
	if cfg.ResolvedDateOrder() != extractor.OrderAuto {
		t.Errorf("ResolvedDateOrder() = %q, want auto", cfg.ResolvedDateOrder())
	}
	if cfg.ResolvedLocale().MissingText != "testo mancante" {
		t.Errorf("default locale should be Italian, got %q", cfg.ResolvedLocale().MissingText)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "empty input name", modify: func(c *Config) { c.InputName = " " }, wantErr: "input_name"},
		{name: "empty output name", modify: func(c *Config) { c.OutputName = "" }, wantErr: "output_name"},
		{name: "unknown format", modify: func(c *Config) { c.Format = "xlsx" }, wantErr: "format"},
		{name: "unknown strategy", modify: func(c *Config) { c.Strategy = "guess" }, wantErr: "strategy"},
		{name: "unknown anchor", modify: func(c *Config) { c.ContentAnchor = "middle" }, wantErr: "content_anchor"},
		{name: "unknown date order", modify: func(c *Config) { c.DateOrder = "ydm" }, wantErr: "date_order"},
		{name: "unsupported locale", modify: func(c *Config) { c.Locale = "ja" }, wantErr: "locale"},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "chatty" }, wantErr: "log_level"},
		{
			name:   "log level ignored without file",
			modify: func(c *Config) { c.LogFile = ""; c.LogLevel = "chatty" },
		},
		{name: "unanchored prefix", modify: func(c *Config) { c.PrefixPattern = `\d+` }, wantErr: "anchored"},
		{name: "invalid prefix", modify: func(c *Config) { c.PrefixPattern = `^(` }, wantErr: "prefix_pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CompilesPrefixPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrefixPattern = `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}`
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	re := cfg.CompiledPrefixPattern()
	if re == nil {
		t.Fatal("CompiledPrefixPattern() = nil")
	}
	if !re.MatchString("2023-01-02 10:00 alice: hi") {
		t.Error("compiled pattern should match an ISO prefix")
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
