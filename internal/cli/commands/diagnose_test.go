package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/chattab/pkg/config"
)

func writeDiagnoseSetup(t *testing.T, chat, extra string) string {
	t.Helper()
	tmpDir := t.TempDir()

	if chat != "" {
		if err := os.WriteFile(filepath.Join(tmpDir, "chat.txt"), []byte(chat), 0644); err != nil {
			t.Fatalf("Failed to create chat file: %v", err)
		}
	}

	configPath := filepath.Join(tmpDir, "chattab.yaml")
	content := "input_dir: " + tmpDir + "\n" +
		"output_dir: " + filepath.Join(tmpDir, "export") + "\n" +
		"locale: en\nlog_file: \"\"\n" + extra
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	return configPath
}

func runDiagnoseForTest(t *testing.T, configPath string) (string, int) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	var buf bytes.Buffer
	if err := runDiagnose(context.Background(), configPath, &DiagnoseOptions{}, &buf); err != nil {
		t.Fatalf("runDiagnose() error = %v", err)
	}
	return buf.String(), ExitCode
}

func TestRunDiagnose_AllPass(t *testing.T) {
	chat := "13/2/23, 10:00 - alice: hi\n14/2/23, 11:00 - bob: hello\n"
	configPath := writeDiagnoseSetup(t, chat, "date_order: dmy\n")

	output, code := runDiagnoseForTest(t, configPath)

	if code != 0 {
		t.Errorf("ExitCode = %d, want 0\n%s", code, output)
	}
	for _, want := range []string{
		"[PASS] Config File",
		"[PASS] Message Format",
		"[PASS] Date Order",
		"[PASS] Dry Run",
		"2 messages, 2 rows, 0 dropped for missing content",
		"directory will be created",
		"Setup looks good!",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\n%s", want, output)
		}
	}
}

func TestRunDiagnose_DateOrderMismatch(t *testing.T) {
	chat := "13/2/23, 10:00 - alice: hi\n"
	configPath := writeDiagnoseSetup(t, chat, "date_order: mdy\n")

	output, _ := runDiagnoseForTest(t, configPath)

	if !strings.Contains(output, "[WARN] Date Order") {
		t.Errorf("Expected date order warning\n%s", output)
	}
	if !strings.Contains(output, "Hint: Set date_order: dmy") {
		t.Errorf("Expected date order hint\n%s", output)
	}
}

func TestRunDiagnose_WrongStrategy(t *testing.T) {
	chat := "[13/02/23, 10:00:00] alice: hi\n"
	configPath := writeDiagnoseSetup(t, chat, "strategy: split\n")

	output, code := runDiagnoseForTest(t, configPath)

	if code != 1 {
		t.Errorf("ExitCode = %d, want 1", code)
	}
	if !strings.Contains(output, "[FAIL] Message Format") {
		t.Errorf("Expected message format failure\n%s", output)
	}
	if !strings.Contains(output, "Hint: Set strategy: pattern") {
		t.Errorf("Expected strategy hint\n%s", output)
	}
}

func TestRunDiagnose_BoundaryError(t *testing.T) {
	chat := "hello there\n13/2/23, 10:00 - alice: hi\n"
	configPath := writeDiagnoseSetup(t, chat, "date_order: dmy\n")

	output, code := runDiagnoseForTest(t, configPath)

	if code != 1 {
		t.Errorf("ExitCode = %d, want 1", code)
	}
	if !strings.Contains(output, "[FAIL] Dry Run") {
		t.Errorf("Expected dry run failure\n%s", output)
	}
	if !strings.Contains(output, "Hint: The first kept line must start a message") {
		t.Errorf("Expected boundary hint\n%s", output)
	}
}

func TestRunDiagnose_MissingInput(t *testing.T) {
	configPath := writeDiagnoseSetup(t, "", "")

	output, code := runDiagnoseForTest(t, configPath)

	if code != 1 {
		t.Errorf("ExitCode = %d, want 1", code)
	}
	if strings.Contains(output, "Dry Run") {
		t.Error("Dry run should be skipped without an input file")
	}
	if !strings.Contains(output, "[PASS] Output") {
		t.Errorf("Output check should still run\n%s", output)
	}
}

func TestRunDiagnose_InvalidConfig(t *testing.T) {
	configPath := writeDiagnoseSetup(t, "", "strategy: guess\n")

	output, code := runDiagnoseForTest(t, configPath)

	if code != 1 {
		t.Errorf("ExitCode = %d, want 1", code)
	}
	if !strings.Contains(output, "[FAIL] Config Syntax") {
		t.Errorf("Expected config failure\n%s", output)
	}
}

func TestCheckConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "chattab.yaml")
	if err := os.WriteFile(file, []byte("locale: en\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		status string
	}{
		{"no path", "", "ok"},
		{"existing file", file, "ok"},
		{"missing file", filepath.Join(tmpDir, "missing.yaml"), "error"},
		{"directory", tmpDir, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkConfigExists(tt.path)
			if got.Status != tt.status {
				t.Errorf("Status = %q, want %q (%s)", got.Status, tt.status, got.Message)
			}
		})
	}
}

func TestCheckInputFile_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "chat.txt"), nil, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.InputDir = tmpDir

	got := checkInputFile(cfg)
	if got.Status != "warning" {
		t.Errorf("Status = %q, want warning", got.Status)
	}
}

func TestCheckOutput(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.OutputDir = tmpDir

	if got := checkOutput(cfg); got.Status != "ok" {
		t.Errorf("empty dir: Status = %q, want ok", got.Status)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "chat.csv"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if got := checkOutput(cfg); got.Status != "warning" {
		t.Errorf("existing table: Status = %q, want warning", got.Status)
	}

	cfg.OutputDir = filepath.Join(tmpDir, "chat.csv")
	if got := checkOutput(cfg); got.Status != "error" {
		t.Errorf("file as dir: Status = %q, want error", got.Status)
	}
}

func TestPrintDiagnostics(t *testing.T) {
	results := []DiagnosticResult{
		{Check: "A", Status: "ok", Message: "fine", Details: []string{"hidden"}},
		{Check: "B", Status: "warning", Message: "hmm", Details: []string{"shown"}},
		{Check: "C", Status: "error", Message: "bad", Suggests: []string{"fix it"}},
	}

	var buf bytes.Buffer
	errCount := printDiagnostics(results, &DiagnoseOptions{}, &buf)
	if errCount != 1 {
		t.Errorf("errCount = %d, want 1", errCount)
	}

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("Details of passing checks need --verbose")
	}
	for _, want := range []string{"- shown", "Hint: fix it", "Summary: 1 passed, 1 warnings, 1 errors"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\n%s", want, output)
		}
	}

	buf.Reset()
	printDiagnostics(results, &DiagnoseOptions{Verbose: true}, &buf)
	if !strings.Contains(buf.String(), "- hidden") {
		t.Error("Verbose output should include all details")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"città città città", 8, "città..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
