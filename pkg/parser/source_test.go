package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	content := "\xEF\xBB\xBF01/02/23, 10:00 - Alice: hello\r\nworld\n01/02/23, 10:01 - Bob: hi\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}

	want := []string{"01/02/23, 10:00 - Alice: hello", "world", "01/02/23, 10:01 - Bob: hi"}
	if len(lines) != len(want) {
		t.Fatalf("ReadLines() returned %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Content != w {
			t.Errorf("line %d = %q, want %q", i, lines[i].Content, w)
		}
		if lines[i].LineNum != i+1 {
			t.Errorf("line %d LineNum = %d, want %d", i, lines[i].LineNum, i+1)
		}
	}
}

func TestReadLines_FileNotFound(t *testing.T) {
	_, err := ReadLines(context.Background(), "/nonexistent/chat.txt")

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("ReadLines() error = %v, want *IOError", err)
	}
	if ioErr.Op != "open" {
		t.Errorf("IOError.Op = %q, want open", ioErr.Op)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("IOError should unwrap to os.ErrNotExist")
	}
}

func TestReadLines_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte("01/02/23, 10:00 - a: ok\nbad \xff\xfe byte\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadLines(context.Background(), path)

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("ReadLines() error = %v, want *DecodeError", err)
	}
	if decErr.LineNum != 2 {
		t.Errorf("DecodeError.LineNum = %d, want 2", decErr.LineNum)
	}
}

func TestReadLines_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ReadLines(ctx, "/nonexistent/chat.txt"); err != context.Canceled {
		t.Errorf("ReadLines() error = %v, want context.Canceled", err)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"trailing newline", "a\nb\n", 2},
		{"old mac breaks", "a\rb\rc", 3},
		{"blank lines kept", "a\n\nb", 3},
		{"unicode separator", "a\u2028b", 2},
		{"vertical tab and form feed", "a\vb\fc", 3},
		{"record separators", "a\x1cb\x1dc\x1ed", 4},
		{"next line", "a\u0085b", 2},
		{"crlf counts once", "a\r\nb\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.text); len(got) != tt.want {
				t.Errorf("SplitLines() returned %d lines, want %d", len(got), tt.want)
			}
		})
	}
}
