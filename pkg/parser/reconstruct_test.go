package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ccollicutt/chattab/pkg/locale"
)

func rawLines(lines ...string) []RawLine {
	out := make([]RawLine, len(lines))
	for i, l := range lines {
		out[i] = RawLine{Content: l, LineNum: i + 1}
	}
	return out
}

func reconstruct(t *testing.T, r *Reconstructor, lines ...string) []string {
	t.Helper()
	messages, err := r.ReconstructLines(context.Background(), rawLines(lines...))
	if err != nil {
		t.Fatalf("ReconstructLines() error = %v", err)
	}
	return messages
}

func equalStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d messages %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReconstructor_MergesContinuationLines(t *testing.T) {
	r := NewReconstructor(WithLocale(locale.MustLookup("en")))

	got := reconstruct(t, r,
		"01/02/23, 10:00 - Alice: hello",
		"world",
		"01/02/23, 10:01 - Bob: hi",
	)

	equalStrings(t, got, []string{
		"01/02/23, 10:00 - alice: hello. world",
		"01/02/23, 10:01 - bob: hi",
	})
}

func TestReconstructor_DropsNoise(t *testing.T) {
	for _, group := range []bool{false, true} {
		r := NewReconstructor(WithLocale(locale.MustLookup("en")), WithGroupChat(group))

		got := reconstruct(t, r,
			"01/02/23, 09:59 - Messages and calls are End-to-End Encrypted.",
			"01/02/23, 10:00 - Alice: <Media omitted>",
			"01/02/23, 10:01 - Bob: hi",
			"  ",
			"x",
		)

		equalStrings(t, got, []string{"01/02/23, 10:01 - bob: hi"})
	}
}

func TestReconstructor_GroupFiltering(t *testing.T) {
	lines := []string{
		"01/02/23, 10:00 - Alice: hello",
		"01/02/23, 10:01 - Carol left",
	}
	en := locale.MustLookup("en")

	group := reconstruct(t, NewReconstructor(WithLocale(en), WithGroupChat(true)), lines...)
	equalStrings(t, group, []string{"01/02/23, 10:00 - alice: hello"})

	single := reconstruct(t, NewReconstructor(WithLocale(en), WithGroupChat(false)), lines...)
	equalStrings(t, single, []string{
		"01/02/23, 10:00 - alice: hello",
		"01/02/23, 10:01 - carol left",
	})
}

func TestReconstructor_ItalianDefaults(t *testing.T) {
	r := NewReconstructor(WithGroupChat(true))

	got := reconstruct(t, r,
		"12/03/21, 18:20 - I messaggi e le chiamate sono crittografati end-to-end.",
		"12/03/21, 18:21 - Marco ha aggiunto Luca",
		"12/03/21, 18:22 - Luca: <Media omessi>",
		"12/03/21, 18:23 - Luca: ciao",
		"12/03/21, 18:24 - Giulia ha abbandonato",
	)

	equalStrings(t, got, []string{"12/03/21, 18:23 - luca: ciao"})
}

func TestReconstructor_BracketedPrefix(t *testing.T) {
	r := NewReconstructor(WithLocale(locale.MustLookup("en")))

	got := reconstruct(t, r,
		"[01.02.23, 10:00:15] Alice: first",
		"second line",
		"[01.02.23, 10:00:30] Bob: reply",
	)

	equalStrings(t, got, []string{
		"[01.02.23, 10:00:15] alice: first. second line",
		"[01.02.23, 10:00:30] bob: reply",
	})
}

func TestReconstructor_BoundaryError(t *testing.T) {
	r := NewReconstructor()

	_, err := r.ReconstructLines(context.Background(), rawLines(
		"orphan continuation",
		"01/02/23, 10:00 - Alice: hello",
	))

	var boundary *BoundaryError
	if !errors.As(err, &boundary) {
		t.Fatalf("ReconstructLines() error = %v, want *BoundaryError", err)
	}
	if boundary.Line != "orphan continuation" {
		t.Errorf("BoundaryError.Line = %q", boundary.Line)
	}
}

func TestReconstructor_EmptyInput(t *testing.T) {
	got := reconstruct(t, NewReconstructor())
	if len(got) != 0 {
		t.Errorf("ReconstructLines() = %v, want empty", got)
	}
}

func TestReconstructor_MessageCountEqualsPrefixLines(t *testing.T) {
	lines := []string{
		"01/02/23, 10:00 - Alice: one",
		"two",
		"three",
		"01/02/23, 10:01 - Bob: four",
		"01/02/23, 10:02 - Alice: five",
		"six",
	}
	matcher := NewPrefixMatcher(nil)
	want := 0
	for _, l := range lines {
		if matcher.Match(strings.ToLower(l)) {
			want++
		}
	}

	got := reconstruct(t, NewReconstructor(WithLocale(locale.MustLookup("en"))), lines...)
	if len(got) != want {
		t.Errorf("got %d messages, want %d", len(got), want)
	}
	for _, m := range got {
		if !matcher.Match(m) {
			t.Errorf("message %q does not begin with a timestamp", m)
		}
	}
}

func TestReconstructor_IdempotentOnCleanInput(t *testing.T) {
	lines := []string{
		"01/02/23, 10:00 - alice: hello",
		"01/02/23, 10:01 - bob: hi",
	}
	r := NewReconstructor(WithLocale(locale.MustLookup("en")))

	first := reconstruct(t, r, lines...)
	equalStrings(t, first, lines)

	second := reconstruct(t, r, first...)
	equalStrings(t, second, first)
}

func TestReconstructor_CustomPrefixPattern(t *testing.T) {
	r := NewReconstructor(WithPrefixPattern(regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)))

	got := reconstruct(t, r, "2023-01-02 alice: hi", "more")
	equalStrings(t, got, []string{"2023-01-02 alice: hi. more"})
}

func TestReconstructor_Reconstruct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	content := "01/02/23, 10:00 - Alice: hello\nworld\n01/02/23, 10:01 - Bob: hi\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewReconstructor().Reconstruct(context.Background(), path)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Reconstruct() returned %d messages, want 2", len(got))
	}
}

func TestReconstructor_ReconstructMissingFile(t *testing.T) {
	_, err := NewReconstructor().Reconstruct(context.Background(), "/nonexistent/chat.txt")

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Reconstruct() error = %v, want *IOError", err)
	}
}

func TestPrefixMatcher_Match(t *testing.T) {
	m := NewPrefixMatcher(nil)

	tests := []struct {
		line string
		want bool
	}{
		{"01/02/23, 10:00 - alice: hi", true},
		{"1/2/2023, 9:05 - alice: hi", true},
		{"[01/02/23, 10:00:59] alice: hi", true},
		{"2023-01-02, 10:00 - alice: hi", true},
		{"01/02/23 10:00 - alice: hi", false},
		{"hello 01/02/23, 10:00", false},
		{"01/02/23, - alice", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := m.Match(tt.line); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestNoiseFilter_Keep(t *testing.T) {
	f := NewNoiseFilter([]string{"media omitted"}, []string{"left"}, false)
	if !f.Keep("01/02/23, 10:00 - carol left") {
		t.Error("group phrase should be kept outside group mode")
	}
	if f.Keep("<media omitted>") {
		t.Error("noise phrase should be dropped")
	}
	if f.Keep("é") {
		t.Error("single character line should be dropped")
	}
	if !f.Keep("ok") {
		t.Error("two character line should be kept")
	}
}
