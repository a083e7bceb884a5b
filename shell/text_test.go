package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/pattern"
)

func digitOrB() pattern.Pattern[string] {
	return pattern.Or(pattern.Map(pattern.Digit, func(r rune) string { return string(r) }), pattern.Text("B"))
}

func bangAfterDigits() pattern.Pattern[string] {
	return pattern.Map(pattern.Plus(pattern.Digit), func(s string) string { return s + "!" })
}

func TestGrep(t *testing.T) {
	got, err := Collect(context.Background(), Grep(digitOrB(), Select("123", "456", "ABC")))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"123", "456", "ABC"}) {
		t.Errorf("got %v", got)
	}

	got, _ = Collect(context.Background(), Grep(pattern.Or(pattern.Text("1"), pattern.Text("B")), Select("123", "456", "ABC")))
	if !strSliceEqual(got, []string{"123", "ABC"}) {
		t.Errorf("got %v", got)
	}

	inverted, _ := Collect(context.Background(), GrepV(pattern.Text("5"), Select("123", "456", "ABC")))
	if !strSliceEqual(inverted, []string{"123", "ABC"}) {
		t.Errorf("got %v", inverted)
	}
}

func TestSed(t *testing.T) {
	got, err := Collect(context.Background(), Sed(bangAfterDigits(), Select("123", "456", "ABC")))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"123!", "456!", "ABC"}) {
		t.Errorf("got %v", got)
	}
}

func TestSed_EveryOccurrence(t *testing.T) {
	p := pattern.As(pattern.Text("cat"), "dog")
	got, _ := Collect(context.Background(), Sed(p, Select("cat concatenate", "")))
	if !strSliceEqual(got, []string{"dog condogenate", ""}) {
		t.Errorf("got %q", got)
	}
}

func TestSed_EmptyMatchTerminates(t *testing.T) {
	p := pattern.Map(pattern.Star(pattern.Digit), func(s string) string { return "<" + s + ">" })
	got, _ := Collect(context.Background(), Sed(p, Select("a12b")))
	if !strSliceEqual(got, []string{"a<12>b"}) {
		t.Errorf("got %q", got)
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"a, b,c", []string{"a", "b", "c"}},
		{"abc", []string{"abc"}},
		{"", []string{""}},
		{",x,", []string{"", "x", ""}},
	}
	sep := pattern.Concat(pattern.Text(","), pattern.Spaces)
	for _, tc := range tests {
		if got := Cut(sep, tc.line); !strSliceEqual(got, tc.want) {
			t.Errorf("Cut(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestMatchLines(t *testing.T) {
	kv := pattern.Seq(pattern.Plus(pattern.Letter), pattern.Right(pattern.Char('='), pattern.Decimal),
		func(k string, v int) string { return k + ":" + string(rune('0'+v)) })
	got, err := Collect(context.Background(), MatchLines(kv, Select("a=1", "junk", "b=2")))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"a:1", "b:2"}) {
		t.Errorf("got %v", got)
	}
}

func TestOutputInputAppend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.txt")

	if err := Output(ctx, path, Select("one", "two")); err != nil {
		t.Fatal(err)
	}
	if err := Append(ctx, path, Select("three")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\nthree\n" {
		t.Errorf("got %q", data)
	}

	got, err := Collect(ctx, Input(path))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("got %v", got)
	}

	first, _, err := First(ctx, Input(path))
	if err != nil || first != "one" {
		t.Errorf("first = %q, %v", first, err)
	}
}

func TestOutput_StopsInfiniteInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yes.txt")
	if err := Output(context.Background(), path, Limit(3, Yes())); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "y\ny\ny\n" {
		t.Errorf("got %q", data)
	}
}

func TestInput_Missing(t *testing.T) {
	_, err := Collect(context.Background(), Input(filepath.Join(t.TempDir(), "nope")))
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestInplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("123\n456\nABC\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Inplace(context.Background(), bangAfterDigits(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "123!\n456!\nABC\n" {
		t.Errorf("got %q", data)
	}
	fi, _ := os.Stat(path)
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("expected mode preserved, got %v", fi.Mode().Perm())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp file cleaned up, found %d entries", len(entries))
	}
}
