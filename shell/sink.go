package shell

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/kbukum/shellkit/filesys"
	"github.com/kbukum/shellkit/guard"
)

// Collect drives s and returns every value it produced.
func Collect[T any](ctx context.Context, s Shell[T]) ([]T, error) {
	return FoldShell(ctx, s, Fold[T, []T, []T]{
		Step: func(acc []T, v T) ([]T, error) { return append(acc, v), nil },
		Done: func(acc []T) []T { return acc },
	})
}

// ForEach drives s and calls fn for each value. fn may return ErrStop to
// end the drive early without an error.
func ForEach[T any](ctx context.Context, s Shell[T], fn func(T) error) error {
	return finish(s.Drive(ctx, fn))
}

// Run drives s for its effects and discards the values.
func Run[T any](ctx context.Context, s Shell[T]) error {
	return finish(s.Drive(ctx, func(T) error { return nil }))
}

// Count drives s and returns how many values it produced.
func Count[T any](ctx context.Context, s Shell[T]) (int, error) {
	return FoldShell(ctx, s, Fold[T, int, int]{
		Step: func(n int, _ T) (int, error) { return n + 1, nil },
		Done: func(n int) int { return n },
	})
}

// First returns the first value of s and stops the producer.
func First[T any](ctx context.Context, s Shell[T]) (T, bool, error) {
	type first struct {
		v  T
		ok bool
	}
	r, err := FoldShell(ctx, s, Fold[T, first, first]{
		Step: func(_ first, v T) (first, error) { return first{v: v, ok: true}, ErrStop },
		Done: func(f first) first { return f },
	})
	return r.v, r.ok, err
}

// Last drives s to completion and returns its final value.
func Last[T any](ctx context.Context, s Shell[T]) (T, bool, error) {
	var (
		last T
		ok   bool
	)
	err := ForEach(ctx, s, func(v T) error {
		last, ok = v, true
		return nil
	})
	return last, ok, err
}

// lineWriter writes one value per line through a buffer. Terminals flush
// after every line so interactive output is not held back.
type lineWriter struct {
	*bufio.Writer
	flushEach bool
}

func newLineWriter(w io.Writer, flushEach bool) *lineWriter {
	return &lineWriter{Writer: bufio.NewWriter(w), flushEach: flushEach}
}

func (w *lineWriter) writeLine(line string) error {
	if _, err := w.WriteString(line); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if w.flushEach {
		return w.Flush()
	}
	return nil
}

func writeLines(ctx context.Context, w io.Writer, lines Shell[string]) error {
	return drainLines(ctx, newLineWriter(w, false), lines)
}

func drainLines(ctx context.Context, lw *lineWriter, lines Shell[string]) error {
	if err := finish(lines.Drive(ctx, lw.writeLine)); err != nil {
		return err
	}
	return lw.Flush()
}

// ToWriter writes every line of s to w, each followed by a newline.
func ToWriter(ctx context.Context, w io.Writer, s Shell[string]) error {
	return writeLines(ctx, w, s)
}

// Stdout writes every line of s to standard output as it is produced.
func Stdout(ctx context.Context, s Shell[string]) error {
	return drainLines(ctx, newLineWriter(os.Stdout, true), s)
}

// Stderr writes every line of s to standard error as it is produced.
func Stderr(ctx context.Context, s Shell[string]) error {
	return drainLines(ctx, newLineWriter(os.Stderr, true), s)
}

// Output writes every line of s to the file at path, replacing its contents.
func Output(ctx context.Context, path string, s Shell[string]) error {
	return guard.With(ctx, guard.WriteOnly(path), func(ctx context.Context, h filesys.Handle) error {
		return writeLines(ctx, h, s)
	})
}

// Append writes every line of s to the end of the file at path.
func Append(ctx context.Context, path string, s Shell[string]) error {
	return guard.With(ctx, guard.AppendOnly(path), func(ctx context.Context, h filesys.Handle) error {
		return writeLines(ctx, h, s)
	})
}
