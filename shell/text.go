package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/filesys"
	"github.com/kbukum/shellkit/guard"
	"github.com/kbukum/shellkit/observability"
	"github.com/kbukum/shellkit/pattern"
)

// Grep keeps the lines that contain at least one match of p.
func Grep[T any](p pattern.Pattern[T], lines Shell[string]) Shell[string] {
	return Filter(lines, func(line string) bool {
		return pattern.Contains(p, line)
	})
}

// GrepV keeps the lines that contain no match of p.
func GrepV[T any](p pattern.Pattern[T], lines Shell[string]) Shell[string] {
	return Filter(lines, func(line string) bool {
		return !pattern.Contains(p, line)
	})
}

// Sed rewrites every match of p in each line with the value p produces.
// Scanning left to right, at each position the first non-empty match of p
// is replaced and scanning resumes after it; where p does not match, one
// character is copied unchanged. Empty matches are never substituted, so a
// pattern that can match the empty string still terminates.
func Sed(p pattern.Pattern[string], lines Shell[string]) Shell[string] {
	return Map(lines, func(line string) string {
		return substitute(p, line)
	})
}

func substitute(p pattern.Pattern[string], line string) string {
	var b strings.Builder
	for rest := line; rest != ""; {
		replaced := false
		p.Each(rest, func(v, after string) bool {
			if len(after) == len(rest) {
				return true
			}
			b.WriteString(v)
			rest = after
			replaced = true
			return false
		})
		if replaced {
			continue
		}
		_, size := utf8.DecodeRuneInString(rest)
		b.WriteString(rest[:size])
		rest = rest[size:]
	}
	return b.String()
}

// Inplace rewrites the file at path through Sed. The result is written to a
// temporary file in the same directory which then replaces the original, so
// readers never see a half-written file.
func Inplace(ctx context.Context, p pattern.Pattern[string], path string) (err error) {
	ctx, op := observability.StartOperation(ctx, component, observability.SpanInplace,
		attribute.String(observability.AttrPath, path))
	defer func() { op.End(ctx, err) }()

	fi, err := os.Stat(path)
	if err != nil {
		return apperrors.FromOS("stat", path, err)
	}
	return guard.With(ctx, guard.CreateTempFile(filepath.Dir(path), "."+filepath.Base(path)+".tmp-"),
		func(ctx context.Context, tmp *guard.TempFile) error {
			if err := writeLines(ctx, tmp.File, Sed(p, Input(path))); err != nil {
				return err
			}
			if err := tmp.File.Chmod(fi.Mode().Perm()); err != nil {
				return apperrors.FromOS("chmod", tmp.Path, err)
			}
			if err := tmp.File.Close(); err != nil {
				return apperrors.FromOS("close", tmp.Path, err)
			}
			return filesys.Default().Rename(ctx, tmp.Path, path)
		})
}

// Cut splits line around every non-empty match of sep.
func Cut[T any](sep pattern.Pattern[T], line string) []string {
	var (
		fields []string
		field  strings.Builder
	)
	for rest := line; rest != ""; {
		matched := false
		sep.Each(rest, func(_ T, after string) bool {
			if len(after) == len(rest) {
				return true
			}
			fields = append(fields, field.String())
			field.Reset()
			rest = after
			matched = true
			return false
		})
		if matched {
			continue
		}
		_, size := utf8.DecodeRuneInString(rest)
		field.WriteString(rest[:size])
		rest = rest[size:]
	}
	return append(fields, field.String())
}

// MatchLines produces, for each line, the value of every way p matches the
// whole line. Lines p does not match produce nothing.
func MatchLines[T any](p pattern.Pattern[T], lines Shell[string]) Shell[T] {
	return Bind(lines, func(line string) Shell[T] {
		return FromSlice(pattern.Match(p, line))
	})
}
