package shell

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"time"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/filesys"
	"github.com/kbukum/shellkit/guard"
)

// maxLineSize bounds a single line read from a file, pipe or reader.
const maxLineSize = 16 << 20

// Empty produces nothing.
func Empty[T any]() Shell[T] {
	return Shell[T]{}
}

// Select produces the given values in order.
func Select[T any](values ...T) Shell[T] {
	return FromSlice(values)
}

// FromSlice produces the items of a slice in order.
func FromSlice[T any](items []T) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		for _, v := range items {
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Yes produces "y" forever. Stop it with Limit or a cancelled context.
func Yes() Shell[string] {
	return New(func(ctx context.Context, emit func(string) error) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit("y"); err != nil {
				return err
			}
		}
	})
}

// Range produces the integers from start up to but not including end.
func Range(start, end int) Shell[int] {
	return New(func(ctx context.Context, emit func(int) error) error {
		for i := start; i < end; i++ {
			if err := emit(i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ls produces the full path of every entry in dir, excluding "." and "..".
func Ls(dir string) Shell[string] {
	return LsOn(filesys.Default(), dir)
}

// LsOn is Ls on a specific filesystem.
func LsOn(fsys filesys.Reader, dir string) Shell[string] {
	return New(func(ctx context.Context, emit func(string) error) error {
		entries, err := fsys.ListEntries(ctx, dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := emit(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// FromReader produces the lines of r without their trailing newline. A read
// blocked when ctx is done is interrupted: through a read deadline when r
// supports one, otherwise by closing r if it is an io.Closer. Other readers
// are checked for cancellation between lines.
func FromReader(r io.Reader) Shell[string] {
	return New(func(ctx context.Context, emit func(string) error) error {
		return scanLines(ctx, r, emit)
	})
}

func scanLines(ctx context.Context, r io.Reader, emit func(string) error) error {
	defer interruptOnDone(ctx, r)()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sc.Split(splitLines)
	for sc.Scan() {
		if err := emit(sc.Text()); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return sc.Err()
}

// interruptOnDone unblocks a pending read on r once ctx is done: readers with
// read deadlines get one in the past, other closers are closed. The returned
// func must be called after the last read; it restores the deadline.
func interruptOnDone(ctx context.Context, r io.Reader) func() {
	var interrupt, restore func()
	switch v := r.(type) {
	case interface{ SetReadDeadline(time.Time) error }:
		interrupt = func() { _ = v.SetReadDeadline(time.Now()) }
		restore = func() { _ = v.SetReadDeadline(time.Time{}) }
	case io.Closer:
		interrupt = func() { _ = v.Close() }
	default:
		return func() {}
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		interrupt()
	})
	return func() {
		if stop() {
			return
		}
		<-fired
		if restore != nil {
			restore()
		}
	}
}

// splitLines splits on '\n' only, so a '\r' before it stays part of the line.
func splitLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Input produces the lines of the file at path. The file stays open only
// while the Shell is being driven.
func Input(path string) Shell[string] {
	return InputOn(filesys.Default(), path)
}

// InputOn is Input on a specific filesystem.
func InputOn(fsys filesys.FileSystem, path string) Shell[string] {
	return New(func(ctx context.Context, emit func(string) error) error {
		return guard.With(ctx, guard.Open(fsys, path, filesys.ModeRead), func(ctx context.Context, h filesys.Handle) error {
			emitted := true
			// Regular files never block; the handle stays owned by the guard.
			err := scanLines(ctx, struct{ io.Reader }{h}, func(line string) error {
				err := emit(line)
				emitted = err == nil
				return err
			})
			if err != nil && emitted && ctx.Err() == nil {
				return apperrors.FromOS("read", path, err)
			}
			return err
		})
	})
}

// Stdin produces the lines of standard input.
func Stdin() Shell[string] {
	return FromReader(os.Stdin)
}

// Using acquires r, produces its value once and releases it after
// downstream processing of that value has finished.
func Using[T any](r guard.Resource[T]) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		return guard.With(ctx, r, func(_ context.Context, v T) error {
			return emit(v)
		})
	})
}

// Sleep waits for d and then produces a single value.
func Sleep(d time.Duration) Shell[struct{}] {
	return New(func(ctx context.Context, emit func(struct{}) error) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		return emit(struct{}{})
	})
}
