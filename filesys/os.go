package filesys

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/shellkit/errors"
)

// OS implements FileSystem on top of the host operating system.
type OS struct{}

var _ FileSystem = OS{}

func isNotFound(err error) bool {
	return errors.IsCode(err, errors.ErrCodeNotFound)
}

// ListEntries implements Reader.
func (OS) ListEntries(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.FromOS("list", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// Stat implements Reader.
func (OS) Stat(ctx context.Context, path string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, errors.FromOS("stat", path, err)
	}
	return &Info{
		Path:      path,
		Size:      fi.Size(),
		ModTime:   fi.ModTime(),
		IsFile:    fi.Mode().IsRegular(),
		IsDir:     fi.IsDir(),
		IsSymlink: fi.Mode()&os.ModeSymlink != 0,
	}, nil
}

// Open implements Reader.
func (OS) Open(ctx context.Context, path string, mode Mode) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		f   *os.File
		err error
	)
	switch mode {
	case ModeRead:
		f, err = os.Open(path)
	case ModeWrite:
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	case ModeAppend:
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	default:
		return nil, errors.InvalidInput("mode", mode.String())
	}
	if err != nil {
		return nil, errors.FromOS("open", path, err)
	}
	return f, nil
}

// Rename implements Writer.
func (OS) Rename(_ context.Context, from, to string) error {
	return errors.FromOS("rename", from, os.Rename(from, to))
}

// Copy implements Writer. The destination keeps the source permissions.
func (OS) Copy(ctx context.Context, from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return errors.FromOS("copy", from, err)
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return errors.FromOS("copy", from, err)
	}
	if fi.IsDir() {
		return errors.InvalidInput("from", "cannot copy a directory: "+from)
	}

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return errors.FromOS("copy", to, err)
	}
	if _, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src}); err != nil {
		dst.Close()
		return errors.FromOS("copy", to, err)
	}
	return errors.FromOS("copy", to, dst.Close())
}

// Remove implements Writer.
func (OS) Remove(_ context.Context, path string) error {
	return errors.FromOS("remove", path, os.Remove(path))
}

// RemoveTree implements Writer. A missing path is not an error.
func (OS) RemoveTree(_ context.Context, path string) error {
	return errors.FromOS("remove-tree", path, os.RemoveAll(path))
}

// CreateDir implements Writer.
func (OS) CreateDir(_ context.Context, path string) error {
	return errors.FromOS("mkdir", path, os.Mkdir(path, 0o755))
}

// CreateDirTree implements Writer.
func (OS) CreateDirTree(_ context.Context, path string) error {
	return errors.FromOS("mktree", path, os.MkdirAll(path, 0o755))
}

// Touch implements Writer: it creates an empty file or bumps the
// modification time of an existing one.
func (OS) Touch(_ context.Context, path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return errors.FromOS("touch", path, err)
	}
	return errors.FromOS("touch", path, f.Close())
}

// ctxReader stops a long copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
