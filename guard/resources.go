package guard

import (
	"context"
	"errors"
	"os"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/filesys"
)

// TempDir creates a fresh directory under parent (the system temp directory
// when empty) whose name starts with prefix. Release removes the directory
// and everything in it.
func TempDir(parent, prefix string) Resource[string] {
	return New("tempdir",
		func(ctx context.Context) (string, error) {
			path, err := os.MkdirTemp(parent, prefix)
			if err != nil {
				return "", apperrors.FromOS("mkdtemp", parent, err)
			}
			return path, nil
		},
		func(path string) error {
			return filesys.Default().RemoveTree(context.Background(), path)
		},
	)
}

// TempFile is a freshly created file open for writing.
type TempFile struct {
	Path string
	File *os.File
}

// CreateTempFile creates a file under parent (the system temp directory
// when empty) whose name starts with prefix. Release closes and removes it.
func CreateTempFile(parent, prefix string) Resource[*TempFile] {
	return New("tempfile",
		func(ctx context.Context) (*TempFile, error) {
			f, err := os.CreateTemp(parent, prefix)
			if err != nil {
				return nil, apperrors.FromOS("mkstemp", parent, err)
			}
			return &TempFile{Path: f.Name(), File: f}, nil
		},
		func(tf *TempFile) error {
			closeErr := tf.File.Close()
			if errors.Is(closeErr, os.ErrClosed) {
				closeErr = nil
			}
			rmErr := filesys.Default().Remove(context.Background(), tf.Path)
			if apperrors.IsCode(rmErr, apperrors.ErrCodeNotFound) {
				rmErr = nil
			}
			return combine(closeErr, rmErr)
		},
	)
}

// Open opens path on fsys in the given mode. Release closes the handle.
func Open(fsys filesys.FileSystem, path string, mode filesys.Mode) Resource[filesys.Handle] {
	return New("file:"+mode.String(),
		func(ctx context.Context) (filesys.Handle, error) {
			return fsys.Open(ctx, path, mode)
		},
		func(h filesys.Handle) error {
			return h.Close()
		},
	)
}

// ReadOnly opens path for reading.
func ReadOnly(path string) Resource[filesys.Handle] {
	return Open(filesys.Default(), path, filesys.ModeRead)
}

// WriteOnly creates or truncates path for writing.
func WriteOnly(path string) Resource[filesys.Handle] {
	return Open(filesys.Default(), path, filesys.ModeWrite)
}

// AppendOnly opens path for appending, creating it if needed.
func AppendOnly(path string) Resource[filesys.Handle] {
	return Open(filesys.Default(), path, filesys.ModeAppend)
}
