package filesys

import (
	"context"
	"io"
	"time"
)

// Mode selects how Open opens a path.
type Mode int

const (
	// ModeRead opens an existing file for reading.
	ModeRead Mode = iota
	// ModeWrite creates or truncates a file for writing.
	ModeWrite
	// ModeAppend creates a file if needed and appends to it.
	ModeAppend
)

// String returns the mode name used in logs and error details.
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeAppend:
		return "append"
	default:
		return "unknown"
	}
}

// Info is the subset of file metadata shell scripts care about.
type Info struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsFile  bool
	IsDir   bool
	// IsSymlink is set when the path itself is a symbolic link.
	IsSymlink bool
}

// Handle is an open file.
type Handle interface {
	io.Reader
	io.Writer
	io.Closer
	Name() string
}

// Reader provides read-only filesystem access.
type Reader interface {
	// ListEntries returns the full paths of the entries in dir, excluding
	// "." and "..", in the order the backend reports them.
	ListEntries(ctx context.Context, dir string) ([]string, error)
	// Stat returns metadata for path without following a final symlink.
	Stat(ctx context.Context, path string) (*Info, error)
	// Open opens path in the given mode.
	Open(ctx context.Context, path string, mode Mode) (Handle, error)
}

// Writer provides mutating filesystem operations.
type Writer interface {
	Rename(ctx context.Context, from, to string) error
	Copy(ctx context.Context, from, to string) error
	Remove(ctx context.Context, path string) error
	RemoveTree(ctx context.Context, path string) error
	CreateDir(ctx context.Context, path string) error
	CreateDirTree(ctx context.Context, path string) error
	Touch(ctx context.Context, path string) error
}

// FileSystem provides full read-write filesystem access.
type FileSystem interface {
	Reader
	Writer
}

var defaultFS FileSystem = OS{}

// Default returns the filesystem used when a caller does not supply one.
func Default() FileSystem { return defaultFS }

// Exists reports whether path exists. Errors other than NOT_FOUND are returned.
func Exists(ctx context.Context, fsys Reader, path string) (bool, error) {
	_, err := fsys.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// TestFile reports whether path exists and is a regular file.
func TestFile(ctx context.Context, fsys Reader, path string) bool {
	info, err := fsys.Stat(ctx, path)
	return err == nil && info.IsFile
}

// TestDir reports whether path exists and is a directory.
func TestDir(ctx context.Context, fsys Reader, path string) bool {
	info, err := fsys.Stat(ctx, path)
	return err == nil && info.IsDir
}
