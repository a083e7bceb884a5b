package shell

import (
	"context"
	"path/filepath"

	"github.com/kbukum/shellkit/filesys"
	"github.com/kbukum/shellkit/pattern"
)

// LsTree walks dir depth-first in preorder: each entry is produced, and if
// it is a directory its own tree follows immediately, before the next
// sibling. dir itself is not produced. Symbolic links are not followed.
func LsTree(dir string) Shell[string] {
	return LsTreeOn(filesys.Default(), dir)
}

// LsTreeOn is LsTree on a specific filesystem.
func LsTreeOn(fsys filesys.Reader, dir string) Shell[string] {
	return Bind(LsOn(fsys, dir), func(entry string) Shell[string] {
		return New(func(ctx context.Context, emit func(string) error) error {
			if err := emit(entry); err != nil {
				return err
			}
			if !filesys.TestDir(ctx, fsys, entry) {
				return nil
			}
			return LsTreeOn(fsys, entry).Drive(ctx, emit)
		})
	})
}

// Find produces every path under dir that contains a match of p.
func Find[T any](p pattern.Pattern[T], dir string) Shell[string] {
	return Filter(LsTree(dir), func(path string) bool {
		return pattern.Contains(p, path)
	})
}

// FindGlob produces every path under dir whose path relative to dir matches
// the glob expr. '*' and '?' do not cross '/', while '**' does:
// "*.go" matches only top-level Go files and "**.go" matches all of them.
func FindGlob(expr, dir string) Shell[string] {
	return New(func(ctx context.Context, emit func(string) error) error {
		g, err := pattern.Glob(expr, '/')
		if err != nil {
			return err
		}
		return LsTree(dir).Drive(ctx, func(path string) error {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			if !pattern.Matches(g, filepath.ToSlash(rel)) {
				return nil
			}
			return emit(path)
		})
	})
}
