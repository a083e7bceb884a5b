// Package filesys is the filesystem collaborator used by the shell and guard
// packages. It exposes the thin set of operations a shell script needs
// (listing, stat, open, rename, copy, remove, mkdir) behind an interface so
// tests and alternative backends can stand in for the real OS.
//
// Every error returned by the OS implementation is classified with
// errors.FromOS, so callers can test for NOT_FOUND or PERMISSION_DENIED.
package filesys
