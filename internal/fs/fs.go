// Package fs provides the filesystem abstraction used by the parameter store.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store performs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using the [os] package
//   - [Fault]: testing implementation that fails scripted operations
//
// Example usage:
//
//	fsys := fs.NewReal()
//	f, err := fsys.Open("params.json")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// Satisfied by [os.File]; usable with all stdlib functions that accept
// [io.Reader], [io.Writer], or [io.Closer].
type File interface {
	io.ReadWriteCloser

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations the parameter store depends on.
//
// Two implementations are provided:
//   - [Real]: production use, wraps the [os] package
//   - [Fault]: testing use, fails selected operations on demand
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// OpenFile opens a file with specified flags and permissions.
	// See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically via temp file + rename.
	// Safer than [os.WriteFile] for critical data.
	WriteFileAtomic(path string, data []byte) error

	// Rename moves/renames a file. See [os.Rename].
	// Atomic on the same filesystem.
	Rename(oldpath, newpath string) error

	// Remove deletes a file. See [os.Remove].
	Remove(path string) error

	// Stat returns file info. See [os.Stat].
	// Returns [os.ErrNotExist] if the file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
