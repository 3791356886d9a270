// Package filex abstracts the raw file primitives the file datasource needs,
// so the persistence logic can be tested against an in-memory fake without
// touching a real filesystem.
package filex

import (
	"io/fs"
	"os"
)

// FS is the byte- and path-addressed storage capability consumed by the file
// datasource. *OSFS backs it with the real filesystem, *MemFS with a map.
//
// Absence is reported with an error satisfying errors.Is(err, fs.ErrNotExist)
// on every implementation, matching the os package.
type FS interface {
	// MkdirAll creates a directory and any missing parents. It succeeds
	// silently if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path in full, replacing any prior content.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Stat describes the file at path.
	Stat(path string) (fs.FileInfo, error)

	// Remove deletes the file at path. Removing a missing file is an error.
	Remove(path string) error
}

// OSFS implements FS on the host filesystem.
type OSFS struct{}

func NewOSFS() *OSFS { return &OSFS{} }

func (*OSFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (*OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (*OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (*OSFS) Remove(path string) error {
	return os.Remove(path)
}
