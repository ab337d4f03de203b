package filestorage

import (
	"io"
)

// WriteFunc streams file content into w
type WriteFunc func(w io.Writer) error

// FileStorage defines the file operations used by the services
type FileStorage interface {
	// SaveAtomic writes relPath so that readers never observe a partial file,
	// returning its public URL.
	SaveAtomic(relPath string, write WriteFunc) (string, error)

	// DeleteFile removes relPath; a missing file is not an error.
	DeleteFile(relPath string) error

	// GetFullPath returns the filesystem path of relPath, or "" when it escapes the base directory.
	GetFullPath(relPath string) string
}
