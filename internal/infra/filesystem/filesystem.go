package filesystem

import "errors"

// ErrNotFound is returned by readers when the requested file does not exist.
var ErrNotFound = errors.New("file not found")

type (
	// Reader loads the documents the launchpad keeps on disk: collection files
	// and stage files.
	Reader interface {
		ReadJSON(path string, target any) error
		Exists(path string) bool
	}
	// Writer persists documents. Files are replaced atomically so a crash never
	// leaves a half-written collection behind.
	Writer interface {
		WriteJSON(path string, data any) error
		WriteBytes(path string, data []byte) error
	}
)
