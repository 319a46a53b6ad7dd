package store

import "errors"

// Common store errors.
var (
	// ErrOutputExists is returned when a save would replace an existing file
	// without overwrite being requested.
	ErrOutputExists = errors.New("output file exists")

	// ErrNoDestination is returned when saving an in-memory store without a
	// destination path.
	ErrNoDestination = errors.New("no destination specified")
)
