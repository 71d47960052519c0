package core

import "errors"

// Common errors.
var (
	// ErrStorageUnavailable wraps any failure to read or write the backing file.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrValidation is returned when note text is empty or whitespace only.
	ErrValidation = errors.New("note text cannot be empty")
	// ErrNotFound is returned when an ID matches no note in the collection.
	ErrNotFound = errors.New("note not found")
)
