package db

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a write would violate a uniqueness constraint.
	ErrAlreadyExists = errors.New("document already exists")
)
