package repository

import "errors"

var (
	// ErrStorageUnavailable is returned when the database cannot be opened, reached or migrated
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrDuplicateKey is returned by Add when a row with the same key already exists
	ErrDuplicateKey = errors.New("duplicate key")
)
