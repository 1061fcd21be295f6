package service

import "errors"

var (
	// ErrNotFound is returned when a catalog entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrKeyRequired is returned when a counter key is empty.
	ErrKeyRequired = errors.New("counter key is required")
)
