package database

import "errors"

var (
	// ErrNotFound означает отсутствие документа с указанным ID
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key (phone, slug) already exists.
	ErrDuplicate = errors.New("duplicate key")
)
