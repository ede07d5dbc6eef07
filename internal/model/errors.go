package model

import "errors"

var (
	// ErrDuplicateID is returned when an insert-only table already holds the id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNotFound is returned by point reads that match no row.
	ErrNotFound = errors.New("not found")
	// ErrMalformedJSON marks stored JSON text that no longer parses.
	ErrMalformedJSON = errors.New("malformed stored json")
)
