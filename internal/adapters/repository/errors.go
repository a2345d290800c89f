package repository

import "errors"

// Sentinel kinds for dataset store errors.
var (
	ErrNotFound = errors.New("no records for selection")
)
