package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("candidate not found")
	ErrEmptyID  = errors.New("empty candidate id")
)
