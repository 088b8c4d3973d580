package repository

import "errors"

// Sentinel kinds for board errors.
var (
	ErrNotFound     = errors.New("agent not found")
	ErrInvalidLimit = errors.New("invalid board limit")
	ErrEmptyAgent   = errors.New("empty agent identifier")
)
