package graph

import "errors"

// Sentinel kinds for graph input validation.
var (
	ErrEmptyAgent = errors.New("empty agent identifier")
	ErrSelfLoop   = errors.New("self-interaction rejected")
)
