package scoring

import "errors"

// Sentinel kinds for scoring input validation.
var (
	ErrMissingAgentName = errors.New("profile missing agent name")
	ErrMissingCreatedAt = errors.New("profile missing creation timestamp")
)
