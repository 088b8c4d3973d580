// Package repository defines the trust board interface and errors.
package repository

import (
	"context"

	"github.com/okian/scout/internal/domain/scoring"
)

// Entry represents one board row: an agent's latest trust result plus its
// current rank.
type Entry struct {
	Rank   int
	Agent  string
	Result scoring.Result
}

// Board provides read/write access to the latest trust result per agent.
type Board interface {
	// Put stores or replaces the trust result for result.Agent.
	Put(ctx context.Context, result scoring.Result) error

	// Get returns the current rank and result for an agent.
	// Returns ErrNotFound if the agent has never been scored.
	Get(ctx context.Context, agent string) (Entry, error)

	// TopN returns the top-N entries ordered by score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of agents on the board.
	Count(ctx context.Context) int
}
