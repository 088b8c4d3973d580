package repository

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/pkg/metrics"
)

// Treap-based, in-memory Board implementation.
//
// Ordering: score DESC, then agent name ASC (deterministic).
// We implement a BST comparator where "less" means ranks earlier
// (i.e., higher score ranks earlier), so in-order traversal produces
// the board from most to least trusted.

// treap node
type node struct {
	agent string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aAgent) should appear before (bScore, bAgent)
// on the board (higher ranks first).
func less(aScore int, aAgent string, bScore int, bAgent string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aAgent < bAgent // tie-breaker by agent asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// priority derives the heap priority from the agent name. Scores cluster in
// [0,100] with heavy ties, so hashing the name keeps the treap balanced in
// expectation regardless of score distribution.
func priority(agent string) uint64 {
	return xxhash.Sum64String(agent)
}

func insert(n *node, agent string, score int) *node {
	if n == nil {
		return &node{agent: agent, score: score, prio: priority(agent), size: 1}
	}
	if less(score, agent, n.score, n.agent) {
		n.left = insert(n.left, agent, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, agent, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, agent string, score int) *node {
	if n == nil {
		return nil
	}
	if score == n.score && agent == n.agent {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, agent, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, agent, score)
		}
	} else if less(score, agent, n.score, n.agent) {
		n.left = deleteNode(n.left, agent, score)
	} else {
		n.right = deleteNode(n.right, agent, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (highest scores first).
func collectTopN(n *node, limit int, results map[string]scoring.Result, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, results, out)

	if len(*out) < limit {
		if res, exists := results[n.agent]; exists {
			*out = append(*out, Entry{Agent: n.agent, Result: res})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, results, out)
	}
}

// rankOf returns the 1-based in-order position of (score, agent) in O(log n).
func rankOf(n *node, agent string, score int) int {
	rank := 1
	for n != nil {
		if score == n.score && agent == n.agent {
			return rank + nsize(n.left)
		}
		if less(score, agent, n.score, n.agent) {
			n = n.left
		} else {
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// TreapBoard is the in-memory treap-backed Board.
type TreapBoard struct {
	mu      sync.RWMutex
	root    *node
	results map[string]scoring.Result
}

// NewTreapBoard constructs an empty board.
func NewTreapBoard(opts ...Option) *TreapBoard {
	b := &TreapBoard{
		results: make(map[string]scoring.Result),
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Put stores or replaces the trust result for result.Agent in O(log n)
// expected time.
func (b *TreapBoard) Put(_ context.Context, result scoring.Result) error {
	if result.Agent == "" {
		return ErrEmptyAgent
	}

	b.mu.Lock()
	if old, ok := b.results[result.Agent]; ok {
		b.root = deleteNode(b.root, result.Agent, old.Score)
	}
	b.results[result.Agent] = result
	b.root = insert(b.root, result.Agent, result.Score)
	count := len(b.results)
	b.mu.Unlock()

	metrics.UpdateScoredAgents(count)
	return nil
}

// Get returns the current rank and result for an agent in O(log n).
func (b *TreapBoard) Get(_ context.Context, agent string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res, ok := b.results[agent]
	if !ok {
		return Entry{}, ErrNotFound
	}

	return Entry{
		Rank:   b.rankLocked(agent, res.Score),
		Agent:  agent,
		Result: res,
	}, nil
}

// TopN returns the top N entries ordered by score desc.
func (b *TreapBoard) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(b.root, n, b.results, &out)
	b.assignRanksLocked(out)
	return out, nil
}

// Count returns the number of agents on the board.
func (b *TreapBoard) Count(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.results)
}

// rankLocked computes a tie-aware rank: agents with equal scores share the
// rank of the first of their group. Callers hold at least the read lock.
func (b *TreapBoard) rankLocked(agent string, score int) int {
	pos := rankOf(b.root, agent, score)
	if pos == 0 {
		return 0
	}
	// Subtract same-score agents ranked ahead only by name tie-break so
	// that equal scores share the rank of the first of their group.
	return pos - b.sameScoreAhead(agent, score)
}

// sameScoreAhead counts agents with the same score ranked ahead of agent
// (by name tie-break).
func (b *TreapBoard) sameScoreAhead(agent string, score int) int {
	count := 0
	for name, res := range b.results {
		if res.Score == score && name < agent {
			count++
		}
	}
	return count
}

// assignRanksLocked assigns tie-aware ranks to entries already sorted in
// board order.
func (b *TreapBoard) assignRanksLocked(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	// The first entry's rank depends on agents above it in the full board,
	// which for TopN starting at the top is always 1.
	currentRank := 1
	entries[0].Rank = currentRank
	for i := 1; i < len(entries); i++ {
		if entries[i].Result.Score != entries[i-1].Result.Score {
			currentRank = i + 1
		}
		entries[i].Rank = currentRank
	}
}
