package graph

// rankConfig holds per-run SybilRank tuning.
type rankConfig struct {
	iterations        int
	damping           float64
	perRoundNormalize bool
}

// RankOption tunes a single SybilRank run.
type RankOption func(*rankConfig)

// WithIterations overrides the default max(3, ceil(log2 |V|)) round count.
func WithIterations(n int) RankOption {
	return func(c *rankConfig) {
		if n > 0 {
			c.iterations = n
		}
	}
}

// WithDamping sets the random-walk damping factor (default 0.85).
func WithDamping(d float64) RankOption {
	return func(c *rankConfig) {
		if d > 0 && d < 1 {
			c.damping = d
		}
	}
}

// WithFinalNormalizationOnly renormalizes the trust vector once at the end
// instead of after every round. Per-round renormalization compresses score
// spread faster on sparse graphs.
func WithFinalNormalizationOnly() RankOption {
	return func(c *rankConfig) {
		c.perRoundNormalize = false
	}
}
