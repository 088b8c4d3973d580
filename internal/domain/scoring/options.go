package scoring

import "time"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithNow sets the reference clock. Scoring is deterministic given a fixed
// clock; tests inject one here.
func WithNow(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDecayHalfLife sets the trust decay half-life in days.
func WithDecayHalfLife(days float64) Option {
	return func(s *Scorer) {
		if days > 0 {
			s.decayHalfLifeDays = days
		}
	}
}
