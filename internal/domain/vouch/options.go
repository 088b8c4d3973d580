package vouch

import "time"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithMaxActiveVouches bounds simultaneously active vouches per voucher.
func WithMaxActiveVouches(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxActiveVouches = n
		}
	}
}

// WithTransitiveDecay sets the one-hop transitive attenuation factor.
func WithTransitiveDecay(d float64) Option {
	return func(l *Ledger) {
		if d > 0 && d <= 1 {
			l.transitiveDecay = d
		}
	}
}

// WithHalfLife sets the vouch time-decay half-life in days.
func WithHalfLife(days float64) Option {
	return func(l *Ledger) {
		if days > 0 {
			l.halfLifeDays = days
		}
	}
}

// WithMinVoucherScore sets the minimum score required to vouch.
func WithMinVoucherScore(score float64) Option {
	return func(l *Ledger) {
		if score > 0 {
			l.minVoucherScore = score
		}
	}
}

// WithStakeCapRatio bounds stake to a fraction of the voucher's score.
func WithStakeCapRatio(ratio float64) Option {
	return func(l *Ledger) {
		if ratio > 0 && ratio <= 1 {
			l.stakeCapRatio = ratio
		}
	}
}

// WithBoostCap caps the total boost any agent can accumulate.
func WithBoostCap(cap float64) Option {
	return func(l *Ledger) {
		if cap > 0 {
			l.boostCap = cap
		}
	}
}

// WithNow sets the reference clock, primarily for tests.
func WithNow(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}
