// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory score job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// CacheSize bounds the snapshot result cache.
	CacheSize int `koanf:"cache_size"`

	// MaxBoardLimit caps GET /board?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`

	// DecayHalfLifeDays controls how fast trust decays with inactivity.
	DecayHalfLifeDays float64 `koanf:"decay_half_life_days"`

	// TrustedSeeds are the default seed agents for trust propagation.
	TrustedSeeds []string `koanf:"trusted_seeds"`

	// SybilDamping is the trust propagation damping factor.
	SybilDamping float64 `koanf:"sybil_damping"`

	// SybilIterations overrides the graph-size-derived round count when > 0.
	SybilIterations int `koanf:"sybil_iterations"`

	// Vouching policy knobs.
	MaxActiveVouches  int     `koanf:"max_active_vouches"`
	VouchHalfLifeDays float64 `koanf:"vouch_half_life_days"`
	MinVoucherScore   float64 `koanf:"min_voucher_score"`
	StakeCapRatio     float64 `koanf:"stake_cap_ratio"`
	BoostCap          float64 `koanf:"boost_cap"`
	TransitiveDecay   float64 `koanf:"transitive_decay"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        50_000,
		CacheSize:         4096,
		MaxBoardLimit:     100,
		DecayHalfLifeDays: 30,
		SybilDamping:      0.85,
		MaxActiveVouches:  5,
		VouchHalfLifeDays: 30,
		MinVoucherScore:   40,
		StakeCapRatio:     0.25,
		BoostCap:          25,
		TransitiveDecay:   0.8,
	}
	return c
}
