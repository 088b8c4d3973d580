// Package vouch implements stake-at-risk endorsements between agents.
//
// Established agents place part of their reputation behind a newcomer. The
// ledger is append-only: vouches are soft-deactivated, never deleted, and
// slashes are immutable once written. Boosts include one-hop transitive
// propagation and time decay, capped so vouching can never dominate an
// agent's base score.
package vouch

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Policy defaults.
const (
	defaultMaxActiveVouches = 5
	defaultTransitiveDecay  = 0.8
	defaultHalfLifeDays     = 30.0
	defaultMinVoucherScore  = 40.0
	defaultStakeCapRatio    = 0.25
	defaultBoostCap         = 25.0
	defaultTransitiveFloor  = 0.5

	// severanceSeverity is the policy threshold at or above which a slash
	// also ends the endorsement. Mild violations only cost reputation.
	severanceSeverity = 0.5

	hoursPerDay = 24.0
)

// Vouch is one stake-at-risk endorsement. Stake is bounded by the voucher's
// score at vouch time, not their possibly-improved current score.
type Vouch struct {
	ID                 string    `json:"id"`
	Voucher            string    `json:"voucher"`
	Vouchee            string    `json:"vouchee"`
	Stake              float64   `json:"stake"`
	VoucherScoreAtTime float64   `json:"voucher_score_at_time"`
	CreatedAt          time.Time `json:"created_at"`
	Active             bool      `json:"active"`
}

// Slash records a penalty applied to a voucher after their vouchee was
// flagged. Immutable once written.
type Slash struct {
	Voucher   string    `json:"voucher"`
	Vouchee   string    `json:"vouchee"`
	Reason    string    `json:"reason"`
	Penalty   int       `json:"penalty"`
	Severity  float64   `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Receipt is returned on a successful vouch.
type Receipt struct {
	VouchID     string  `json:"vouch_id"`
	TrustBoost  float64 `json:"trust_boost"`
	StakeAtRisk float64 `json:"stake_at_risk"`
}

// Penalty describes one voucher's loss from a slash.
type Penalty struct {
	Voucher       string  `json:"voucher"`
	Penalty       int     `json:"penalty"`
	OriginalStake float64 `json:"original_stake"`
	Reason        string  `json:"reason"`
}

// BoostEntry is one vouch's contribution to an agent's total boost.
type BoostEntry struct {
	Voucher    string  `json:"voucher"`
	Boost      float64 `json:"boost"`
	Stake      float64 `json:"stake,omitempty"`
	AgeDays    int     `json:"age_days,omitempty"`
	DecayPct   int     `json:"decay_pct,omitempty"`
	Transitive bool    `json:"transitive,omitempty"`
	Via        string  `json:"via,omitempty"`
}

// Boost is the aggregate trust boost for one agent.
type Boost struct {
	TotalBoost float64      `json:"total_boost"`
	Vouches    []BoostEntry `json:"vouches"`
	Count      int          `json:"count"`
}

// Ledger is the in-memory active-vouch ledger. Single-writer per logical
// session; callers needing concurrent mutation synchronize externally.
type Ledger struct {
	maxActiveVouches int
	transitiveDecay  float64
	halfLifeDays     float64
	minVoucherScore  float64
	stakeCapRatio    float64
	boostCap         float64
	transitiveFloor  float64
	now              func() time.Time

	vouches []Vouch
	slashes []Slash
}

// New creates a ledger with configuration options.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		maxActiveVouches: defaultMaxActiveVouches,
		transitiveDecay:  defaultTransitiveDecay,
		halfLifeDays:     defaultHalfLifeDays,
		minVoucherScore:  defaultMinVoucherScore,
		stakeCapRatio:    defaultStakeCapRatio,
		boostCap:         defaultBoostCap,
		transitiveFloor:  defaultTransitiveFloor,
		now:              time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Vouch records an endorsement of vouchee by voucher, staking part of the
// voucher's current score. Validation failures return sentinel errors so
// callers can surface them to end users.
func (l *Ledger) Vouch(voucher, vouchee string, voucherScore, stake float64) (Receipt, error) {
	if voucher == "" || vouchee == "" {
		return Receipt{}, ErrEmptyAgent
	}
	if voucher == vouchee {
		return Receipt{}, ErrSelfVouch
	}
	if voucherScore < l.minVoucherScore {
		return Receipt{}, ErrVoucherScoreTooLow
	}
	if stake <= 0 {
		stake = defaultStake
	}
	if stake > voucherScore*l.stakeCapRatio {
		return Receipt{}, ErrStakeTooHigh
	}

	active := 0
	for i := range l.vouches {
		if !l.vouches[i].Active {
			continue
		}
		if l.vouches[i].Voucher == voucher {
			if l.vouches[i].Vouchee == vouchee {
				return Receipt{}, ErrDuplicateVouch
			}
			active++
		}
	}
	if active >= l.maxActiveVouches {
		return Receipt{}, ErrVouchLimit
	}

	v := Vouch{
		ID:                 uuid.NewString(),
		Voucher:            voucher,
		Vouchee:            vouchee,
		Stake:              stake,
		VoucherScoreAtTime: voucherScore,
		CreatedAt:          l.now(),
		Active:             true,
	}
	l.vouches = append(l.vouches, v)

	return Receipt{
		VouchID:     v.ID,
		TrustBoost:  boost(voucherScore, stake),
		StakeAtRisk: stake,
	}, nil
}

// Slash penalizes every active voucher of vouchee. Severity at or above the
// severance threshold also deactivates the vouch.
func (l *Ledger) Slash(vouchee, reason string, severity float64) ([]Penalty, error) {
	if vouchee == "" {
		return nil, ErrEmptyAgent
	}
	if severity < 0 || severity > 1 {
		return nil, ErrInvalidSeverity
	}

	penalties := []Penalty{}
	now := l.now()
	for i := range l.vouches {
		v := &l.vouches[i]
		if v.Vouchee != vouchee || !v.Active {
			continue
		}

		penalty := int(math.Round(v.Stake * severity))
		l.slashes = append(l.slashes, Slash{
			Voucher:   v.Voucher,
			Vouchee:   vouchee,
			Reason:    reason,
			Penalty:   penalty,
			Severity:  severity,
			CreatedAt: now,
		})
		penalties = append(penalties, Penalty{
			Voucher:       v.Voucher,
			Penalty:       penalty,
			OriginalStake: v.Stake,
			Reason:        reason,
		})

		if severity >= severanceSeverity {
			v.Active = false
		}
	}

	return penalties, nil
}

// TrustBoost aggregates all active vouches for agent, time-decayed, plus
// one-hop transitive contributions, capped at the boost ceiling.
func (l *Ledger) TrustBoost(agent string) Boost {
	now := l.now()
	var total float64
	entries := []BoostEntry{}
	direct := make(map[string]struct{})

	for i := range l.vouches {
		v := &l.vouches[i]
		if v.Vouchee != agent || !v.Active {
			continue
		}

		ageDays := now.Sub(v.CreatedAt).Hours() / hoursPerDay
		decay := math.Pow(0.5, ageDays/l.halfLifeDays)
		b := boost(v.VoucherScoreAtTime, v.Stake) * decay
		total += b
		direct[v.Voucher] = struct{}{}

		entries = append(entries, BoostEntry{
			Voucher:  v.Voucher,
			Boost:    round1(b),
			Stake:    v.Stake,
			AgeDays:  int(math.Round(ageDays)),
			DecayPct: int(math.Round(decay * 100)),
		})
	}

	// One-hop transitive trust: if X vouches for Y and Y actively vouches
	// for agent, X contributes at reduced strength.
	for i := range l.vouches {
		v := &l.vouches[i]
		if !v.Active || v.Voucher == agent {
			continue
		}
		if _, ok := direct[v.Vouchee]; !ok {
			continue
		}

		ageDays := now.Sub(v.CreatedAt).Hours() / hoursPerDay
		decay := math.Pow(0.5, ageDays/l.halfLifeDays)
		tb := boost(v.VoucherScoreAtTime, v.Stake) * decay * l.transitiveDecay
		if tb <= l.transitiveFloor {
			continue
		}

		total += tb
		entries = append(entries, BoostEntry{
			Voucher:    v.Voucher,
			Boost:      round1(tb),
			Transitive: true,
			Via:        v.Vouchee,
		})
	}

	return Boost{
		TotalBoost: round1(math.Min(l.boostCap, total)),
		Vouches:    entries,
		Count:      len(entries),
	}
}

// SlashHistory returns every slash recorded against voucher.
func (l *Ledger) SlashHistory(voucher string) []Slash {
	out := []Slash{}
	for i := range l.slashes {
		if l.slashes[i].Voucher == voucher {
			out = append(out, l.slashes[i])
		}
	}
	return out
}

// ActiveVouches returns the number of active vouches held by voucher.
func (l *Ledger) ActiveVouches(voucher string) int {
	n := 0
	for i := range l.vouches {
		if l.vouches[i].Active && l.vouches[i].Voucher == voucher {
			n++
		}
	}
	return n
}

// State is a JSON-safe export of the ledger for persistence by callers.
type State struct {
	Vouches []Vouch `json:"vouches"`
	Slashes []Slash `json:"slashes"`
}

// Snapshot exports the full ledger state.
func (l *Ledger) Snapshot() State {
	s := State{
		Vouches: make([]Vouch, len(l.vouches)),
		Slashes: make([]Slash, len(l.slashes)),
	}
	copy(s.Vouches, l.vouches)
	copy(s.Slashes, l.slashes)
	return s
}

// Restore replaces the ledger state with a previously exported snapshot.
func (l *Ledger) Restore(s State) {
	l.vouches = make([]Vouch, len(s.Vouches))
	l.slashes = make([]Slash, len(s.Slashes))
	copy(l.vouches, s.Vouches)
	copy(l.slashes, s.Slashes)
}

// defaultStake applies when a caller passes a non-positive stake.
const defaultStake = 10.0

// boost is sqrt(voucherScore * stake) / 10, rounded to one decimal: a higher
// voucher score makes the vouch more meaningful, a higher stake means more
// skin in the game.
func boost(voucherScore, stake float64) float64 {
	return round1(math.Sqrt(voucherScore*stake) / 10)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
