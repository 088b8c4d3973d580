// Package scoring implements the multi-dimensional trust scoring engine.
//
// One agent's activity history (profile snapshot plus recent posts and
// comments) is converted into six dimension scores, blended into a composite,
// then adjusted for sample-size confidence (Wilson lower bound) and dormancy
// (exponential trust decay). The result carries a de-duplicated flag set and
// a deterministic risk recommendation.
package scoring

import (
	"context"
	"math"
	"time"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/stats"
)

// Composite dimension weights. Spam is a penalty, subtracted rather than added.
const (
	weightVolumeValue = 0.20
	weightOriginality = 0.20
	weightEngagement  = 0.15
	weightCredibility = 0.15
	weightCapability  = 0.15
	weightSpam        = 0.15

	neutralScore     = 50.0
	confidenceTrials = 100
	confidenceLevel  = 0.95

	defaultDecayHalfLifeDays = 30.0

	hoursPerDay = 24.0
)

// Dimension is a named sub-score in [0,100] with structured diagnostics and
// any flags the dimension raised.
type Dimension struct {
	Score   float64        `json:"score"`
	Details map[string]any `json:"details"`
	Flags   []string       `json:"flags,omitempty"`
}

// Dimensions groups the six dimension results of one scoring call.
type Dimensions struct {
	VolumeValue Dimension `json:"volume_value"`
	Originality Dimension `json:"originality"`
	Engagement  Dimension `json:"engagement"`
	Credibility Dimension `json:"credibility"`
	Capability  Dimension `json:"capability"`
	Spam        Dimension `json:"spam"`
}

// Result is the full outcome of scoring one agent. Created fresh on every
// call, never mutated, safe to serialize and cache by (agent, snapshot hash).
type Result struct {
	Agent          string         `json:"agent"`
	Score          int            `json:"score"`
	Dimensions     Dimensions     `json:"dimensions"`
	Confidence     int            `json:"confidence"`
	Decay          int            `json:"decay"`
	SampleSize     int            `json:"sample_size"`
	Flags          []string       `json:"flags"`
	Recommendation Recommendation `json:"recommendation"`
}

// Scorer computes trust scores. It is stateless apart from configuration and
// safe for concurrent use: scoring calls share no mutable state.
type Scorer struct {
	now               func() time.Time
	decayHalfLifeDays float64
}

// New creates a scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		now:               time.Now,
		decayHalfLifeDays: defaultDecayHalfLifeDays,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the trust result for one agent's activity snapshot.
// Deterministic given identical inputs; fails only on malformed input.
func (s *Scorer) Score(ctx context.Context, profile model.AgentProfile, posts []model.Post, comments []model.Comment) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if profile.Name == "" {
		return Result{}, ErrMissingAgentName
	}
	if profile.CreatedAt.IsZero() {
		return Result{}, ErrMissingCreatedAt
	}

	now := s.now()

	dims := Dimensions{
		VolumeValue: s.scoreVolumeValue(now, profile, posts),
		Originality: s.scoreOriginality(posts, comments),
		Engagement:  s.scoreEngagement(posts, comments),
		Credibility: s.scoreCredibility(now, profile),
		Capability:  s.scoreCapability(profile, posts, comments),
		Spam:        s.detectSpam(posts, comments),
	}

	raw := dims.VolumeValue.Score*weightVolumeValue +
		dims.Originality.Score*weightOriginality +
		dims.Engagement.Score*weightEngagement +
		dims.Credibility.Score*weightCredibility +
		dims.Capability.Score*weightCapability -
		dims.Spam.Score*weightSpam

	// Confidence: small samples blend the raw score toward neutral.
	sampleSize := len(posts) + len(comments)
	confidence := stats.WilsonLowerBound(sampleSize, confidenceTrials, confidenceLevel)
	adjusted := raw*confidence + neutralScore*(1-confidence)

	// Decay: dormant accounts drift halfway toward a stale midpoint.
	ageDays := now.Sub(profile.CreatedAt).Hours() / hoursPerDay
	lastPostAgeDays := ageDays
	if t, ok := latestTime(posts); ok {
		lastPostAgeDays = now.Sub(t).Hours() / hoursPerDay
	}
	decay := stats.TrustDecay(lastPostAgeDays, s.decayHalfLifeDays)
	decayed := adjusted*decay + adjusted*(1-decay)*0.5

	final := int(math.Round(math.Max(0, math.Min(100, decayed))))

	return Result{
		Agent:          profile.Name,
		Score:          final,
		Dimensions:     dims,
		Confidence:     int(math.Round(confidence * 100)),
		Decay:          int(math.Round(decay * 100)),
		SampleSize:     sampleSize,
		Flags:          collectFlags(dims),
		Recommendation: recommend(final),
	}, nil
}

// collectFlags unions dimension flags, de-duplicated, in dimension order.
func collectFlags(dims Dimensions) []string {
	flags := []string{}
	seen := make(map[string]struct{})
	for _, d := range []Dimension{
		dims.VolumeValue, dims.Originality, dims.Engagement,
		dims.Credibility, dims.Capability, dims.Spam,
	} {
		for _, f := range d.Flags {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			flags = append(flags, f)
		}
	}
	return flags
}

// latestTime returns the most recent post timestamp, if any.
func latestTime(posts []model.Post) (time.Time, bool) {
	var latest time.Time
	for i := range posts {
		if posts[i].CreatedAt.After(latest) {
			latest = posts[i].CreatedAt
		}
	}
	return latest, !latest.IsZero()
}

// round1 rounds to one decimal place for detail diagnostics.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
