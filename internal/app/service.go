// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	jobqueue "github.com/okian/scout/internal/adapters/mq/queue"
	workerpool "github.com/okian/scout/internal/adapters/mq/worker"
	repository "github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/dedupe"
	"github.com/okian/scout/internal/domain/graph"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/internal/domain/vouch"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Service implements the API dependencies for the trust system.
type Service struct {
	mu sync.RWMutex

	// Core components
	board      repository.Board
	cache      *repository.ResultCache
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	scorer     *scoring.Scorer
	workerPool *workerpool.Pool

	// Graph and ledger are mutated by API handlers; engines themselves are
	// unsynchronized, so all access goes through these locks.
	graphMu sync.RWMutex
	graph   *graph.Graph

	ledgerMu sync.Mutex
	ledger   *vouch.Ledger

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	cacheSize       int
	trustedSeeds    []string
	sybilDamping    float64
	sybilIterations int
	scoringOpts     []scoring.Option
	vouchOpts       []vouch.Option

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCacheSize sets the size of the result cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithTrustedSeeds sets the default seed agents for trust propagation.
func WithTrustedSeeds(seeds []string) Option {
	return func(s *Service) {
		s.trustedSeeds = seeds
	}
}

// WithSybilDamping sets the trust propagation damping factor.
func WithSybilDamping(d float64) Option {
	return func(s *Service) {
		if d > 0 && d < 1 {
			s.sybilDamping = d
		}
	}
}

// WithSybilIterations overrides the graph-size-derived iteration count.
func WithSybilIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sybilIterations = n
		}
	}
}

// WithScoringOptions forwards options to the trust scorer.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, opts...)
	}
}

// WithVouchOptions forwards options to the vouch ledger.
func WithVouchOptions(opts ...vouch.Option) Option {
	return func(s *Service) {
		s.vouchOpts = append(s.vouchOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:    10000,                // Default queue size
		dedupeSize:   50000,                // Default dedupe cache size
		cacheSize:    4096,                 // Default result cache size
		sybilDamping: 0.85,
		stopCh:       make(chan struct{}),
		logger:       nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting trust service...")

	// Initialize components
	s.board = repository.NewTreapBoard()
	cache, err := repository.NewResultCache(s.cacheSize)
	if err != nil {
		return fmt.Errorf("creating result cache: %w", err)
	}
	s.cache = cache
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.scorer = scoring.New(s.scoringOpts...)
	s.graph = graph.New()
	s.ledger = vouch.New(s.vouchOpts...)

	// Create and start worker pool; the service itself is the result sink.
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.scorer, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "trust service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping trust service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close queue
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "trust service stopped")
}

// Store persists a computed trust result. It is the worker pool's sink.
func (s *Service) Store(ctx context.Context, job model.ScoreJob, result scoring.Result) error {
	if err := s.board.Put(ctx, result); err != nil {
		return err
	}
	s.cache.Add(repository.CacheKey{
		Agent: result.Agent,
		Hash:  model.SnapshotHash(job.Profile, job.Posts, job.Comments),
	}, result)
	return nil
}

// SeenAndRecord atomically checks if a job id was seen and records it if not.
// Returns true if the job was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordJobDuplicate()
	}
	return seen
}

// Unrecord removes a job ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// SubmitScore submits an agent's activity snapshot for asynchronous scoring.
// This is the ONLY dedupe point for score jobs; callers must not pre-record
// the job ID or the first submission is dropped as its own duplicate.
// Returns accepted=false only on queue backpressure; a duplicate counts as
// accepted with duplicate=true.
func (s *Service) SubmitScore(ctx context.Context, job model.ScoreJob) (accepted, duplicate bool) {
	if job.JobID == "" {
		// Derive a deterministic job ID from the snapshot so resubmissions
		// of identical activity deduplicate naturally.
		job.JobID = fmt.Sprintf("%s_%x", job.Profile.Name,
			model.SnapshotHash(job.Profile, job.Posts, job.Comments))
	}

	if s.SeenAndRecord(ctx, job.JobID) {
		s.logger.Debug(ctx, "duplicate job detected, skipping",
			logger.String("jobID", job.JobID),
			logger.String("agent", job.Profile.Name),
		)
		return true, true
	}

	if !s.jobQueue.Enqueue(ctx, job) {
		// Allow retry after backpressure.
		s.Unrecord(ctx, job.JobID)
		return false, false
	}
	return true, false
}

// ScoreAgent scores an agent synchronously, consulting the snapshot cache
// first and updating the board on a miss.
func (s *Service) ScoreAgent(ctx context.Context, profile model.AgentProfile, posts []model.Post, comments []model.Comment) (scoring.Result, error) {
	key := repository.CacheKey{
		Agent: profile.Name,
		Hash:  model.SnapshotHash(profile, posts, comments),
	}
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}

	result, err := s.scorer.Score(ctx, profile, posts, comments)
	if err != nil {
		metrics.RecordScoringError()
		return scoring.Result{}, err
	}

	if err := s.board.Put(ctx, result); err != nil {
		return scoring.Result{}, err
	}
	s.cache.Add(key, result)

	metrics.RecordScoreComputed()
	for _, flag := range result.Flags {
		metrics.RecordFlagRaised(flag)
	}
	return result, nil
}

// GetScore returns the latest board entry for an agent.
func (s *Service) GetScore(ctx context.Context, agent string) (repository.Entry, error) {
	return s.board.Get(ctx, agent)
}

// TopN returns the top N board entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.board.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	// Convert to API format
	apiEntries := make([]types.Entry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = types.Entry{
			Rank:           entry.Rank,
			Agent:          entry.Agent,
			Score:          entry.Result.Score,
			Confidence:     entry.Result.Confidence,
			Recommendation: entry.Result.Recommendation.Level,
			Flags:          entry.Result.Flags,
		}
	}

	return apiEntries, nil
}

// AddInteraction records a directed interaction between two agents.
func (s *Service) AddInteraction(ctx context.Context, from, to string, weight int) error {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()

	if err := s.graph.AddInteraction(from, to, weight); err != nil {
		return err
	}
	metrics.UpdateGraphNodes(s.graph.Nodes())
	metrics.UpdateGraphEdges(s.graph.Edges())
	return nil
}

// BuildFromThreads ingests comment threads as interaction edges.
func (s *Service) BuildFromThreads(ctx context.Context, threads []model.Thread) {
	s.graphMu.Lock()
	defer s.graphMu.Unlock()

	s.graph.BuildFromThreads(threads)
	metrics.UpdateGraphNodes(s.graph.Nodes())
	metrics.UpdateGraphEdges(s.graph.Edges())
}

// SybilRank propagates trust from seed agents across the interaction graph.
// An empty seeds slice falls back to the configured trusted seeds.
func (s *Service) SybilRank(ctx context.Context, seeds []string) map[string]int {
	if len(seeds) == 0 {
		seeds = s.trustedSeeds
	}

	opts := []graph.RankOption{graph.WithDamping(s.sybilDamping)}
	if s.sybilIterations > 0 {
		opts = append(opts, graph.WithIterations(s.sybilIterations))
	}

	s.graphMu.RLock()
	ranks := s.graph.SybilRank(seeds, opts...)
	s.graphMu.RUnlock()

	metrics.RecordSybilRankRun()
	return ranks
}

// Reciprocals returns suspicious mutual-interaction pairs.
func (s *Service) Reciprocals(ctx context.Context, minWeight int) []graph.Reciprocal {
	s.graphMu.RLock()
	defer s.graphMu.RUnlock()
	return s.graph.FindReciprocals(minWeight)
}

// Diversity reports how spread out an agent's outbound interactions are.
func (s *Service) Diversity(ctx context.Context, agent string) graph.Diversity {
	s.graphMu.RLock()
	defer s.graphMu.RUnlock()
	return s.graph.Diversity(agent)
}

// GraphStats returns interaction graph statistics.
func (s *Service) GraphStats(ctx context.Context) graph.Stats {
	s.graphMu.RLock()
	defer s.graphMu.RUnlock()
	return s.graph.Stats()
}

// VouchFor records a stake-at-risk endorsement. The voucher must already be
// on the board; their current score bounds the stake.
func (s *Service) VouchFor(ctx context.Context, voucher, vouchee string, stake float64) (vouch.Receipt, error) {
	entry, err := s.board.Get(ctx, voucher)
	if err != nil {
		metrics.RecordVouchRejected()
		return vouch.Receipt{}, fmt.Errorf("voucher %q has no trust score: %w", voucher, err)
	}

	s.ledgerMu.Lock()
	receipt, err := s.ledger.Vouch(voucher, vouchee, float64(entry.Result.Score), stake)
	s.ledgerMu.Unlock()

	if err != nil {
		metrics.RecordVouchRejected()
		return vouch.Receipt{}, err
	}
	metrics.RecordVouchCreated()
	return receipt, nil
}

// SlashAgent penalizes every voucher of a flagged agent.
func (s *Service) SlashAgent(ctx context.Context, vouchee, reason string, severity float64) ([]vouch.Penalty, error) {
	s.ledgerMu.Lock()
	penalties, err := s.ledger.Slash(vouchee, reason, severity)
	s.ledgerMu.Unlock()

	if err != nil {
		return nil, err
	}
	if len(penalties) > 0 {
		metrics.RecordSlash()
	}
	return penalties, nil
}

// TrustBoost returns the aggregate vouch boost for an agent.
func (s *Service) TrustBoost(ctx context.Context, agent string) vouch.Boost {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()
	return s.ledger.TrustBoost(agent)
}

// SlashHistory returns every slash recorded against a voucher.
func (s *Service) SlashHistory(ctx context.Context, voucher string) []vouch.Slash {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()
	return s.ledger.SlashHistory(voucher)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalAgents := s.board.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalAgents"] = totalAgents
		stats["cachedResults"] = s.cache.Len()

		s.graphMu.RLock()
		g := s.graph.Stats()
		s.graphMu.RUnlock()
		stats["graphNodes"] = g.Nodes
		stats["graphEdges"] = g.Edges

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateScoredAgents(totalAgents)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
