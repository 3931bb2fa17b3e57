package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/domain/score"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scorer computes a score for one candidate/opportunity pair.
type Scorer interface {
	Score(c candidate.Profile, j opportunity.Opportunity) (score.Result, error)
}

// SharedCache is the cross-instance tier used for recalculation locks and
// analytics responses. Implementations must tolerate being unavailable.
type SharedCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	AcquireLock(ctx context.Context, key string, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string, token string) error
}

type MatchingOptions struct {
	BatchSize         int
	BatchDelay        time.Duration
	Concurrency       int
	MinCompleteness   int
	RecalcLockTTL     time.Duration
	AnalyticsCacheTTL time.Duration
}

func DefaultMatchingOptions() MatchingOptions {
	return MatchingOptions{
		BatchSize:         10,
		BatchDelay:        100 * time.Millisecond,
		Concurrency:       8,
		MinCompleteness:   60,
		RecalcLockTTL:     2 * time.Minute,
		AnalyticsCacheTTL: 5 * time.Minute,
	}
}

const defaultRecommendMinScore = 50

// RecommendOptions tunes a recommendation run. A nil MinScore or a zero
// MaxResults falls back to the default of the direction being recommended.
type RecommendOptions struct {
	MinScore   *int
	MaxResults int
	Force      bool
}

// WithMinScore returns a copy of o with an explicit threshold, 0 included.
func (o RecommendOptions) WithMinScore(v int) RecommendOptions {
	o.MinScore = &v
	return o
}

// EffectiveMinScore is the threshold applied when o is normalized.
func (o RecommendOptions) EffectiveMinScore() int {
	if o.MinScore == nil {
		return defaultRecommendMinScore
	}
	return *o.MinScore
}

func DefaultJobRecommendOptions() RecommendOptions {
	return RecommendOptions{MaxResults: 10}.WithMinScore(defaultRecommendMinScore)
}

func DefaultCandidateRecommendOptions() RecommendOptions {
	return RecommendOptions{MaxResults: 20}.WithMinScore(defaultRecommendMinScore)
}

type JobRecommendation struct {
	Opportunity opportunity.Opportunity
	Score       score.Record
}

type CandidateRecommendation struct {
	Candidate candidate.Profile
	Score     score.Record
}

type MatchingService struct {
	candidates repository.CandidateRepository
	jobs       repository.OpportunityRepository
	scores     repository.ScoreRepository
	cache      *ScoreCache
	scorer     Scorer
	shared     SharedCache
	opts       MatchingOptions
	logger     *zap.Logger
	now        func() time.Time
}

func NewMatchingService(
	candidates repository.CandidateRepository,
	jobs repository.OpportunityRepository,
	scores repository.ScoreRepository,
	cache *ScoreCache,
	scorer Scorer,
	shared SharedCache,
	opts MatchingOptions,
	logger *zap.Logger,
) *MatchingService {
	def := DefaultMatchingOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = def.BatchSize
	}
	if opts.BatchDelay < 0 {
		opts.BatchDelay = 0
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.RecalcLockTTL <= 0 {
		opts.RecalcLockTTL = def.RecalcLockTTL
	}
	if opts.AnalyticsCacheTTL <= 0 {
		opts.AnalyticsCacheTTL = def.AnalyticsCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{
		candidates: candidates,
		jobs:       jobs,
		scores:     scores,
		cache:      cache,
		scorer:     scorer,
		shared:     shared,
		opts:       opts,
		logger:     logger.Named("matching"),
		now:        time.Now,
	}
}

func (s *MatchingService) CacheStats() CacheStats {
	return s.cache.Stats()
}

// ScorePair returns the score for one pair, computing it when it is not cached
// or when force is set. Not-found and invalid-input errors are returned as is.
func (s *MatchingService) ScorePair(ctx context.Context, candidateID, jobID uuid.UUID, force bool) (score.Record, error) {
	key := score.Key{CandidateID: candidateID, JobID: jobID}
	if !force {
		rec, found, err := s.cache.Get(ctx, key)
		if err != nil {
			return score.Record{}, err
		}
		if found {
			return rec, nil
		}
	}

	var (
		c candidate.Profile
		j opportunity.Opportunity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.candidates.GetCandidate(gctx, candidateID)
		return err
	})
	g.Go(func() error {
		var err error
		j, err = s.jobs.GetOpportunity(gctx, jobID)
		return err
	})
	if err := g.Wait(); err != nil {
		return score.Record{}, err
	}

	return s.compute(ctx, c, j)
}

// scoreLoaded is ScorePair for records the caller already holds.
func (s *MatchingService) scoreLoaded(ctx context.Context, c candidate.Profile, j opportunity.Opportunity, force bool) (score.Record, error) {
	if !force {
		rec, found, err := s.cache.Get(ctx, score.Key{CandidateID: c.ID, JobID: j.ID})
		if err != nil {
			return score.Record{}, err
		}
		if found {
			return rec, nil
		}
	}
	return s.compute(ctx, c, j)
}

func (s *MatchingService) compute(ctx context.Context, c candidate.Profile, j opportunity.Opportunity) (score.Record, error) {
	res, err := s.scorer.Score(c, j)
	if err != nil {
		return score.Record{}, err
	}
	rec := score.Record{
		CandidateID:           c.ID,
		JobID:                 j.ID,
		Result:                res,
		JobSector:             j.Sector,
		CandidateCompleteness: c.ProfileCompleteness,
		CalculatedAt:          s.now().UTC(),
	}
	if err := s.cache.Put(ctx, rec); err != nil {
		return score.Record{}, err
	}
	s.dropPairAnalytics(ctx, c.ID, j.ID)
	return rec, nil
}

func (s *MatchingService) RecommendJobsForCandidate(ctx context.Context, candidateID uuid.UUID, opts RecommendOptions) ([]JobRecommendation, error) {
	opts, err := normalizeRecommendOptions(opts, DefaultJobRecommendOptions())
	if err != nil {
		return nil, err
	}

	c, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListActiveOpportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list active opportunities: %v", ErrStore, err)
	}

	recs := make([]*score.Record, len(jobs))
	err = s.fanOut(ctx, len(jobs), func(ctx context.Context, i int) {
		rec, err := s.scoreLoaded(ctx, c, jobs[i], opts.Force)
		if err != nil {
			s.logPairFailure("recommend jobs", c.ID, jobs[i].ID, err)
			return
		}
		recs[i] = &rec
	})
	if err != nil {
		return nil, err
	}

	out := make([]JobRecommendation, 0, len(jobs))
	for i, rec := range recs {
		if rec == nil || rec.Result.OverallScore < *opts.MinScore {
			continue
		}
		out = append(out, JobRecommendation{Opportunity: jobs[i], Score: *rec})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return ranksBefore(out[a].Score, out[b].Score, out[a].Opportunity.ID, out[b].Opportunity.ID)
	})
	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}

	s.logger.Info("job recommendations ready",
		zap.Stringer("candidate_id", candidateID),
		zap.Int("considered", len(jobs)),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

func (s *MatchingService) RecommendCandidatesForJob(ctx context.Context, jobID uuid.UUID, opts RecommendOptions) ([]CandidateRecommendation, error) {
	opts, err := normalizeRecommendOptions(opts, DefaultCandidateRecommendOptions())
	if err != nil {
		return nil, err
	}

	j, err := s.jobs.GetOpportunity(ctx, jobID)
	if err != nil {
		return nil, err
	}
	cands, err := s.candidates.ListCandidates(ctx, s.opts.MinCompleteness)
	if err != nil {
		return nil, fmt.Errorf("%w: list candidates: %v", ErrStore, err)
	}

	recs := make([]*score.Record, len(cands))
	err = s.fanOut(ctx, len(cands), func(ctx context.Context, i int) {
		rec, err := s.scoreLoaded(ctx, cands[i], j, opts.Force)
		if err != nil {
			s.logPairFailure("recommend candidates", cands[i].ID, j.ID, err)
			return
		}
		recs[i] = &rec
	})
	if err != nil {
		return nil, err
	}

	out := make([]CandidateRecommendation, 0, len(cands))
	for i, rec := range recs {
		if rec == nil || rec.Result.OverallScore < *opts.MinScore {
			continue
		}
		out = append(out, CandidateRecommendation{Candidate: cands[i], Score: *rec})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return ranksBefore(out[a].Score, out[b].Score, out[a].Candidate.ID, out[b].Candidate.ID)
	})
	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}

	s.logger.Info("candidate recommendations ready",
		zap.Stringer("job_id", jobID),
		zap.Int("considered", len(cands)),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

// fanOut runs fn for 0..n-1 with bounded concurrency. fn reports its own
// failures; only cancellation of ctx stops the run early.
func (s *MatchingService) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func ranksBefore(a, b score.Record, idA, idB uuid.UUID) bool {
	if a.Result.OverallScore != b.Result.OverallScore {
		return a.Result.OverallScore > b.Result.OverallScore
	}
	return idA.String() < idB.String()
}

func normalizeRecommendOptions(opts, def RecommendOptions) (RecommendOptions, error) {
	if opts.MaxResults == 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.MinScore == nil {
		opts = opts.WithMinScore(def.EffectiveMinScore())
	}
	if *opts.MinScore < 0 || *opts.MinScore > 100 {
		return opts, fmt.Errorf("%w: min_score must be within 0..100", ErrInvalidInput)
	}
	if opts.MaxResults < 0 || opts.MaxResults > 100 {
		return opts, fmt.Errorf("%w: max_results must be within 1..100", ErrInvalidInput)
	}
	return opts, nil
}

type PairResult struct {
	CandidateID  uuid.UUID
	JobID        uuid.UUID
	OverallScore int
	Err          error
}

func (r PairResult) OK() bool { return r.Err == nil }

type BatchResult struct {
	Results   []PairResult
	Succeeded int
	Failed    int
}

// BatchRecalculate recomputes every pair. Pairs run concurrently in chunks of
// BatchSize with BatchDelay between chunks. Results keep the input order and a
// failed pair never affects the others.
func (s *MatchingService) BatchRecalculate(ctx context.Context, pairs []score.Key) BatchResult {
	started := s.now()
	results := make([]PairResult, len(pairs))

	for start := 0; start < len(pairs); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(pairs))

		if start > 0 && s.opts.BatchDelay > 0 {
			if err := sleepCtx(ctx, s.opts.BatchDelay); err != nil {
				failRemaining(results, pairs, start, err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			failRemaining(results, pairs, start, err)
			break
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p := pairs[i]
				res := PairResult{CandidateID: p.CandidateID, JobID: p.JobID}
				rec, err := s.ScorePair(ctx, p.CandidateID, p.JobID, true)
				if err != nil {
					s.logPairFailure("batch recalculate", p.CandidateID, p.JobID, err)
					res.Err = err
				} else {
					res.OverallScore = rec.Result.OverallScore
				}
				results[i] = res
			}(i)
		}
		wg.Wait()
	}

	out := BatchResult{Results: results}
	for _, r := range results {
		if r.OK() {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	s.logger.Info("batch recalculation finished",
		zap.Int("pairs", len(pairs)),
		zap.Int("succeeded", out.Succeeded),
		zap.Int("failed", out.Failed),
		zap.Duration("took", s.now().Sub(started)),
	)
	return out
}

func failRemaining(results []PairResult, pairs []score.Key, from int, err error) {
	for i := from; i < len(pairs); i++ {
		results[i] = PairResult{CandidateID: pairs[i].CandidateID, JobID: pairs[i].JobID, Err: err}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// UpdateCandidateScores recalculates the candidate against every active opportunity.
func (s *MatchingService) UpdateCandidateScores(ctx context.Context, candidateID uuid.UUID) (BatchResult, error) {
	if _, err := s.candidates.GetCandidate(ctx, candidateID); err != nil {
		return BatchResult{}, err
	}

	release, err := s.lock(ctx, "candidate", candidateID)
	if err != nil {
		return BatchResult{}, err
	}
	defer release()

	jobs, err := s.jobs.ListActiveOpportunities(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: list active opportunities: %v", ErrStore, err)
	}
	pairs := make([]score.Key, 0, len(jobs))
	for _, j := range jobs {
		pairs = append(pairs, score.Key{CandidateID: candidateID, JobID: j.ID})
	}

	res := s.BatchRecalculate(ctx, pairs)
	s.invalidateAnalytics(ctx, candidateAnalyticsKey(candidateID), jobAnalyticsPattern)
	return res, nil
}

// UpdateJobScores recalculates the opportunity against every sufficiently complete candidate.
func (s *MatchingService) UpdateJobScores(ctx context.Context, jobID uuid.UUID) (BatchResult, error) {
	if _, err := s.jobs.GetOpportunity(ctx, jobID); err != nil {
		return BatchResult{}, err
	}

	release, err := s.lock(ctx, "job", jobID)
	if err != nil {
		return BatchResult{}, err
	}
	defer release()

	cands, err := s.candidates.ListCandidates(ctx, s.opts.MinCompleteness)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%w: list candidates: %v", ErrStore, err)
	}
	pairs := make([]score.Key, 0, len(cands))
	for _, c := range cands {
		pairs = append(pairs, score.Key{CandidateID: c.ID, JobID: jobID})
	}

	res := s.BatchRecalculate(ctx, pairs)
	s.invalidateAnalytics(ctx, jobAnalyticsKey(jobID), candidateAnalyticsPattern)
	return res, nil
}

func (s *MatchingService) lock(ctx context.Context, kind string, id uuid.UUID) (func(), error) {
	noop := func() {}
	if s.shared == nil {
		return noop, nil
	}

	key := "match:recalc:" + kind + ":" + id.String()
	token := uuid.NewString()
	ok, err := s.shared.AcquireLock(ctx, key, token, s.opts.RecalcLockTTL)
	if err != nil {
		// A broken shared tier should not block recalculation on this instance.
		s.logger.Warn("recalculation lock unavailable, continuing without it", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrRecalculationInProgress, kind, id)
	}
	return func() {
		if err := s.shared.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("release recalculation lock failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *MatchingService) logPairFailure(op string, candidateID, jobID uuid.UUID, err error) {
	level := s.logger.Warn
	if errors.Is(err, context.Canceled) {
		level = s.logger.Debug
	}
	level("pair skipped",
		zap.String("op", op),
		zap.Stringer("candidate_id", candidateID),
		zap.Stringer("job_id", jobID),
		zap.Error(err),
	)
}

// MatchingUsecase is the surface consumed by transports.
type MatchingUsecase interface {
	ScorePair(ctx context.Context, candidateID, jobID uuid.UUID, force bool) (score.Record, error)
	RecommendJobsForCandidate(ctx context.Context, candidateID uuid.UUID, opts RecommendOptions) ([]JobRecommendation, error)
	RecommendCandidatesForJob(ctx context.Context, jobID uuid.UUID, opts RecommendOptions) ([]CandidateRecommendation, error)
	BatchRecalculate(ctx context.Context, pairs []score.Key) BatchResult
	UpdateCandidateScores(ctx context.Context, candidateID uuid.UUID) (BatchResult, error)
	UpdateJobScores(ctx context.Context, jobID uuid.UUID) (BatchResult, error)
	GetCandidateAnalytics(ctx context.Context, candidateID uuid.UUID) (CandidateAnalytics, error)
	GetJobAnalytics(ctx context.Context, jobID uuid.UUID) (JobAnalytics, error)
}

var _ MatchingUsecase = (*MatchingService)(nil)
