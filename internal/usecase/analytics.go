package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"talent-match/internal/domain/score"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	candidateAnalyticsPattern = "analytics:candidate:*"
	jobAnalyticsPattern       = "analytics:job:*"
	topSectorLimit            = 5
)

func candidateAnalyticsKey(id uuid.UUID) string { return "analytics:candidate:" + id.String() }
func jobAnalyticsKey(id uuid.UUID) string       { return "analytics:job:" + id.String() }

type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

func (d *ScoreDistribution) add(v int) {
	switch {
	case v >= 90:
		d.Excellent++
	case v >= 70:
		d.Good++
	case v >= 50:
		d.Fair++
	default:
		d.Poor++
	}
}

type SectorScore struct {
	Sector       string  `json:"sector"`
	AverageScore float64 `json:"average_score"`
	Matches      int     `json:"matches"`
}

type ScoreSummary struct {
	TotalScores  int               `json:"total_scores"`
	AverageScore float64           `json:"average_score"`
	MaxScore     int               `json:"max_score"`
	Distribution ScoreDistribution `json:"distribution"`
}

type CandidateAnalytics struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	ScoreSummary
	TopSectors  []SectorScore `json:"top_sectors"`
	GeneratedAt time.Time     `json:"generated_at"`
}

type JobAnalytics struct {
	JobID uuid.UUID `json:"job_id"`
	ScoreSummary
	AverageCompleteness       float64   `json:"average_completeness"`
	BoardExperiencePrevalence float64   `json:"board_experience_prevalence"`
	AverageBoardWeight        float64   `json:"average_board_weight"`
	GeneratedAt               time.Time `json:"generated_at"`
}

// GetCandidateAnalytics summarizes every persisted score of the candidate.
// Store failures are returned wrapped in ErrStore.
func (s *MatchingService) GetCandidateAnalytics(ctx context.Context, candidateID uuid.UUID) (CandidateAnalytics, error) {
	key := candidateAnalyticsKey(candidateID)
	var cached CandidateAnalytics
	if s.cachedAnalytics(ctx, key, &cached) {
		return cached, nil
	}

	recs, err := s.scores.ListByCandidate(ctx, candidateID)
	if err != nil {
		return CandidateAnalytics{}, fmt.Errorf("%w: list scores for candidate %s: %v", ErrStore, candidateID, err)
	}

	out := CandidateAnalytics{
		CandidateID:  candidateID,
		ScoreSummary: summarize(recs),
		TopSectors:   topSectors(recs, topSectorLimit),
		GeneratedAt:  s.now().UTC(),
	}
	s.storeAnalytics(ctx, key, out)
	return out, nil
}

// GetJobAnalytics summarizes every persisted score of the opportunity.
func (s *MatchingService) GetJobAnalytics(ctx context.Context, jobID uuid.UUID) (JobAnalytics, error) {
	key := jobAnalyticsKey(jobID)
	var cached JobAnalytics
	if s.cachedAnalytics(ctx, key, &cached) {
		return cached, nil
	}

	recs, err := s.scores.ListByJob(ctx, jobID)
	if err != nil {
		return JobAnalytics{}, fmt.Errorf("%w: list scores for job %s: %v", ErrStore, jobID, err)
	}

	out := JobAnalytics{
		JobID:        jobID,
		ScoreSummary: summarize(recs),
		GeneratedAt:  s.now().UTC(),
	}
	if n := len(recs); n > 0 {
		var completeness, weight float64
		withBoard := 0
		for _, r := range recs {
			completeness += float64(r.CandidateCompleteness)
			weight += r.Result.BoardExperienceWeight
			if r.Result.BoardExperienceWeight > 0 {
				withBoard++
			}
		}
		out.AverageCompleteness = round2(completeness / float64(n))
		out.AverageBoardWeight = round2(weight / float64(n))
		out.BoardExperiencePrevalence = round2(float64(withBoard) / float64(n))
	}
	s.storeAnalytics(ctx, key, out)
	return out, nil
}

func summarize(recs []score.Record) ScoreSummary {
	out := ScoreSummary{TotalScores: len(recs)}
	if len(recs) == 0 {
		return out
	}
	sum := 0
	for _, r := range recs {
		v := r.Result.OverallScore
		sum += v
		if v > out.MaxScore {
			out.MaxScore = v
		}
		out.Distribution.add(v)
	}
	out.AverageScore = round2(float64(sum) / float64(len(recs)))
	return out
}

func topSectors(recs []score.Record, limit int) []SectorScore {
	type acc struct {
		label string
		sum   int
		n     int
	}
	bySector := make(map[string]*acc)
	for _, r := range recs {
		label := strings.TrimSpace(r.JobSector)
		if label == "" {
			continue
		}
		k := strings.ToLower(label)
		a, ok := bySector[k]
		if !ok {
			a = &acc{label: label}
			bySector[k] = a
		}
		a.sum += r.Result.OverallScore
		a.n++
	}

	out := make([]SectorScore, 0, len(bySector))
	for _, a := range bySector {
		out = append(out, SectorScore{
			Sector:       a.label,
			AverageScore: round2(float64(a.sum) / float64(a.n)),
			Matches:      a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].Sector < out[j].Sector
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MatchingService) cachedAnalytics(ctx context.Context, key string, out any) bool {
	if s.shared == nil {
		return false
	}
	hit, err := s.shared.GetJSON(ctx, key, out)
	if err != nil {
		s.logger.Debug("analytics cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *MatchingService) storeAnalytics(ctx context.Context, key string, v any) {
	if s.shared == nil {
		return
	}
	if err := s.shared.SetJSON(ctx, key, v, s.opts.AnalyticsCacheTTL); err != nil {
		s.logger.Debug("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidateAnalytics drops the analytics of the recalculated entity and every
// counterpart, since their score sets changed too.
func (s *MatchingService) invalidateAnalytics(ctx context.Context, key string, counterpartPattern string) {
	if s.shared == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := s.shared.Delete(ctx, key); err != nil {
		s.logger.Warn("analytics invalidation failed", zap.String("key", key), zap.Error(err))
	}
	if err := s.shared.DeleteByPattern(ctx, counterpartPattern); err != nil {
		s.logger.Warn("analytics invalidation failed", zap.String("pattern", counterpartPattern), zap.Error(err))
	}
}

// dropPairAnalytics removes the cached analytics of both sides of a freshly
// written score. Every write path goes through compute, so the shared tier
// never reports a score set older than the store.
func (s *MatchingService) dropPairAnalytics(ctx context.Context, candidateID, jobID uuid.UUID) {
	if s.shared == nil {
		return
	}
	keys := []string{candidateAnalyticsKey(candidateID), jobAnalyticsKey(jobID)}
	if err := s.shared.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		s.logger.Warn("analytics invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
