package dto

import (
	"time"

	"talent-match/internal/domain/score"

	"github.com/google/uuid"
)

type ScoreResponse struct {
	CandidateID           uuid.UUID               `json:"candidate_id"`
	JobID                 uuid.UUID               `json:"job_id"`
	OverallScore          int                     `json:"overall_score"`
	Breakdown             ScoreBreakdownResponse  `json:"breakdown"`
	Explanation           string                  `json:"explanation"`
	RecommendationReasons []string                `json:"recommendation_reasons"`
	BoardExperienceWeight float64                 `json:"board_experience_weight"`
	SkillsMatchDetail     score.SkillsMatchDetail `json:"skills_match_detail"`
	CalculatedAt          time.Time               `json:"calculated_at"`
}

type ScoreBreakdownResponse struct {
	SkillsScore           int `json:"skills_score"`
	ExperienceRelevance   int `json:"experience_relevance"`
	SectorExpertise       int `json:"sector_expertise"`
	CulturalFit           int `json:"cultural_fit"`
	CompensationAlignment int `json:"compensation_alignment"`
	GeographicPreference  int `json:"geographic_preference"`
}

func NewScoreResponse(rec score.Record) ScoreResponse {
	r := rec.Result
	reasons := r.RecommendationReasons
	if reasons == nil {
		reasons = []string{}
	}
	return ScoreResponse{
		CandidateID:  rec.CandidateID,
		JobID:        rec.JobID,
		OverallScore: r.OverallScore,
		Breakdown: ScoreBreakdownResponse{
			SkillsScore:           r.SkillsScore,
			ExperienceRelevance:   r.ExperienceRelevance,
			SectorExpertise:       r.SectorExpertise,
			CulturalFit:           r.CulturalFit,
			CompensationAlignment: r.CompensationAlignment,
			GeographicPreference:  r.GeographicPreference,
		},
		Explanation:           r.Explanation,
		RecommendationReasons: reasons,
		BoardExperienceWeight: r.BoardExperienceWeight,
		SkillsMatchDetail:     r.SkillsMatchDetail,
		CalculatedAt:          rec.CalculatedAt,
	}
}
