package score

import (
	"time"

	"github.com/google/uuid"
)

type SkillsMatchDetail struct {
	MatchedSkills    []string `json:"matched_skills"`
	MissingSkills    []string `json:"missing_skills"`
	AdditionalSkills []string `json:"additional_skills"`
	MatchPercentage  int      `json:"match_percentage"`
}

// Result is written and replaced as a whole; fields are never updated individually.
type Result struct {
	SkillsScore           int               `json:"skills_score"`
	ExperienceRelevance   int               `json:"experience_relevance"`
	SectorExpertise       int               `json:"sector_expertise"`
	CulturalFit           int               `json:"cultural_fit"`
	CompensationAlignment int               `json:"compensation_alignment"`
	GeographicPreference  int               `json:"geographic_preference"`
	OverallScore          int               `json:"overall_score"`
	Explanation           string            `json:"explanation"`
	RecommendationReasons []string          `json:"recommendation_reasons"`
	BoardExperienceWeight float64           `json:"board_experience_weight"`
	SkillsMatchDetail     SkillsMatchDetail `json:"skills_match_detail"`
}

// Record is one persisted row per (CandidateID, JobID).
type Record struct {
	CandidateID           uuid.UUID
	JobID                 uuid.UUID
	Result                Result
	JobSector             string
	CandidateCompleteness int
	CalculatedAt          time.Time
}

type Key struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
}

func (k Key) String() string {
	return k.CandidateID.String() + ":" + k.JobID.String()
}

func (r Record) Key() Key {
	return Key{CandidateID: r.CandidateID, JobID: r.JobID}
}
