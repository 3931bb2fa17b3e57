package dto

import "github.com/google/uuid"

type JobRecommendationResponse struct {
	JobID        uuid.UUID     `json:"job_id"`
	Title        string        `json:"title"`
	Organization string        `json:"organization"`
	Sector       string        `json:"sector"`
	Location     string        `json:"location"`
	Remote       bool          `json:"remote_available"`
	Score        ScoreResponse `json:"score"`
}

type CandidateRecommendationResponse struct {
	CandidateID         uuid.UUID     `json:"candidate_id"`
	FullName            string        `json:"full_name"`
	Location            string        `json:"location"`
	ProfileCompleteness int           `json:"profile_completeness"`
	Score               ScoreResponse `json:"score"`
}

type RecommendationListResponse[T any] struct {
	Items    []T `json:"items"`
	Count    int `json:"count"`
	MinScore int `json:"min_score"`
}
