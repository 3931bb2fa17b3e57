package dto

import "github.com/google/uuid"

type BatchScoreRequest struct {
	Pairs []BatchScorePair `json:"pairs" validate:"required,min=1,max=500,dive"`
}

type BatchScorePair struct {
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
	JobID       string `json:"job_id" validate:"required,uuid"`
}

type PairResultResponse struct {
	CandidateID  uuid.UUID `json:"candidate_id"`
	JobID        uuid.UUID `json:"job_id"`
	Success      bool      `json:"success"`
	OverallScore *int      `json:"overall_score,omitempty"`
	Error        string    `json:"error,omitempty"`
}

type BatchResultResponse struct {
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []PairResultResponse `json:"results"`
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}
