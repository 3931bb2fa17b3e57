package handler

import (
	"errors"
	"strconv"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/score"
	"talent-match/internal/pkg/response"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchingHandler struct {
	uc       usecase.MatchingUsecase
	validate *validator.Validate
}

func NewMatchingHandler(uc usecase.MatchingUsecase) *MatchingHandler {
	return &MatchingHandler{uc: uc, validate: validator.New()}
}

func (h *MatchingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	cand := r.Group("/candidates/:candidate_id")
	cand.Get("/recommendations", h.RecommendJobs)
	cand.Get("/jobs/:job_id/score", h.GetScore)
	cand.Post("/scores/recalculate", h.RecalculateCandidate)
	cand.Get("/analytics", h.CandidateAnalytics)

	jobs := r.Group("/jobs/:job_id")
	jobs.Get("/recommendations", h.RecommendCandidates)
	jobs.Post("/scores/recalculate", h.RecalculateJob)
	jobs.Get("/analytics", h.JobAnalytics)

	r.Post("/scores/batch", h.BatchScore)
}

func (h *MatchingHandler) GetScore(c fiber.Ctx) error {
	candidateID, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	force, err := parseQueryBool(c, "force")
	if err != nil {
		return err
	}

	rec, err := h.uc.ScorePair(c.Context(), candidateID, jobID, force)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.OK(c, dto.NewScoreResponse(rec))
}

func (h *MatchingHandler) RecommendJobs(c fiber.Ctx) error {
	candidateID, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	opts, err := parseRecommendOptions(c, usecase.DefaultJobRecommendOptions())
	if err != nil {
		return err
	}

	items, err := h.uc.RecommendJobsForCandidate(c.Context(), candidateID, opts)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := make([]dto.JobRecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.JobRecommendationResponse{
			JobID:        it.Opportunity.ID,
			Title:        it.Opportunity.Title,
			Organization: it.Opportunity.Organization,
			Sector:       it.Opportunity.Sector,
			Location:     it.Opportunity.Location,
			Remote:       it.Opportunity.RemoteAvailable,
			Score:        dto.NewScoreResponse(it.Score),
		})
	}
	return response.OK(c, dto.RecommendationListResponse[dto.JobRecommendationResponse]{
		Items:    out,
		Count:    len(out),
		MinScore: opts.EffectiveMinScore(),
	})
}

func (h *MatchingHandler) RecommendCandidates(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	opts, err := parseRecommendOptions(c, usecase.DefaultCandidateRecommendOptions())
	if err != nil {
		return err
	}

	items, err := h.uc.RecommendCandidatesForJob(c.Context(), jobID, opts)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := make([]dto.CandidateRecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CandidateRecommendationResponse{
			CandidateID:         it.Candidate.ID,
			FullName:            it.Candidate.FullName,
			Location:            it.Candidate.Location,
			ProfileCompleteness: it.Candidate.ProfileCompleteness,
			Score:               dto.NewScoreResponse(it.Score),
		})
	}
	return response.OK(c, dto.RecommendationListResponse[dto.CandidateRecommendationResponse]{
		Items:    out,
		Count:    len(out),
		MinScore: opts.EffectiveMinScore(),
	})
}

func (h *MatchingHandler) BatchScore(c fiber.Ctx) error {
	var req dto.BatchScoreRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid batch request", validationDetails(err), err)
	}

	pairs := make([]score.Key, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		// validated as uuids above
		pairs = append(pairs, score.Key{
			CandidateID: uuid.MustParse(p.CandidateID),
			JobID:       uuid.MustParse(p.JobID),
		})
	}

	res := h.uc.BatchRecalculate(c.Context(), pairs)
	return response.OK(c, batchResponse(res))
}

func (h *MatchingHandler) RecalculateCandidate(c fiber.Ctx) error {
	candidateID, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	res, err := h.uc.UpdateCandidateScores(c.Context(), candidateID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.OK(c, batchResponse(res))
}

func (h *MatchingHandler) RecalculateJob(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	res, err := h.uc.UpdateJobScores(c.Context(), jobID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.OK(c, batchResponse(res))
}

func (h *MatchingHandler) CandidateAnalytics(c fiber.Ctx) error {
	candidateID, err := parseIDParam(c, "candidate_id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetCandidateAnalytics(c.Context(), candidateID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.OK(c, out)
}

func (h *MatchingHandler) JobAnalytics(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetJobAnalytics(c.Context(), jobID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}
	return response.OK(c, out)
}

func batchResponse(res usecase.BatchResult) dto.BatchResultResponse {
	out := dto.BatchResultResponse{
		Total:     len(res.Results),
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Results:   make([]dto.PairResultResponse, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		item := dto.PairResultResponse{CandidateID: r.CandidateID, JobID: r.JobID, Success: r.OK()}
		if r.OK() {
			v := r.OverallScore
			item.OverallScore = &v
		} else {
			item.Error = pairErrorMessage(r.Err)
		}
		out.Results = append(out.Results, item)
	}
	return out
}

// pairErrorMessage keeps store and driver details out of batch responses.
func pairErrorMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrCandidateNotFound):
		return "candidate not found"
	case errors.Is(err, repository.ErrOpportunityNotFound):
		return "job not found"
	case errors.Is(err, matching.ErrInvalidInput):
		return "profile data cannot be scored"
	case errors.Is(err, usecase.ErrStore):
		return "score store unavailable"
	default:
		return "scoring failed"
	}
}

func validationDetails(err error) []dto.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.FieldError{Field: fe.Namespace(), Rule: fe.Tag()})
	}
	return out
}

func parseIDParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return id, nil
}

func parseRecommendOptions(c fiber.Ctx, def usecase.RecommendOptions) (usecase.RecommendOptions, error) {
	minScore, err := parseQueryInt(c, "min_score", def.EffectiveMinScore())
	if err != nil {
		return def, err
	}
	maxResults, err := parseQueryInt(c, "max_results", def.MaxResults)
	if err != nil {
		return def, err
	}
	force, err := parseQueryBool(c, "force")
	if err != nil {
		return def, err
	}
	return usecase.RecommendOptions{MaxResults: maxResults, Force: force}.WithMinScore(minScore), nil
}

func parseQueryInt(c fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return n, nil
}

func parseQueryBool(c fiber.Ctx, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return b, nil
}

func mapMatchingUsecaseError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, repository.ErrOpportunityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, matching.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Profile data cannot be scored", nil, err)
	case errors.Is(err, usecase.ErrRecalculationInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Recalculation already in progress", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "Internal server error", nil, err)
	}
}
