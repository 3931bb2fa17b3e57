package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/score"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScoreRepository persists one score record per (candidate, job) pair. Upsert
// replaces the whole record.
type ScoreRepository interface {
	Upsert(ctx context.Context, rec score.Record) error
	Get(ctx context.Context, key score.Key) (score.Record, bool, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]score.Record, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]score.Record, error)
}

type PostgresScoreRepository struct {
	db database.DB
}

func NewPostgresScoreRepository(db database.DB) *PostgresScoreRepository {
	return &PostgresScoreRepository{db: db}
}

const scoreColumns = `candidate_id, job_id, overall_score, skills_score, experience_relevance,
	sector_expertise, cultural_fit, compensation_alignment, geographic_preference,
	explanation, recommendation_reasons, board_experience_weight, skills_match_detail,
	job_sector, candidate_completeness, calculated_at`

func (r *PostgresScoreRepository) Upsert(ctx context.Context, rec score.Record) error {
	if rec.CandidateID == uuid.Nil || rec.JobID == uuid.Nil {
		return fmt.Errorf("upsert score: empty key %s", rec.Key())
	}
	if rec.CalculatedAt.IsZero() {
		rec.CalculatedAt = time.Now().UTC()
	}
	reasons, detail, err := EncodeScoreJSON(rec.Result)
	if err != nil {
		return err
	}

	res := rec.Result
	_, err = r.db.Exec(ctx,
		`INSERT INTO match_scores (`+scoreColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			skills_score = EXCLUDED.skills_score,
			experience_relevance = EXCLUDED.experience_relevance,
			sector_expertise = EXCLUDED.sector_expertise,
			cultural_fit = EXCLUDED.cultural_fit,
			compensation_alignment = EXCLUDED.compensation_alignment,
			geographic_preference = EXCLUDED.geographic_preference,
			explanation = EXCLUDED.explanation,
			recommendation_reasons = EXCLUDED.recommendation_reasons,
			board_experience_weight = EXCLUDED.board_experience_weight,
			skills_match_detail = EXCLUDED.skills_match_detail,
			job_sector = EXCLUDED.job_sector,
			candidate_completeness = EXCLUDED.candidate_completeness,
			calculated_at = EXCLUDED.calculated_at`,
		rec.CandidateID,
		rec.JobID,
		res.OverallScore,
		res.SkillsScore,
		res.ExperienceRelevance,
		res.SectorExpertise,
		res.CulturalFit,
		res.CompensationAlignment,
		res.GeographicPreference,
		res.Explanation,
		string(reasons),
		res.BoardExperienceWeight,
		string(detail),
		rec.JobSector,
		rec.CandidateCompleteness,
		rec.CalculatedAt,
	)
	return err
}

func (r *PostgresScoreRepository) Get(ctx context.Context, key score.Key) (score.Record, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+scoreColumns+` FROM match_scores WHERE candidate_id = $1 AND job_id = $2`,
		key.CandidateID, key.JobID,
	)
	rec, err := scanScore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return score.Record{}, false, nil
		}
		return score.Record{}, false, err
	}
	return rec, true, nil
}

func (r *PostgresScoreRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]score.Record, error) {
	return r.list(ctx, `WHERE candidate_id = $1`, candidateID)
}

func (r *PostgresScoreRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]score.Record, error) {
	return r.list(ctx, `WHERE job_id = $1`, jobID)
}

func (r *PostgresScoreRepository) list(ctx context.Context, where string, id uuid.UUID) ([]score.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+scoreColumns+` FROM match_scores `+where+` ORDER BY overall_score DESC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]score.Record, 0)
	for rows.Next() {
		rec, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanScore(row database.Row) (score.Record, error) {
	var (
		rec     score.Record
		reasons []byte
		detail  []byte
	)
	res := &rec.Result
	err := row.Scan(
		&rec.CandidateID,
		&rec.JobID,
		&res.OverallScore,
		&res.SkillsScore,
		&res.ExperienceRelevance,
		&res.SectorExpertise,
		&res.CulturalFit,
		&res.CompensationAlignment,
		&res.GeographicPreference,
		&res.Explanation,
		&reasons,
		&res.BoardExperienceWeight,
		&detail,
		&rec.JobSector,
		&rec.CandidateCompleteness,
		&rec.CalculatedAt,
	)
	if err != nil {
		return score.Record{}, err
	}
	if err := DecodeScoreJSON(reasons, detail, res); err != nil {
		return score.Record{}, fmt.Errorf("decode score %s: %w", rec.Key(), err)
	}
	return rec, nil
}

// EncodeScoreJSON renders the list-valued parts of a result for JSON columns.
func EncodeScoreJSON(res score.Result) (reasons []byte, detail []byte, err error) {
	rs := res.RecommendationReasons
	if rs == nil {
		rs = []string{}
	}
	reasons, err = json.Marshal(rs)
	if err != nil {
		return nil, nil, err
	}
	detail, err = json.Marshal(res.SkillsMatchDetail)
	if err != nil {
		return nil, nil, err
	}
	return reasons, detail, nil
}

func DecodeScoreJSON(reasons, detail []byte, res *score.Result) error {
	res.RecommendationReasons = []string{}
	if len(reasons) > 0 {
		if err := json.Unmarshal(reasons, &res.RecommendationReasons); err != nil {
			return err
		}
	}
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &res.SkillsMatchDetail); err != nil {
			return err
		}
	}
	d := &res.SkillsMatchDetail
	if d.MatchedSkills == nil {
		d.MatchedSkills = []string{}
	}
	if d.MissingSkills == nil {
		d.MissingSkills = []string{}
	}
	if d.AdditionalSkills == nil {
		d.AdditionalSkills = []string{}
	}
	return nil
}
