package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/domain/score"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_scores (
	candidate_id TEXT NOT NULL,
	job_id TEXT NOT NULL,
	overall_score INTEGER NOT NULL,
	skills_score INTEGER NOT NULL,
	experience_relevance INTEGER NOT NULL,
	sector_expertise INTEGER NOT NULL,
	cultural_fit INTEGER NOT NULL,
	compensation_alignment INTEGER NOT NULL,
	geographic_preference INTEGER NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	recommendation_reasons TEXT NOT NULL DEFAULT '[]',
	board_experience_weight REAL NOT NULL DEFAULT 0,
	skills_match_detail TEXT NOT NULL DEFAULT '{}',
	job_sector TEXT NOT NULL DEFAULT '',
	candidate_completeness INTEGER NOT NULL DEFAULT 0,
	calculated_at TEXT NOT NULL,
	PRIMARY KEY (candidate_id, job_id)
);
CREATE INDEX IF NOT EXISTS idx_match_scores_job ON match_scores (job_id);
`

// ScoreStore keeps score records in an embedded SQLite file. It satisfies
// repository.ScoreRepository for single-node deployments.
type ScoreStore struct {
	db *sqlx.DB
}

var _ repository.ScoreRepository = (*ScoreStore)(nil)

type scoreRow struct {
	CandidateID           string  `db:"candidate_id"`
	JobID                 string  `db:"job_id"`
	OverallScore          int     `db:"overall_score"`
	SkillsScore           int     `db:"skills_score"`
	ExperienceRelevance   int     `db:"experience_relevance"`
	SectorExpertise       int     `db:"sector_expertise"`
	CulturalFit           int     `db:"cultural_fit"`
	CompensationAlignment int     `db:"compensation_alignment"`
	GeographicPreference  int     `db:"geographic_preference"`
	Explanation           string  `db:"explanation"`
	RecommendationReasons string  `db:"recommendation_reasons"`
	BoardExperienceWeight float64 `db:"board_experience_weight"`
	SkillsMatchDetail     string  `db:"skills_match_detail"`
	JobSector             string  `db:"job_sector"`
	CandidateCompleteness int     `db:"candidate_completeness"`
	CalculatedAt          string  `db:"calculated_at"`
}

// Open creates the database file if needed and applies the schema.
func Open(ctx context.Context, path string) (*ScoreStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One writer at a time; concurrent scoring goroutines queue on the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &ScoreStore{db: db}, nil
}

func (s *ScoreStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *ScoreStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ScoreStore) Upsert(ctx context.Context, rec score.Record) error {
	if rec.CandidateID == uuid.Nil || rec.JobID == uuid.Nil {
		return fmt.Errorf("upsert score: empty key %s", rec.Key())
	}
	if rec.CalculatedAt.IsZero() {
		rec.CalculatedAt = time.Now().UTC()
	}
	row, err := toRow(rec)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx, `
INSERT INTO match_scores (
	candidate_id, job_id, overall_score, skills_score, experience_relevance,
	sector_expertise, cultural_fit, compensation_alignment, geographic_preference,
	explanation, recommendation_reasons, board_experience_weight, skills_match_detail,
	job_sector, candidate_completeness, calculated_at
) VALUES (
	:candidate_id, :job_id, :overall_score, :skills_score, :experience_relevance,
	:sector_expertise, :cultural_fit, :compensation_alignment, :geographic_preference,
	:explanation, :recommendation_reasons, :board_experience_weight, :skills_match_detail,
	:job_sector, :candidate_completeness, :calculated_at
)
ON CONFLICT (candidate_id, job_id) DO UPDATE SET
	overall_score = excluded.overall_score,
	skills_score = excluded.skills_score,
	experience_relevance = excluded.experience_relevance,
	sector_expertise = excluded.sector_expertise,
	cultural_fit = excluded.cultural_fit,
	compensation_alignment = excluded.compensation_alignment,
	geographic_preference = excluded.geographic_preference,
	explanation = excluded.explanation,
	recommendation_reasons = excluded.recommendation_reasons,
	board_experience_weight = excluded.board_experience_weight,
	skills_match_detail = excluded.skills_match_detail,
	job_sector = excluded.job_sector,
	candidate_completeness = excluded.candidate_completeness,
	calculated_at = excluded.calculated_at`, row)
	return err
}

func (s *ScoreStore) Get(ctx context.Context, key score.Key) (score.Record, bool, error) {
	var row scoreRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM match_scores WHERE candidate_id = ? AND job_id = ?`,
		key.CandidateID.String(), key.JobID.String(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return score.Record{}, false, nil
		}
		return score.Record{}, false, err
	}
	rec, err := fromRow(row)
	if err != nil {
		return score.Record{}, false, err
	}
	return rec, true, nil
}

func (s *ScoreStore) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]score.Record, error) {
	return s.list(ctx, `candidate_id = ?`, candidateID)
}

func (s *ScoreStore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]score.Record, error) {
	return s.list(ctx, `job_id = ?`, jobID)
}

func (s *ScoreStore) list(ctx context.Context, where string, id uuid.UUID) ([]score.Record, error) {
	var rows []scoreRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM match_scores WHERE `+where+` ORDER BY overall_score DESC`,
		id.String(),
	); err != nil {
		return nil, err
	}

	out := make([]score.Record, 0, len(rows))
	for _, r := range rows {
		rec, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRow(rec score.Record) (scoreRow, error) {
	reasons, detail, err := repository.EncodeScoreJSON(rec.Result)
	if err != nil {
		return scoreRow{}, err
	}
	res := rec.Result
	return scoreRow{
		CandidateID:           rec.CandidateID.String(),
		JobID:                 rec.JobID.String(),
		OverallScore:          res.OverallScore,
		SkillsScore:           res.SkillsScore,
		ExperienceRelevance:   res.ExperienceRelevance,
		SectorExpertise:       res.SectorExpertise,
		CulturalFit:           res.CulturalFit,
		CompensationAlignment: res.CompensationAlignment,
		GeographicPreference:  res.GeographicPreference,
		Explanation:           res.Explanation,
		RecommendationReasons: string(reasons),
		BoardExperienceWeight: res.BoardExperienceWeight,
		SkillsMatchDetail:     string(detail),
		JobSector:             rec.JobSector,
		CandidateCompleteness: rec.CandidateCompleteness,
		CalculatedAt:          rec.CalculatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func fromRow(r scoreRow) (score.Record, error) {
	candID, err := uuid.Parse(r.CandidateID)
	if err != nil {
		return score.Record{}, fmt.Errorf("sqlite: candidate_id: %w", err)
	}
	jobID, err := uuid.Parse(r.JobID)
	if err != nil {
		return score.Record{}, fmt.Errorf("sqlite: job_id: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, r.CalculatedAt)
	if err != nil {
		return score.Record{}, fmt.Errorf("sqlite: calculated_at: %w", err)
	}

	rec := score.Record{
		CandidateID: candID,
		JobID:       jobID,
		Result: score.Result{
			SkillsScore:           r.SkillsScore,
			ExperienceRelevance:   r.ExperienceRelevance,
			SectorExpertise:       r.SectorExpertise,
			CulturalFit:           r.CulturalFit,
			CompensationAlignment: r.CompensationAlignment,
			GeographicPreference:  r.GeographicPreference,
			OverallScore:          r.OverallScore,
			Explanation:           r.Explanation,
			BoardExperienceWeight: r.BoardExperienceWeight,
		},
		JobSector:             r.JobSector,
		CandidateCompleteness: r.CandidateCompleteness,
		CalculatedAt:          at,
	}
	if err := repository.DecodeScoreJSON([]byte(r.RecommendationReasons), []byte(r.SkillsMatchDetail), &rec.Result); err != nil {
		return score.Record{}, fmt.Errorf("sqlite: decode %s: %w", rec.Key(), err)
	}
	return rec, nil
}
