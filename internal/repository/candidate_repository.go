package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/candidate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	GetCandidate(ctx context.Context, id uuid.UUID) (candidate.Profile, error)
	// ListCandidates returns profiles whose completeness is at least minCompleteness.
	ListCandidates(ctx context.Context, minCompleteness int) ([]candidate.Profile, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, full_name, skills, experience_years, sector_preferences, location,
	compensation_min, compensation_max, compensation_currency, travel_willingness,
	board_experience, cultural_assessment, profile_completeness, updated_at`

func (r *PostgresCandidateRepository) GetCandidate(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	p, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return candidate.Profile{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
		}
		return candidate.Profile{}, err
	}
	return p, nil
}

func (r *PostgresCandidateRepository) ListCandidates(ctx context.Context, minCompleteness int) ([]candidate.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates
		 WHERE profile_completeness >= $1
		 ORDER BY id`,
		minCompleteness,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Profile, 0)
	for rows.Next() {
		p, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCandidate(row database.Row) (candidate.Profile, error) {
	var (
		p        candidate.Profile
		travel   string
		compMin  *float64
		compMax  *float64
		currency *string
		board    []byte
		culture  []byte
	)
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Skills,
		&p.ExperienceYears,
		&p.SectorPreferences,
		&p.Location,
		&compMin,
		&compMax,
		&currency,
		&travel,
		&board,
		&culture,
		&p.ProfileCompleteness,
		&p.UpdatedAt,
	)
	if err != nil {
		return candidate.Profile{}, err
	}

	p.TravelWillingness = candidate.TravelWillingness(travel)
	if currency != nil && *currency != "" {
		p.Compensation = &candidate.Compensation{Currency: *currency}
		if compMin != nil {
			p.Compensation.Min = *compMin
		}
		if compMax != nil {
			p.Compensation.Max = *compMax
		}
	}
	if len(board) > 0 {
		if err := json.Unmarshal(board, &p.BoardExperience); err != nil {
			return candidate.Profile{}, fmt.Errorf("decode board_experience for %s: %w", p.ID, err)
		}
	}
	if len(culture) > 0 && string(culture) != "null" {
		var cp candidate.CulturalProfile
		if err := json.Unmarshal(culture, &cp); err != nil {
			return candidate.Profile{}, fmt.Errorf("decode cultural_assessment for %s: %w", p.ID, err)
		}
		p.CulturalAssessment = &cp
	}
	return p, nil
}
