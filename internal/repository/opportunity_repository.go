package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/opportunity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

type OpportunityRepository interface {
	GetOpportunity(ctx context.Context, id uuid.UUID) (opportunity.Opportunity, error)
	ListActiveOpportunities(ctx context.Context) ([]opportunity.Opportunity, error)
}

type PostgresOpportunityRepository struct {
	db database.DB
}

func NewPostgresOpportunityRepository(db database.DB) *PostgresOpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

const opportunityColumns = `id, title, organization, required_skills, preferred_skills,
	experience_required, sector, location, compensation_min, compensation_max,
	compensation_currency, remote_available, travel_requirement, cultural_requirements,
	is_active, created_at`

func (r *PostgresOpportunityRepository) GetOpportunity(ctx context.Context, id uuid.UUID) (opportunity.Opportunity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return opportunity.Opportunity{}, fmt.Errorf("%w: %s", ErrOpportunityNotFound, id)
		}
		return opportunity.Opportunity{}, err
	}
	return o, nil
}

func (r *PostgresOpportunityRepository) ListActiveOpportunities(ctx context.Context) ([]opportunity.Opportunity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+opportunityColumns+`
		 FROM opportunities
		 WHERE is_active
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]opportunity.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOpportunity(row database.Row) (opportunity.Opportunity, error) {
	var (
		o        opportunity.Opportunity
		compMin  *float64
		compMax  *float64
		currency *string
		culture  []byte
	)
	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Organization,
		&o.RequiredSkills,
		&o.PreferredSkills,
		&o.ExperienceRequired,
		&o.Sector,
		&o.Location,
		&compMin,
		&compMax,
		&currency,
		&o.RemoteAvailable,
		&o.TravelRequirement,
		&culture,
		&o.IsActive,
		&o.CreatedAt,
	)
	if err != nil {
		return opportunity.Opportunity{}, err
	}

	if currency != nil && *currency != "" {
		o.Compensation = &opportunity.Compensation{Currency: *currency}
		if compMin != nil {
			o.Compensation.Min = *compMin
		}
		if compMax != nil {
			o.Compensation.Max = *compMax
		}
	}
	if len(culture) > 0 && string(culture) != "null" {
		var req opportunity.CulturalRequirement
		if err := json.Unmarshal(culture, &req); err != nil {
			return opportunity.Opportunity{}, fmt.Errorf("decode cultural_requirements for %s: %w", o.ID, err)
		}
		o.CulturalRequirements = &req
	}
	return o, nil
}
