package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/candidate"

	"github.com/google/uuid"
)

type CandidatesSeeder struct {
	Items []candidate.Profile
}

func (CandidatesSeeder) Name() string { return "candidates" }

// Run inserts Items, leaving rows whose id already exists untouched.
func (s CandidatesSeeder) Run(ctx context.Context, db database.DB) (int, error) {
	if err := EnsureTableColumns(ctx, db, "candidates",
		"id", "full_name", "skills", "experience_years", "sector_preferences", "location",
		"compensation_min", "compensation_max", "compensation_currency", "travel_willingness",
		"board_experience", "cultural_assessment", "profile_completeness",
	); err != nil {
		return 0, err
	}

	inserted := 0
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, p := range s.Items {
			board, err := json.Marshal(nonNilTenures(p.BoardExperience))
			if err != nil {
				return fmt.Errorf("encode board experience %s: %w", p.ID, err)
			}
			cultural, err := jsonOrNil(p.CulturalAssessment)
			if err != nil {
				return fmt.Errorf("encode cultural assessment %s: %w", p.ID, err)
			}
			minC, maxC, cur := candidateCompensation(p.Compensation)

			affected, err := tx.Exec(ctx,
				`INSERT INTO candidates (
					id, full_name, skills, experience_years, sector_preferences, location,
					compensation_min, compensation_max, compensation_currency, travel_willingness,
					board_experience, cultural_assessment, profile_completeness
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
				ON CONFLICT (id) DO NOTHING`,
				p.ID, p.FullName, p.Skills, p.ExperienceYears, p.SectorPreferences, p.Location,
				minC, maxC, cur, string(p.TravelWillingness),
				string(board), cultural, p.ProfileCompleteness,
			)
			if err != nil {
				return err
			}
			inserted += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func candidateCompensation(c *candidate.Compensation) (*float64, *float64, *string) {
	if c == nil {
		return nil, nil, nil
	}
	return &c.Min, &c.Max, &c.Currency
}

func nonNilTenures(v []candidate.BoardTenure) []candidate.BoardTenure {
	if v == nil {
		return []candidate.BoardTenure{}
	}
	return v
}

// jsonOrNil encodes v for a nullable jsonb column.
func jsonOrNil[T any](v *T) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func date(y int, m time.Month) *time.Time {
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// DemoCandidates are fixed profiles for local development. Ids are stable so
// seeding twice is a no-op.
func DemoCandidates() []candidate.Profile {
	return []candidate.Profile{
		{
			ID:                uuid.MustParse("8f1c7a52-3c1e-4d6a-9d2b-0a1b2c3d4e01"),
			FullName:          "Margaret Ellison",
			Skills:            []string{"Corporate Governance", "Risk Management", "Financial Oversight", "M&A", "ESG"},
			ExperienceYears:   24,
			SectorPreferences: []string{"Financial Services", "Energy"},
			Location:          "London, UK",
			Compensation:      &candidate.Compensation{Min: 60000, Max: 90000, Currency: "GBP"},
			TravelWillingness: candidate.TravelMedium,
			BoardExperience: []candidate.BoardTenure{
				{Organization: "Northbank plc", PositionType: "Non-Executive Director", Sector: "Financial Services", StartDate: date(2015, time.March), EndDate: date(2021, time.June)},
				{Organization: "Greenline Power", PositionType: "Audit Committee Chair", Sector: "Energy", StartDate: date(2019, time.January), IsCurrent: true},
				{Organization: "City Hospice Trust", PositionType: "Trustee", Sector: "Non-Profit", StartDate: date(2012, time.May), EndDate: date(2018, time.May)},
			},
			CulturalAssessment: &candidate.CulturalProfile{
				LeadershipStyle: "collaborative",
				DecisionMaking:  "data-driven",
				Values:          []string{"integrity", "sustainability"},
				WorkingStyle:    []string{"structured"},
			},
			ProfileCompleteness: 95,
		},
		{
			ID:                uuid.MustParse("8f1c7a52-3c1e-4d6a-9d2b-0a1b2c3d4e02"),
			FullName:          "Daniel Okafor",
			Skills:            []string{"Digital Transformation", "Cybersecurity", "Strategy", "Cloud Computing"},
			ExperienceYears:   15,
			SectorPreferences: []string{"Technology"},
			Location:          "Manchester, UK",
			Compensation:      &candidate.Compensation{Min: 40000, Max: 55000, Currency: "GBP"},
			TravelWillingness: candidate.TravelHigh,
			BoardExperience: []candidate.BoardTenure{
				{Organization: "Brightwave Labs", PositionType: "Board Advisor", Sector: "Technology", StartDate: date(2021, time.September), IsCurrent: true},
			},
			CulturalAssessment:  &candidate.CulturalProfile{LeadershipStyle: "transformational", Values: []string{"innovation"}},
			ProfileCompleteness: 80,
		},
		{
			ID:                  uuid.MustParse("8f1c7a52-3c1e-4d6a-9d2b-0a1b2c3d4e03"),
			FullName:            "Priya Raman",
			Skills:              []string{"Clinical Governance", "Healthcare", "Quality Assurance", "Stakeholder Management"},
			ExperienceYears:     11,
			SectorPreferences:   []string{"Healthcare", "Non-Profit"},
			Location:            "Edinburgh, UK",
			TravelWillingness:   candidate.TravelLow,
			ProfileCompleteness: 65,
		},
		{
			ID:                  uuid.MustParse("8f1c7a52-3c1e-4d6a-9d2b-0a1b2c3d4e04"),
			FullName:            "Tom Becker",
			Skills:              []string{"Marketing"},
			ExperienceYears:     3,
			Location:            "Berlin, Germany",
			TravelWillingness:   candidate.TravelNone,
			ProfileCompleteness: 30,
		},
	}
}
