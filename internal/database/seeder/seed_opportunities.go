package seeder

import (
	"context"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/opportunity"

	"github.com/google/uuid"
)

type OpportunitiesSeeder struct {
	Items []opportunity.Opportunity
}

func (OpportunitiesSeeder) Name() string { return "opportunities" }

func (s OpportunitiesSeeder) Run(ctx context.Context, db database.DB) (int, error) {
	if err := EnsureTableColumns(ctx, db, "opportunities",
		"id", "title", "organization", "required_skills", "preferred_skills", "experience_required",
		"sector", "location", "compensation_min", "compensation_max", "compensation_currency",
		"remote_available", "travel_requirement", "cultural_requirements", "is_active",
	); err != nil {
		return 0, err
	}

	inserted := 0
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, o := range s.Items {
			cultural, err := jsonOrNil(o.CulturalRequirements)
			if err != nil {
				return fmt.Errorf("encode cultural requirements %s: %w", o.ID, err)
			}
			var minC, maxC *float64
			var cur *string
			if o.Compensation != nil {
				minC, maxC, cur = &o.Compensation.Min, &o.Compensation.Max, &o.Compensation.Currency
			}

			affected, err := tx.Exec(ctx,
				`INSERT INTO opportunities (
					id, title, organization, required_skills, preferred_skills, experience_required,
					sector, location, compensation_min, compensation_max, compensation_currency,
					remote_available, travel_requirement, cultural_requirements, is_active
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
				ON CONFLICT (id) DO NOTHING`,
				o.ID, o.Title, o.Organization, o.RequiredSkills, o.PreferredSkills, o.ExperienceRequired,
				o.Sector, o.Location, minC, maxC, cur,
				o.RemoteAvailable, o.TravelRequirement, cultural, o.IsActive,
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

func DemoOpportunities() []opportunity.Opportunity {
	return []opportunity.Opportunity{
		{
			ID:                 uuid.MustParse("3a9e5d10-7b2f-4c81-b6e4-5f0a1d2c3b01"),
			Title:              "Non-Executive Director",
			Organization:       "Harbor Mutual",
			RequiredSkills:     []string{"Corporate Governance", "Risk Management"},
			PreferredSkills:    []string{"ESG", "M&A"},
			ExperienceRequired: 15,
			Sector:             "Financial Services",
			Location:           "London, UK",
			Compensation:       &opportunity.Compensation{Min: 55000, Max: 75000, Currency: "GBP"},
			TravelRequirement:  "occasional",
			CulturalRequirements: &opportunity.CulturalRequirement{
				LeadershipStyle: "collaborative",
				Values:          []string{"integrity"},
			},
			IsActive: true,
		},
		{
			ID:                 uuid.MustParse("3a9e5d10-7b2f-4c81-b6e4-5f0a1d2c3b02"),
			Title:              "Technology Committee Member",
			Organization:       "Atlas Retail Group",
			RequiredSkills:     []string{"Digital Transformation", "Cybersecurity"},
			PreferredSkills:    []string{"Data Analytics"},
			ExperienceRequired: 10,
			Sector:             "Technology",
			Location:           "Leeds, UK",
			Compensation:       &opportunity.Compensation{Min: 30000, Max: 45000, Currency: "GBP"},
			RemoteAvailable:    true,
			TravelRequirement:  "frequent",
			IsActive:           true,
		},
		{
			ID:                 uuid.MustParse("3a9e5d10-7b2f-4c81-b6e4-5f0a1d2c3b03"),
			Title:              "Trustee",
			Organization:       "Northern Care Foundation",
			RequiredSkills:     []string{"Clinical Governance", "Healthcare"},
			ExperienceRequired: 8,
			Sector:             "Healthcare",
			Location:           "Edinburgh, UK",
			IsActive:           true,
		},
		{
			ID:                 uuid.MustParse("3a9e5d10-7b2f-4c81-b6e4-5f0a1d2c3b04"),
			Title:              "Audit Chair",
			Organization:       "Legacy Mining Co",
			RequiredSkills:     []string{"Financial Oversight"},
			ExperienceRequired: 20,
			Sector:             "Mining",
			Location:           "Perth, Australia",
			Compensation:       &opportunity.Compensation{Min: 120000, Max: 150000, Currency: "AUD"},
			IsActive:           false,
		},
	}
}
