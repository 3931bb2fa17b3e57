package matching

import (
	"errors"
	"fmt"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/domain/score"
)

// ErrInvalidInput marks data the scorers cannot interpret. Missing optional
// fields are never reported this way; they score neutrally instead.
var ErrInvalidInput = errors.New("invalid scoring input")

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Score(c candidate.Profile, j opportunity.Opportunity) (score.Result, error) {
	if err := Validate(c, j); err != nil {
		return score.Result{}, err
	}
	return Aggregate(c, j, ComputeFactors(c, j)), nil
}

func ComputeFactors(c candidate.Profile, j opportunity.Opportunity) Factors {
	return Factors{
		Skills:                EnhancedSkillsMatch(c, j),
		ExperienceRelevance:   ExperienceRelevance(c, j),
		SectorExpertise:       SectorExpertise(c, j),
		CulturalFit:           CulturalFit(c, j),
		CompensationAlignment: CompensationAlignment(c, j),
		GeographicPreference:  GeographicPreference(c, j),
		BoardWeight:           BoardExperienceWeight(c.BoardExperience),
	}
}

func Validate(c candidate.Profile, j opportunity.Opportunity) error {
	if c.ExperienceYears < 0 {
		return fmt.Errorf("%w: candidate %s has negative experience years (%v)", ErrInvalidInput, c.ID, c.ExperienceYears)
	}
	if j.ExperienceRequired < 0 {
		return fmt.Errorf("%w: opportunity %s requires negative experience years (%v)", ErrInvalidInput, j.ID, j.ExperienceRequired)
	}
	if c.Compensation != nil {
		if err := validateRange("candidate", c.Compensation.Min, c.Compensation.Max); err != nil {
			return err
		}
	}
	if j.Compensation != nil {
		if err := validateRange("opportunity", j.Compensation.Min, j.Compensation.Max); err != nil {
			return err
		}
	}
	return nil
}

func validateRange(side string, minV, maxV float64) error {
	if minV < 0 || maxV < 0 {
		return fmt.Errorf("%w: %s compensation is negative", ErrInvalidInput, side)
	}
	if maxV > 0 && minV > maxV {
		return fmt.Errorf("%w: %s compensation min %v exceeds max %v", ErrInvalidInput, side, minV, maxV)
	}
	return nil
}
