package matching

import "fmt"

// Weights are integer percentages so that they sum to exactly 100.
type Weights struct {
	Skills                int
	ExperienceRelevance   int
	SectorExpertise       int
	CulturalFit           int
	CompensationAlignment int
	GeographicPreference  int
}

var DefaultWeights = Weights{
	Skills:                35,
	ExperienceRelevance:   25,
	SectorExpertise:       20,
	CulturalFit:           10,
	CompensationAlignment: 5,
	GeographicPreference:  5,
}

func (w Weights) Sum() int {
	return w.Skills + w.ExperienceRelevance + w.SectorExpertise +
		w.CulturalFit + w.CompensationAlignment + w.GeographicPreference
}

func (w Weights) Validate() error {
	if w.Sum() != 100 {
		return fmt.Errorf("weights sum to %d, must sum to 100", w.Sum())
	}
	for _, v := range []int{w.Skills, w.ExperienceRelevance, w.SectorExpertise, w.CulturalFit, w.CompensationAlignment, w.GeographicPreference} {
		if v < 0 {
			return fmt.Errorf("negative weight: %d", v)
		}
	}
	return nil
}

// Overall returns the rounded weighted sum of the factor scores.
func (w Weights) Overall(f Factors) int {
	total := w.Skills*f.Skills +
		w.ExperienceRelevance*f.ExperienceRelevance +
		w.SectorExpertise*f.SectorExpertise +
		w.CulturalFit*f.CulturalFit +
		w.CompensationAlignment*f.CompensationAlignment +
		w.GeographicPreference*f.GeographicPreference
	return clampScore(float64(total) / 100)
}
