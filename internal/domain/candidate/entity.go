package candidate

import (
	"time"

	"github.com/google/uuid"
)

type TravelWillingness string

const (
	TravelNone   TravelWillingness = "none"
	TravelLow    TravelWillingness = "low"
	TravelMedium TravelWillingness = "medium"
	TravelHigh   TravelWillingness = "high"
)

type Compensation struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type BoardTenure struct {
	Organization string     `json:"organization"`
	PositionType string     `json:"position_type"`
	Sector       string     `json:"sector"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsCurrent    bool       `json:"is_current"`
}

// CulturalProfile is sparsely populated; every field may be empty.
type CulturalProfile struct {
	LeadershipStyle string   `json:"leadership_style,omitempty"`
	DecisionMaking  string   `json:"decision_making,omitempty"`
	Values          []string `json:"values,omitempty"`
	WorkingStyle    []string `json:"working_style,omitempty"`
}

type Profile struct {
	ID                  uuid.UUID
	FullName            string
	Skills              []string
	ExperienceYears     float64
	SectorPreferences   []string
	Location            string
	Compensation        *Compensation
	TravelWillingness   TravelWillingness
	BoardExperience     []BoardTenure
	CulturalAssessment  *CulturalProfile
	ProfileCompleteness int
	UpdatedAt           time.Time
}
