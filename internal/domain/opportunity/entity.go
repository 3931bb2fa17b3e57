package opportunity

import (
	"time"

	"github.com/google/uuid"
)

type Compensation struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type CulturalRequirement struct {
	LeadershipStyle string   `json:"leadership_style,omitempty"`
	DecisionMaking  string   `json:"decision_making,omitempty"`
	Values          []string `json:"values,omitempty"`
	WorkingStyle    []string `json:"working_style,omitempty"`
}

type Opportunity struct {
	ID                   uuid.UUID
	Title                string
	Organization         string
	RequiredSkills       []string
	PreferredSkills      []string
	ExperienceRequired   float64
	Sector               string
	Location             string
	Compensation         *Compensation
	RemoteAvailable      bool
	TravelRequirement    string
	CulturalRequirements *CulturalRequirement
	IsActive             bool
	CreatedAt            time.Time
}
