package matching

import (
	"math/rand"
	"testing"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"

	"github.com/stretchr/testify/assert"
)

func TestEnhancedSkillsMatch(t *testing.T) {
	c := candidate.Profile{Skills: []string{"Python", "Leadership"}}

	t.Run("required and preferred", func(t *testing.T) {
		j := opportunity.Opportunity{RequiredSkills: []string{"python", "strategy"}, PreferredSkills: []string{"leadership"}}
		assert.Equal(t, 65, EnhancedSkillsMatch(c, j))
	})
	t.Run("no skills listed is neutral", func(t *testing.T) {
		assert.Equal(t, 50, EnhancedSkillsMatch(c, opportunity.Opportunity{}))
	})
	t.Run("required only caps at 70", func(t *testing.T) {
		j := opportunity.Opportunity{RequiredSkills: []string{"python", "leadership"}}
		assert.Equal(t, 70, EnhancedSkillsMatch(c, j))
	})
	t.Run("preferred only", func(t *testing.T) {
		j := opportunity.Opportunity{PreferredSkills: []string{"python"}}
		assert.Equal(t, 30, EnhancedSkillsMatch(c, j))
	})
}

func TestExperienceRelevance(t *testing.T) {
	fullBoard := []candidate.BoardTenure{
		{Sector: "finance", IsCurrent: true},
		{Sector: "technology"},
		{Sector: "healthcare"},
		{Sector: "finance"},
		{Sector: "finance"},
	}

	tests := []struct {
		name     string
		years    float64
		required float64
		board    []candidate.BoardTenure
		want     int
	}{
		{name: "no requirement", years: 3, required: 0, want: 80},
		{name: "meets requirement", years: 12, required: 10, want: 84},
		{name: "below requirement", years: 5, required: 10, want: 35},
		{name: "board lifts low experience", years: 5, required: 10, board: fullBoard, want: 65},
		{name: "caps at 100", years: 40, required: 5, board: fullBoard, want: 100},
		{name: "no experience", years: 0, required: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate.Profile{ExperienceYears: tt.years, BoardExperience: tt.board}
			j := opportunity.Opportunity{ExperienceRequired: tt.required}
			assert.Equal(t, tt.want, ExperienceRelevance(c, j))
		})
	}
}

func TestBoardExperienceWeight(t *testing.T) {
	assert.Equal(t, 0.0, BoardExperienceWeight(nil))
	assert.Equal(t, 0.18, BoardExperienceWeight([]candidate.BoardTenure{{Sector: "energy"}}))
	assert.Equal(t, 0.48, BoardExperienceWeight([]candidate.BoardTenure{{Sector: "energy", IsCurrent: true}}))

	many := make([]candidate.BoardTenure, 0, 8)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		many = append(many, candidate.BoardTenure{Sector: s, IsCurrent: true})
	}
	assert.Equal(t, 1.0, BoardExperienceWeight(many))
}

func TestSectorExpertise(t *testing.T) {
	tests := []struct {
		name   string
		prefs  []string
		sector string
		want   int
	}{
		{name: "exact", prefs: []string{"Technology"}, sector: "technology", want: 100},
		{name: "substring", prefs: []string{"technology"}, sector: "Healthcare Technology", want: 80},
		{name: "related", prefs: []string{"technology"}, sector: "Fintech", want: 60},
		{name: "related reverse", prefs: []string{"banking"}, sector: "Finance", want: 60},
		{name: "unrelated", prefs: []string{"energy"}, sector: "retail", want: 30},
		{name: "missing job sector", prefs: []string{"energy"}, sector: "", want: 50},
		{name: "missing preferences", prefs: nil, sector: "energy", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate.Profile{SectorPreferences: tt.prefs}
			j := opportunity.Opportunity{Sector: tt.sector}
			assert.Equal(t, tt.want, SectorExpertise(c, j))
		})
	}
}

func TestCulturalFit(t *testing.T) {
	tests := []struct {
		name string
		cp   *candidate.CulturalProfile
		req  *opportunity.CulturalRequirement
		want int
	}{
		{name: "candidate absent", cp: nil, req: &opportunity.CulturalRequirement{LeadershipStyle: "servant"}, want: 50},
		{name: "requirement absent", cp: &candidate.CulturalProfile{LeadershipStyle: "servant"}, req: nil, want: 50},
		{name: "nothing comparable", cp: &candidate.CulturalProfile{}, req: &opportunity.CulturalRequirement{LeadershipStyle: "servant"}, want: 50},
		{name: "leadership match", cp: &candidate.CulturalProfile{LeadershipStyle: "Servant"}, req: &opportunity.CulturalRequirement{LeadershipStyle: "servant"}, want: 100},
		{name: "leadership mismatch", cp: &candidate.CulturalProfile{LeadershipStyle: "directive"}, req: &opportunity.CulturalRequirement{LeadershipStyle: "servant"}, want: 40},
		{
			name: "half the values",
			cp:   &candidate.CulturalProfile{Values: []string{"integrity", "innovation"}},
			req:  &opportunity.CulturalRequirement{Values: []string{"Integrity", "diversity"}},
			want: 50,
		},
		{
			name: "all four factors",
			cp: &candidate.CulturalProfile{
				LeadershipStyle: "collaborative",
				DecisionMaking:  "data-driven",
				Values:          []string{"integrity"},
				WorkingStyle:    []string{"hybrid collaboration"},
			},
			req: &opportunity.CulturalRequirement{
				LeadershipStyle: "collaborative",
				DecisionMaking:  "consensus",
				Values:          []string{"integrity"},
				WorkingStyle:    []string{"hybrid"},
			},
			// (25 + 10 + 25 + 25) / 4 * 4
			want: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate.Profile{CulturalAssessment: tt.cp}
			j := opportunity.Opportunity{CulturalRequirements: tt.req}
			assert.Equal(t, tt.want, CulturalFit(c, j))
		})
	}
}

func TestCompensationAlignment(t *testing.T) {
	usd := func(minV, maxV float64) *candidate.Compensation {
		return &candidate.Compensation{Min: minV, Max: maxV, Currency: "USD"}
	}
	budget := func(minV, maxV float64, cur string) *opportunity.Compensation {
		return &opportunity.Compensation{Min: minV, Max: maxV, Currency: cur}
	}

	tests := []struct {
		name string
		c    *candidate.Compensation
		j    *opportunity.Compensation
		want int
	}{
		{name: "missing candidate", c: nil, j: budget(1, 2, "USD"), want: 50},
		{name: "missing currency", c: &candidate.Compensation{Min: 1, Max: 2}, j: budget(1, 2, "USD"), want: 50},
		{name: "currency mismatch", c: usd(100, 150), j: budget(100, 150, "EUR"), want: 40},
		{name: "partial overlap", c: usd(100, 150), j: budget(120, 200, "usd"), want: 84},
		{name: "candidate inside wider budget", c: usd(500, 600), j: budget(0, 1000, "USD"), want: 100},
		{name: "budget inside wider candidate range", c: usd(0, 1000), j: budget(500, 600, "USD"), want: 100},
		{name: "zero-width ranges", c: usd(100, 100), j: budget(100, 100, "USD"), want: 60},
		{name: "candidate too expensive", c: usd(250, 300), j: budget(100, 200, "USD"), want: 25},
		{name: "candidate far too expensive", c: usd(900, 1000), j: budget(100, 200, "USD"), want: 0},
		{name: "candidate below budget", c: usd(50, 90), j: budget(100, 200, "USD"), want: 80},
		{name: "open-ended candidate", c: usd(150, 0), j: budget(100, 200, "USD"), want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate.Profile{Compensation: tt.c}
			j := opportunity.Opportunity{Compensation: tt.j}
			assert.Equal(t, tt.want, CompensationAlignment(c, j))
		})
	}
}

func TestGeographicPreference(t *testing.T) {
	tests := []struct {
		name   string
		cand   string
		job    string
		remote bool
		travel candidate.TravelWillingness
		want   int
	}{
		{name: "remote flag wins", cand: "Paris", job: "Tokyo", remote: true, want: 100},
		{name: "remote flag without locations", remote: true, want: 100},
		{name: "remote in location", cand: "London, UK", job: "Remote", want: 100},
		{name: "missing candidate location", cand: "", job: "Berlin", want: 50},
		{name: "exact", cand: "Berlin, Germany", job: "berlin, germany", want: 100},
		{name: "city level", cand: "London", job: "London, UK", want: 90},
		{name: "same country", cand: "Manchester, UK", job: "London, UK", want: 70},
		{name: "willing to travel", cand: "Berlin, Germany", job: "London, UK", travel: candidate.TravelHigh, want: 60},
		{name: "medium travel", cand: "Berlin, Germany", job: "London, UK", travel: candidate.TravelMedium, want: 60},
		{name: "far away", cand: "Berlin, Germany", job: "London, UK", travel: candidate.TravelLow, want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate.Profile{Location: tt.cand, TravelWillingness: tt.travel}
			j := opportunity.Opportunity{Location: tt.job, RemoteAvailable: tt.remote}
			assert.Equal(t, tt.want, GeographicPreference(c, j))
		})
	}
}

func TestFactorsStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pick := func(xs []string) []string {
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			if rng.Intn(2) == 0 {
				out = append(out, x)
			}
		}
		return out
	}
	skills := []string{"python", "leadership", "finance", "governance", "people management", "strategy"}
	sectors := []string{"technology", "fintech", "energy", "retail", ""}
	places := []string{"London, UK", "Remote", "Berlin, Germany", "", "London"}
	travel := []candidate.TravelWillingness{candidate.TravelNone, candidate.TravelLow, candidate.TravelMedium, candidate.TravelHigh}

	for i := 0; i < 500; i++ {
		cMin := float64(rng.Intn(300))
		jMin := float64(rng.Intn(300))
		c := candidate.Profile{
			Skills:            pick(skills),
			ExperienceYears:   float64(rng.Intn(40)),
			SectorPreferences: pick(sectors),
			Location:          places[rng.Intn(len(places))],
			Compensation:      &candidate.Compensation{Min: cMin, Max: cMin + float64(rng.Intn(200)), Currency: "USD"},
			TravelWillingness: travel[rng.Intn(len(travel))],
			BoardExperience:   make([]candidate.BoardTenure, rng.Intn(7)),
		}
		j := opportunity.Opportunity{
			RequiredSkills:     pick(skills),
			PreferredSkills:    pick(skills),
			ExperienceRequired: float64(rng.Intn(25)),
			Sector:             sectors[rng.Intn(len(sectors))],
			Location:           places[rng.Intn(len(places))],
			Compensation:       &opportunity.Compensation{Min: jMin, Max: jMin + float64(rng.Intn(200)), Currency: "USD"},
			RemoteAvailable:    rng.Intn(4) == 0,
		}

		f := ComputeFactors(c, j)
		for _, v := range []int{f.Skills, f.ExperienceRelevance, f.SectorExpertise, f.CulturalFit, f.CompensationAlignment, f.GeographicPreference} {
			if v < 0 || v > 100 {
				t.Fatalf("factor out of range: %+v", f)
			}
		}
		res := Aggregate(c, j, f)
		if res.OverallScore < 0 || res.OverallScore > 100 {
			t.Fatalf("overall out of range: %d", res.OverallScore)
		}
		if j.RemoteAvailable && f.GeographicPreference != 100 {
			t.Fatalf("remote job scored %d", f.GeographicPreference)
		}
	}
}
