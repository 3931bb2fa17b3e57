package matching

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/domain/score"
)

type Factors struct {
	Skills                int
	ExperienceRelevance   int
	SectorExpertise       int
	CulturalFit           int
	CompensationAlignment int
	GeographicPreference  int
	BoardWeight           float64
}

// Aggregate combines factor scores into a Result. It is deterministic for
// identical inputs.
func Aggregate(c candidate.Profile, j opportunity.Opportunity, f Factors) score.Result {
	overall := DefaultWeights.Overall(f)
	return score.Result{
		SkillsScore:           f.Skills,
		ExperienceRelevance:   f.ExperienceRelevance,
		SectorExpertise:       f.SectorExpertise,
		CulturalFit:           f.CulturalFit,
		CompensationAlignment: f.CompensationAlignment,
		GeographicPreference:  f.GeographicPreference,
		OverallScore:          overall,
		Explanation:           buildExplanation(c, j, f),
		RecommendationReasons: buildReasons(j, f, overall),
		BoardExperienceWeight: f.BoardWeight,
		SkillsMatchDetail:     BuildSkillsMatchDetail(c.Skills, j.RequiredSkills, j.PreferredSkills),
	}
}

// BuildSkillsMatchDetail uses plain substring containment so the lists read
// naturally; it does not apply synonym credit.
func BuildSkillsMatchDetail(candidateSkills, required, preferred []string) score.SkillsMatchDetail {
	jobSkills := dedupe(append(append([]string{}, required...), preferred...))
	cand := dedupe(candidateSkills)

	out := score.SkillsMatchDetail{
		MatchedSkills:    make([]string, 0, len(jobSkills)),
		MissingSkills:    make([]string, 0),
		AdditionalSkills: make([]string, 0),
	}

	for _, js := range jobSkills {
		if containsEither(cand, js) {
			out.MatchedSkills = append(out.MatchedSkills, js)
		} else {
			out.MissingSkills = append(out.MissingSkills, js)
		}
	}
	for _, cs := range cand {
		if !containsEither(jobSkills, cs) {
			out.AdditionalSkills = append(out.AdditionalSkills, cs)
		}
	}

	if len(jobSkills) > 0 {
		out.MatchPercentage = int(math.Round(float64(len(out.MatchedSkills)) / float64(len(jobSkills)) * 100))
	}
	return out
}

func buildReasons(j opportunity.Opportunity, f Factors, overall int) []string {
	reasons := make([]string, 0, 7)
	if f.Skills >= 80 {
		reasons = append(reasons, fmt.Sprintf("Strong skills match (%d%%)", f.Skills))
	}
	if f.ExperienceRelevance >= 80 && f.BoardWeight > 0.5 {
		reasons = append(reasons, "Extensive board-level experience")
	}
	if f.SectorExpertise >= 80 {
		if s := strings.TrimSpace(j.Sector); s != "" {
			reasons = append(reasons, fmt.Sprintf("Deep expertise in the %s sector", s))
		} else {
			reasons = append(reasons, "Deep sector expertise")
		}
	}
	if f.CulturalFit >= 75 {
		reasons = append(reasons, "Strong cultural alignment")
	}
	if f.CompensationAlignment >= 80 {
		reasons = append(reasons, "Compensation expectations fit the budget")
	}
	if f.GeographicPreference >= 90 {
		reasons = append(reasons, "Location is an excellent fit")
	}
	if overall >= 90 {
		reasons = append(reasons, "Exceptional overall match")
	} else if overall >= 75 {
		reasons = append(reasons, "Strong match with minor gaps")
	}
	return reasons
}

func buildExplanation(c candidate.Profile, j opportunity.Opportunity, f Factors) string {
	parts := []string{
		tier(f.Skills, "excellent skills alignment", "solid skills foundation with some gaps", "limited overlap with the requested skills"),
		tier(f.ExperienceRelevance, "highly relevant experience", "relevant experience", "less experience than the role asks for"),
		tier(f.SectorExpertise, "deep sector expertise", "adjacent sector background", "limited exposure to the sector"),
		tier(f.CulturalFit, "strong cultural alignment", "reasonable cultural fit", "cultural fit is uncertain"),
		compensationPhrase(c, j, f.CompensationAlignment),
		tier(f.GeographicPreference, "location works well", "location is workable with some travel", "location may be a challenge"),
	}
	return capitalize(strings.Join(parts, " • "))
}

func compensationPhrase(c candidate.Profile, j opportunity.Opportunity, v int) string {
	if c.Compensation != nil && j.Compensation != nil {
		cc, jc := normalize(c.Compensation.Currency), normalize(j.Compensation.Currency)
		if cc != "" && jc != "" && cc != jc {
			return "compensation quoted in a different currency"
		}
	}
	return tier(v, "compensation expectations align well", "compensation is broadly compatible", "compensation expectations may not align")
}

func tier(v int, high, mid, low string) string {
	switch {
	case v >= 80:
		return high
	case v >= 60:
		return mid
	default:
		return low
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := normalize(s)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func containsEither(list []string, s string) bool {
	n := normalize(s)
	for _, it := range list {
		m := normalize(it)
		if m == n || strings.Contains(m, n) || strings.Contains(n, m) {
			return true
		}
	}
	return false
}
