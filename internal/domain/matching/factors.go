package matching

import (
	"math"
	"strings"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"
)

const neutralScore = 50

// EnhancedSkillsMatch weighs required skills at 70 points and preferred skills
// at 30 points.
func EnhancedSkillsMatch(c candidate.Profile, j opportunity.Opportunity) int {
	required := normalizeList(j.RequiredSkills)
	preferred := normalizeList(j.PreferredSkills)
	if len(required) == 0 && len(preferred) == 0 {
		return neutralScore
	}

	score := 0.0
	if len(required) > 0 {
		score += 70 * MatchSkills(c.Skills, required) / float64(len(required))
	}
	if len(preferred) > 0 {
		score += 30 * MatchSkills(c.Skills, preferred) / float64(len(preferred))
	}
	return clampScore(score)
}

// ExperienceRelevance adds up to 30 points for board tenure on top of the
// years-based baseline.
func ExperienceRelevance(c candidate.Profile, j opportunity.Opportunity) int {
	var base float64
	switch {
	case j.ExperienceRequired <= 0:
		base = 80
	case c.ExperienceYears >= j.ExperienceRequired:
		base = math.Min(100, 80+2*(c.ExperienceYears-j.ExperienceRequired))
	default:
		base = math.Round(70 * c.ExperienceYears / j.ExperienceRequired)
	}

	weight := BoardExperienceWeight(c.BoardExperience)
	return clampScore(math.Min(100, base+30*weight))
}

func SectorExpertise(c candidate.Profile, j opportunity.Opportunity) int {
	sector := normalize(j.Sector)
	prefs := normalizeList(c.SectorPreferences)
	if sector == "" || len(prefs) == 0 {
		return neutralScore
	}

	for _, p := range prefs {
		if p == sector {
			return 100
		}
	}
	for _, p := range prefs {
		if strings.Contains(p, sector) || strings.Contains(sector, p) {
			return 80
		}
	}
	for _, p := range prefs {
		if sectorsRelated(sector, p) {
			return 60
		}
	}
	return 30
}

// CulturalFit averages the sub-factors both sides actually describe. Each
// sub-factor is worth 25, so the mean is scaled by 4.
func CulturalFit(c candidate.Profile, j opportunity.Opportunity) int {
	if c.CulturalAssessment == nil || j.CulturalRequirements == nil {
		return neutralScore
	}
	cp := c.CulturalAssessment
	req := j.CulturalRequirements

	total := 0.0
	factors := 0

	if a, b := normalize(cp.LeadershipStyle), normalize(req.LeadershipStyle); a != "" && b != "" {
		factors++
		total += exactOrPartial(a, b)
	}
	if a, b := normalize(cp.DecisionMaking), normalize(req.DecisionMaking); a != "" && b != "" {
		factors++
		total += exactOrPartial(a, b)
	}
	if a, b := normalizeList(cp.Values), normalizeList(req.Values); len(a) > 0 && len(b) > 0 {
		factors++
		total += 25 * overlapFraction(a, b)
	}
	if a, b := normalizeList(cp.WorkingStyle), normalizeList(req.WorkingStyle); len(a) > 0 && len(b) > 0 {
		factors++
		if anyKeywordMatch(a, b) {
			total += 25
		} else {
			total += 10
		}
	}

	if factors == 0 {
		return neutralScore
	}
	return clampScore(total / float64(factors) * 4)
}

// CompensationAlignment assumes both ranges are quoted in comparable figures;
// no currency conversion is applied.
func CompensationAlignment(c candidate.Profile, j opportunity.Opportunity) int {
	if c.Compensation == nil || j.Compensation == nil {
		return neutralScore
	}
	cc, jc := normalize(c.Compensation.Currency), normalize(j.Compensation.Currency)
	if cc == "" || jc == "" {
		return neutralScore
	}
	if cc != jc {
		return 40
	}

	cMin, cMax := rangeBounds(c.Compensation.Min, c.Compensation.Max)
	jMin, jMax := rangeBounds(j.Compensation.Min, j.Compensation.Max)
	if cMax <= 0 || jMax <= 0 {
		return neutralScore
	}

	lo := math.Max(cMin, jMin)
	hi := math.Min(cMax, jMax)
	switch {
	case hi >= lo:
		minRange := math.Max(1, math.Min(cMax-cMin, jMax-jMin))
		ratio := math.Min(1, (hi-lo)/minRange)
		return clampScore(60 + 40*ratio)
	case cMin > jMax:
		gapRatio := (cMin - jMax) / math.Max(1, jMax)
		return clampScore(math.Max(0, 50-100*gapRatio))
	case cMax < jMin:
		return 80
	default:
		return 30
	}
}

func GeographicPreference(c candidate.Profile, j opportunity.Opportunity) int {
	jobLoc := normalize(j.Location)
	if j.RemoteAvailable || strings.Contains(jobLoc, "remote") {
		return 100
	}

	candLoc := normalize(c.Location)
	if candLoc == "" || jobLoc == "" {
		return neutralScore
	}
	if candLoc == jobLoc {
		return 100
	}
	if strings.Contains(candLoc, jobLoc) || strings.Contains(jobLoc, candLoc) {
		return 90
	}
	if cc, jc := countryOf(candLoc), countryOf(jobLoc); cc != "" && cc == jc {
		return 70
	}
	switch c.TravelWillingness {
	case candidate.TravelMedium, candidate.TravelHigh:
		return 60
	}
	return 30
}

func exactOrPartial(a, b string) float64 {
	if a == b {
		return 25
	}
	return 10
}

func overlapFraction(have, want []string) float64 {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	hit := 0
	for _, w := range want {
		if _, ok := set[w]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}

func anyKeywordMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.Contains(h, w) || strings.Contains(w, h) {
				return true
			}
		}
	}
	return false
}

// rangeBounds treats an open-ended range (max unset) as a single point.
func rangeBounds(minV, maxV float64) (float64, float64) {
	if maxV <= 0 {
		return minV, minV
	}
	return minV, maxV
}

func countryOf(loc string) string {
	idx := strings.LastIndex(loc, ",")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(loc[idx+1:])
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return neutralScore
	}
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
