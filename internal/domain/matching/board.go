package matching

import (
	"math"

	"talent-match/internal/domain/candidate"
)

// BoardExperienceWeight rates breadth (seat count and distinct sectors) and
// currency (any seat still held) of governance tenure in [0,1].
func BoardExperienceWeight(tenures []candidate.BoardTenure) float64 {
	if len(tenures) == 0 {
		return 0
	}

	sectors := make(map[string]struct{}, len(tenures))
	current := false
	for _, t := range tenures {
		if s := normalize(t.Sector); s != "" {
			sectors[s] = struct{}{}
		}
		if t.IsCurrent {
			current = true
		}
	}

	w := 0.4 * math.Min(float64(len(tenures)), 5) / 5
	w += 0.3 * math.Min(float64(len(sectors)), 3) / 3
	if current {
		w += 0.3
	}
	w = math.Round(w*100) / 100
	if w > 1 {
		return 1
	}
	return w
}
