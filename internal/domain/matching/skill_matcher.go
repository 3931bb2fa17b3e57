package matching

import "strings"

const (
	creditExact     = 1.0
	creditSubstring = 0.7
	creditSynonym   = 0.5
)

// MatchSkills returns the summed credit of every target skill against the
// candidate's skills. The caller normalizes by the number of targets.
func MatchSkills(candidateSkills []string, targetSkills []string) float64 {
	cand := normalizeList(candidateSkills)
	if len(cand) == 0 {
		return 0
	}

	total := 0.0
	for _, t := range targetSkills {
		total += skillCredit(cand, normalize(t))
	}
	return total
}

func skillCredit(cand []string, target string) float64 {
	if target == "" {
		return 0
	}
	for _, c := range cand {
		if c == target {
			return creditExact
		}
	}
	for _, c := range cand {
		if strings.Contains(c, target) || strings.Contains(target, c) {
			return creditSubstring
		}
	}
	for _, syn := range synonymsFor(target) {
		for _, c := range cand {
			if strings.Contains(c, syn) {
				return creditSynonym
			}
		}
	}
	return 0
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// normalizeList lowercases and drops empty entries; an empty string would
// otherwise be a substring of everything.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = normalize(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
