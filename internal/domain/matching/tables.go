package matching

// TablesVersion identifies the synonym and related-sector data below. Bump it when
// the tables change so persisted scores can be recalculated.
const TablesVersion = "2024.1"

// SkillSynonyms maps a lowercased target skill to phrases that imply it.
var SkillSynonyms = map[string][]string{
	"leadership":      {"management", "leading", "supervision"},
	"strategy":        {"strategic planning", "roadmap", "vision"},
	"finance":         {"accounting", "financial", "treasury", "cfo"},
	"governance":      {"board", "compliance", "oversight"},
	"risk management": {"audit", "compliance", "controls"},
	"marketing":       {"brand", "advertising", "growth"},
	"operations":      {"logistics", "supply chain", "process improvement"},
	"communication":   {"public speaking", "presentation", "stakeholder"},
	"mergers":         {"acquisitions", "m&a", "integration"},
	"fundraising":     {"investor relations", "capital raising", "venture"},
}

// RelatedSectors lists sectors considered adjacent. Lookups are symmetric.
var RelatedSectors = map[string][]string{
	"technology":    {"fintech", "software", "digital", "saas"},
	"finance":       {"banking", "fintech", "insurance", "investment"},
	"healthcare":    {"pharma", "biotech", "medical", "life sciences"},
	"energy":        {"utilities", "renewables", "oil and gas"},
	"retail":        {"consumer", "ecommerce", "fmcg"},
	"manufacturing": {"industrial", "automotive", "engineering"},
	"education":     {"edtech", "academia"},
	"nonprofit":     {"charity", "ngo", "public sector"},
}

func synonymsFor(skill string) []string {
	if v, ok := SkillSynonyms[skill]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}

func sectorsRelated(a, b string) bool {
	for _, s := range RelatedSectors[a] {
		if s == b {
			return true
		}
	}
	for _, s := range RelatedSectors[b] {
		if s == a {
			return true
		}
	}
	return false
}
