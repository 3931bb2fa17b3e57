package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name      string
		candidate []string
		targets   []string
		want      float64
	}{
		{name: "exact case-insensitive", candidate: []string{"Python", "Leadership"}, targets: []string{"python", "strategy"}, want: 1.0},
		{name: "preferred exact", candidate: []string{"Python", "Leadership"}, targets: []string{"leadership"}, want: 1.0},
		{name: "substring", candidate: []string{"Python programming"}, targets: []string{"python"}, want: 0.7},
		{name: "reverse substring", candidate: []string{"go"}, targets: []string{"go programming"}, want: 0.7},
		{name: "synonym", candidate: []string{"People Management"}, targets: []string{"Leadership"}, want: 0.5},
		{name: "no match", candidate: []string{"Python"}, targets: []string{"Accounting"}, want: 0},
		{name: "empty candidate skill ignored", candidate: []string{"", "  "}, targets: []string{"rust"}, want: 0},
		{name: "empty target ignored", candidate: []string{"rust"}, targets: []string{""}, want: 0},
		{name: "no candidate skills", candidate: nil, targets: []string{"rust"}, want: 0},
		{name: "sum across targets", candidate: []string{"finance", "board governance"}, targets: []string{"finance", "governance", "mergers"}, want: 1.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MatchSkills(tt.candidate, tt.targets), 1e-9)
		})
	}
}

func TestSectorsRelatedIsSymmetric(t *testing.T) {
	for sector, related := range RelatedSectors {
		for _, r := range related {
			assert.True(t, sectorsRelated(sector, r), "%s -> %s", sector, r)
			assert.True(t, sectorsRelated(r, sector), "%s -> %s", r, sector)
		}
	}
}

func TestSynonymsForReturnsCopy(t *testing.T) {
	got := synonymsFor("leadership")
	got[0] = "mutated"
	assert.Equal(t, "management", SkillSynonyms["leadership"][0])
	assert.Empty(t, synonymsFor("unknown"))
}
