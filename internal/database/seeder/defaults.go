package seeder

func Defaults() []Seeder {
	return []Seeder{
		CandidatesSeeder{Items: DemoCandidates()},
		OpportunitiesSeeder{Items: DemoOpportunities()},
	}
}
