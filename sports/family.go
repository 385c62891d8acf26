package sports

// Family identifies a logical category of upstream query. Two requests with
// the same family and the same normalized parameters are cache-interchangeable.
type Family string

const (
	FamilyTeams             Family = "teams"
	FamilyFixtures          Family = "fixtures"
	FamilyTeamStatistics    Family = "team_statistics"
	FamilyStandings         Family = "standings"
	FamilyHeadToHead        Family = "head2head"
	FamilyFixtureStatistics Family = "fixture_statistics"
	FamilyFixtureEvents     Family = "fixture_events"
	FamilyFixtureLineups    Family = "fixture_lineups"
	FamilyPredictions       Family = "predictions"
	FamilyLeagues           Family = "leagues"
	FamilySeasons           Family = "seasons"
)

// endpoints maps each family to its API-Sports v3 path.
var endpoints = map[Family]string{
	FamilyTeams:             "/teams",
	FamilyFixtures:          "/fixtures",
	FamilyTeamStatistics:    "/teams/statistics",
	FamilyStandings:         "/standings",
	FamilyHeadToHead:        "/fixtures/headtohead",
	FamilyFixtureStatistics: "/fixtures/statistics",
	FamilyFixtureEvents:     "/fixtures/events",
	FamilyFixtureLineups:    "/fixtures/lineups",
	FamilyPredictions:       "/predictions",
	FamilyLeagues:           "/leagues",
	FamilySeasons:           "/leagues/seasons",
}

// Endpoint returns the upstream path for the family and whether the family
// is known.
func (f Family) Endpoint() (string, bool) {
	p, ok := endpoints[f]
	return p, ok
}

// Valid reports whether the family is one the client can serve.
func (f Family) Valid() bool {
	_, ok := endpoints[f]
	return ok
}

func (f Family) String() string {
	return string(f)
}
