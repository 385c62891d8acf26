package tools

import (
	"context"

	"github.com/sportops/sportops/sports"
)

// StandingsQuery selects a league table. Season is required; narrow with
// League, Team, or both.
type StandingsQuery struct {
	Season int // required
	League int
	Team   int
}

func (q StandingsQuery) validate() error {
	if q.Season == 0 {
		return invalid("season", "is required")
	}
	if q.League == 0 && q.Team == 0 {
		return invalid("query", "league or team is required")
	}
	return nil
}

func (q StandingsQuery) params() params {
	p := params{}
	p.setInt("season", q.Season)
	p.setInt("league", q.League)
	p.setInt("team", q.Team)
	return p
}

// StandingRecord is one team's tally within a table section.
type StandingRecord struct {
	Played int `json:"played"`
	Win    int `json:"win"`
	Draw   int `json:"draw"`
	Lose   int `json:"lose"`
	Goals  struct {
		For     int `json:"for"`
		Against int `json:"against"`
	} `json:"goals"`
}

// StandingRow is one team's position in a league table.
type StandingRow struct {
	Rank int `json:"rank"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Points      int            `json:"points"`
	GoalsDiff   int            `json:"goalsDiff"`
	Group       string         `json:"group"`
	Form        string         `json:"form"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	All         StandingRecord `json:"all"`
	Home        StandingRecord `json:"home"`
	Away        StandingRecord `json:"away"`
	Update      string         `json:"update"`
}

// Standings is one league's tables. The inner slice nesting mirrors the
// upstream: a league can carry several tables (groups, conference splits).
type Standings struct {
	League struct {
		ID        int             `json:"id"`
		Name      string          `json:"name"`
		Country   string          `json:"country"`
		Logo      string          `json:"logo"`
		Flag      string          `json:"flag"`
		Season    int             `json:"season"`
		Standings [][]StandingRow `json:"standings"`
	} `json:"league"`
}

// GetStandings returns the league tables matching the query.
func (s *Service) GetStandings(ctx context.Context, q StandingsQuery) ([]Standings, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "standings", sports.FamilyStandings, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[Standings](env, sports.FamilyStandings)
}
