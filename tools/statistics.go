package tools

import (
	"context"
	"encoding/json"

	"github.com/sportops/sportops/sports"
)

// TeamStatisticsQuery selects one team's aggregate record in one league
// season. League, Season, and Team are all required.
type TeamStatisticsQuery struct {
	League int
	Season int
	Team   int
	Date   string // optional YYYY-MM-DD cutoff; stats up to that date
}

func (q TeamStatisticsQuery) validate() error {
	if q.League == 0 {
		return invalid("league", "is required")
	}
	if q.Season == 0 {
		return invalid("season", "is required")
	}
	if q.Team == 0 {
		return invalid("team", "is required")
	}
	return checkDate("date", q.Date)
}

func (q TeamStatisticsQuery) params() params {
	p := params{}
	p.setInt("league", q.League)
	p.setInt("season", q.Season)
	p.setInt("team", q.Team)
	p.setString("date", q.Date)
	return p
}

// HomeAwayTotal splits a tally by venue.
type HomeAwayTotal struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

// TeamStatistics is one team's aggregate record in a league season. The
// minute-by-minute and lineup breakdowns keep the upstream shape.
type TeamStatistics struct {
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
		Flag    string `json:"flag"`
		Season  int    `json:"season"`
	} `json:"league"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Form     string `json:"form"` // recent results, newest last, e.g. "WWDLW"
	Fixtures struct {
		Played HomeAwayTotal `json:"played"`
		Wins   HomeAwayTotal `json:"wins"`
		Draws  HomeAwayTotal `json:"draws"`
		Loses  HomeAwayTotal `json:"loses"`
	} `json:"fixtures"`
	Goals struct {
		For     GoalsBreakdown `json:"for"`
		Against GoalsBreakdown `json:"against"`
	} `json:"goals"`
	Biggest     json.RawMessage `json:"biggest"`
	CleanSheet  HomeAwayTotal   `json:"clean_sheet"`
	FailedScore HomeAwayTotal   `json:"failed_to_score"`
	Penalty     json.RawMessage `json:"penalty"`
	Lineups     json.RawMessage `json:"lineups"`
	Cards       json.RawMessage `json:"cards"`
}

// GoalsBreakdown is a goal tally with its per-minute distribution.
type GoalsBreakdown struct {
	Total   HomeAwayTotal `json:"total"`
	Average struct {
		Home  string `json:"home"`
		Away  string `json:"away"`
		Total string `json:"total"`
	} `json:"average"`
	Minute json.RawMessage `json:"minute"`
}

// GetTeamStatistics returns the team's aggregate record for the selection.
// found is false when the upstream has no data for it.
func (s *Service) GetTeamStatistics(ctx context.Context, q TeamStatisticsQuery) (TeamStatistics, bool, error) {
	if err := q.validate(); err != nil {
		return TeamStatistics{}, false, err
	}
	env, err := s.run(ctx, "team_statistics", sports.FamilyTeamStatistics, q.params())
	if err != nil {
		return TeamStatistics{}, false, err
	}
	return decodeObject[TeamStatistics](env, sports.FamilyTeamStatistics)
}
