package tools

import (
	"context"

	"github.com/sportops/sportops/sports"
)

// LeagueQuery selects leagues and cups. All fields are optional; an empty
// query lists every competition the subscription covers.
type LeagueQuery struct {
	ID      int
	Name    string
	Country string
	Code    string // two-letter country code, e.g. "GB"
	Season  int
	Team    int
	Type    string // "league" or "cup"
	Current bool   // only competitions with a season underway
	Search  string // free text over name and country, min 3 characters
	Last    int    // the N most recently updated competitions, 1..99
}

func (q LeagueQuery) validate() error {
	if q.Type != "" && q.Type != "league" && q.Type != "cup" {
		return invalid("type", `must be "league" or "cup"`)
	}
	if err := checkSearch("search", q.Search); err != nil {
		return err
	}
	return checkWindow("last", q.Last)
}

func (q LeagueQuery) params() params {
	p := params{}
	p.setInt("id", q.ID)
	p.setString("name", q.Name)
	p.setString("country", q.Country)
	p.setString("code", q.Code)
	p.setInt("season", q.Season)
	p.setInt("team", q.Team)
	p.setString("type", q.Type)
	p.setBool("current", q.Current)
	p.setString("search", q.Search)
	p.setInt("last", q.Last)
	return p
}

// LeagueSeason is one season of a competition and the endpoint coverage the
// subscription has for it.
type LeagueSeason struct {
	Year     int    `json:"year"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Current  bool   `json:"current"`
	Coverage struct {
		Standings   bool `json:"standings"`
		TopScorers  bool `json:"top_scorers"`
		Predictions bool `json:"predictions"`
		Fixtures    struct {
			Events            bool `json:"events"`
			Lineups           bool `json:"lineups"`
			StatisticsFixture bool `json:"statistics_fixtures"`
		} `json:"fixtures"`
	} `json:"coverage"`
}

// League is one competition with its country and season history.
type League struct {
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
	Seasons []LeagueSeason `json:"seasons"`
}

// GetLeagues returns the competitions matching the query.
func (s *Service) GetLeagues(ctx context.Context, q LeagueQuery) ([]League, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "leagues", sports.FamilyLeagues, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[League](env, sports.FamilyLeagues)
}

// GetSeasons returns every season year the upstream knows about.
func (s *Service) GetSeasons(ctx context.Context) ([]int, error) {
	env, err := s.run(ctx, "seasons", sports.FamilySeasons, params{})
	if err != nil {
		return nil, err
	}
	return decodeList[int](env, sports.FamilySeasons)
}
