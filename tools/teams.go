package tools

import (
	"context"

	"github.com/sportops/sportops/sports"
)

// TeamSearchQuery selects teams by identity, competition, or free text. At
// least one field must be set.
type TeamSearchQuery struct {
	ID      int    // team ID
	Name    string // exact team name
	League  int    // league ID
	Season  int    // four-digit season year, e.g. 2023
	Country string
	Code    string // three-letter team code, e.g. "MUN"
	Venue   int    // venue ID
	Search  string // free text over name and country, min 3 characters
}

func (q TeamSearchQuery) validate() error {
	if q == (TeamSearchQuery{}) {
		return invalid("query", "at least one search parameter is required")
	}
	if err := checkSearch("search", q.Search); err != nil {
		return err
	}
	if q.Code != "" && len(q.Code) != 3 {
		return invalid("code", "must be a three-letter team code")
	}
	if q.League != 0 && q.Season == 0 {
		return invalid("season", "is required when league is set")
	}
	return nil
}

func (q TeamSearchQuery) params() params {
	p := params{}
	p.setInt("id", q.ID)
	p.setString("name", q.Name)
	p.setInt("league", q.League)
	p.setInt("season", q.Season)
	p.setString("country", q.Country)
	p.setString("code", q.Code)
	p.setInt("venue", q.Venue)
	p.setString("search", q.Search)
	return p
}

// Team is one team record with its home venue.
type Team struct {
	Team struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Code     string `json:"code"`
		Country  string `json:"country"`
		Founded  int    `json:"founded"`
		National bool   `json:"national"`
		Logo     string `json:"logo"`
	} `json:"team"`
	Venue struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Address  string `json:"address"`
		City     string `json:"city"`
		Capacity int    `json:"capacity"`
		Surface  string `json:"surface"`
		Image    string `json:"image"`
	} `json:"venue"`
}

// SearchTeams returns the teams matching the query.
func (s *Service) SearchTeams(ctx context.Context, q TeamSearchQuery) ([]Team, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "team_search", sports.FamilyTeams, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[Team](env, sports.FamilyTeams)
}
