package tools

import (
	"context"

	"github.com/sportops/sportops/sports"
)

// FixtureQuery selects fixtures. At least one field must be set. Live
// queries bypass the cache downstream because their payloads change from
// second to second.
type FixtureQuery struct {
	ID       int    // single fixture ID
	IDs      string // dash-separated fixture IDs, e.g. "215662-215663"
	Live     string // "all" or a dash-separated league ID list
	Date     string // YYYY-MM-DD
	League   int
	Season   int    // required with League or Team
	Team     int
	Last     int    // the team's N most recent fixtures, 1..99
	Next     int    // the team's N upcoming fixtures, 1..99
	From     string // YYYY-MM-DD, with To bounds a date range
	To       string // YYYY-MM-DD
	Round    string // e.g. "Regular Season - 10"
	Status   string // short status code or dash-separated list, e.g. "NS-FT"
	Venue    int
	Timezone string // IANA name for returned kickoff times
}

func (q FixtureQuery) validate() error {
	if q == (FixtureQuery{}) {
		return invalid("query", "at least one fixture parameter is required")
	}
	if err := checkDate("date", q.Date); err != nil {
		return err
	}
	if err := checkDate("from", q.From); err != nil {
		return err
	}
	if err := checkDate("to", q.To); err != nil {
		return err
	}
	if err := checkWindow("last", q.Last); err != nil {
		return err
	}
	if err := checkWindow("next", q.Next); err != nil {
		return err
	}
	if q.ID == 0 && q.IDs == "" && q.Season == 0 {
		if q.League != 0 {
			return invalid("season", "is required when league is set")
		}
		if q.Team != 0 && q.Last == 0 && q.Next == 0 && q.Date == "" {
			return invalid("season", "is required when team is set without a date or window")
		}
	}
	return nil
}

func (q FixtureQuery) params() params {
	p := params{}
	p.setInt("id", q.ID)
	p.setString("ids", q.IDs)
	p.setString("live", q.Live)
	p.setString("date", q.Date)
	p.setInt("league", q.League)
	p.setInt("season", q.Season)
	p.setInt("team", q.Team)
	p.setInt("last", q.Last)
	p.setInt("next", q.Next)
	p.setString("from", q.From)
	p.setString("to", q.To)
	p.setString("round", q.Round)
	p.setString("status", q.Status)
	p.setInt("venue", q.Venue)
	p.setString("timezone", q.Timezone)
	return p
}

// Score holds one goals pairing; either side is nil before the phase exists.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// FixtureSide is one of the two teams in a fixture.
type FixtureSide struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

// Fixture is one match record.
type Fixture struct {
	Fixture struct {
		ID        int    `json:"id"`
		Referee   string `json:"referee"`
		Timezone  string `json:"timezone"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Venue     struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
		Flag    string `json:"flag"`
		Season  int    `json:"season"`
		Round   string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home FixtureSide `json:"home"`
		Away FixtureSide `json:"away"`
	} `json:"teams"`
	Goals Score `json:"goals"`
	Score struct {
		Halftime  Score `json:"halftime"`
		Fulltime  Score `json:"fulltime"`
		Extratime Score `json:"extratime"`
		Penalty   Score `json:"penalty"`
	} `json:"score"`
}

// Fixtures returns the fixtures matching the query.
func (s *Service) Fixtures(ctx context.Context, q FixtureQuery) ([]Fixture, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "fixture_lookup", sports.FamilyFixtures, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[Fixture](env, sports.FamilyFixtures)
}

// HeadToHeadQuery selects the meeting history between two teams.
type HeadToHeadQuery struct {
	H2H      string // required, "teamID-teamID"
	Date     string // YYYY-MM-DD
	League   int
	Season   int
	Last     int // 1..99
	Next     int // 1..99
	From     string // YYYY-MM-DD
	To       string // YYYY-MM-DD
	Status   string
	Venue    int
	Timezone string
}

func (q HeadToHeadQuery) validate() error {
	if err := checkH2H(q.H2H); err != nil {
		return err
	}
	if err := checkDate("date", q.Date); err != nil {
		return err
	}
	if err := checkDate("from", q.From); err != nil {
		return err
	}
	if err := checkDate("to", q.To); err != nil {
		return err
	}
	if err := checkWindow("last", q.Last); err != nil {
		return err
	}
	return checkWindow("next", q.Next)
}

func (q HeadToHeadQuery) params() params {
	p := params{}
	p.setString("h2h", q.H2H)
	p.setString("date", q.Date)
	p.setInt("league", q.League)
	p.setInt("season", q.Season)
	p.setInt("last", q.Last)
	p.setInt("next", q.Next)
	p.setString("from", q.From)
	p.setString("to", q.To)
	p.setString("status", q.Status)
	p.setInt("venue", q.Venue)
	p.setString("timezone", q.Timezone)
	return p
}

// HeadToHead returns past and scheduled meetings between two teams.
func (s *Service) HeadToHead(ctx context.Context, q HeadToHeadQuery) ([]Fixture, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "head_to_head", sports.FamilyHeadToHead, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[Fixture](env, sports.FamilyHeadToHead)
}
