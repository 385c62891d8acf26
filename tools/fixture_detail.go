package tools

import (
	"context"
	"encoding/json"

	"github.com/sportops/sportops/sports"
)

// FixtureDetailQuery selects per-fixture detail (statistics, events,
// lineups). Fixture is required; Team narrows to one side.
type FixtureDetailQuery struct {
	Fixture int // required
	Team    int
	Player  int    // events and lineups only
	Type    string // statistics and events only, e.g. "Goal"
}

func (q FixtureDetailQuery) validate() error {
	if q.Fixture == 0 {
		return invalid("fixture", "is required")
	}
	return nil
}

func (q FixtureDetailQuery) params() params {
	p := params{}
	p.setInt("fixture", q.Fixture)
	p.setInt("team", q.Team)
	p.setInt("player", q.Player)
	p.setString("type", q.Type)
	return p
}

// FixtureTeamStats is one side's in-match statistic lines (shots, possession
// and so on). Values arrive as numbers or percent strings, so they stay raw.
type FixtureTeamStats struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Statistics []struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"statistics"`
}

// GetFixtureStatistics returns per-team in-match statistics for one fixture.
func (s *Service) GetFixtureStatistics(ctx context.Context, q FixtureDetailQuery) ([]FixtureTeamStats, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "fixture_statistics", sports.FamilyFixtureStatistics, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[FixtureTeamStats](env, sports.FamilyFixtureStatistics)
}

// FixtureEvent is one in-match incident: goal, card, substitution, VAR call.
type FixtureEvent struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Player struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Assist struct {
		ID   *int   `json:"id"`
		Name string `json:"name"`
	} `json:"assist"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Comments string `json:"comments"`
}

// GetFixtureEvents returns the incident timeline for one fixture.
func (s *Service) GetFixtureEvents(ctx context.Context, q FixtureDetailQuery) ([]FixtureEvent, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "fixture_events", sports.FamilyFixtureEvents, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[FixtureEvent](env, sports.FamilyFixtureEvents)
}

// LineupPlayer is one player slot in a lineup.
type LineupPlayer struct {
	Player struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Number int    `json:"number"`
		Pos    string `json:"pos"`
		Grid   string `json:"grid"`
	} `json:"player"`
}

// FixtureLineup is one side's starting XI, bench, and staff for a fixture.
type FixtureLineup struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Coach struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"coach"`
	Formation   string         `json:"formation"`
	StartXI     []LineupPlayer `json:"startXI"`
	Substitutes []LineupPlayer `json:"substitutes"`
}

// GetFixtureLineups returns both sides' lineups for one fixture.
func (s *Service) GetFixtureLineups(ctx context.Context, q FixtureDetailQuery) ([]FixtureLineup, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	env, err := s.run(ctx, "fixture_lineups", sports.FamilyFixtureLineups, q.params())
	if err != nil {
		return nil, err
	}
	return decodeList[FixtureLineup](env, sports.FamilyFixtureLineups)
}

// PredictionQuery selects the model forecast for one upcoming fixture.
type PredictionQuery struct {
	Fixture int // required
}

// Prediction is the upstream forecast for one fixture. The advice line and
// percent split are typed; the comparison matrix keeps the upstream shape.
type Prediction struct {
	Predictions struct {
		Winner struct {
			ID      *int   `json:"id"`
			Name    string `json:"name"`
			Comment string `json:"comment"`
		} `json:"winner"`
		WinOrDraw bool   `json:"win_or_draw"`
		UnderOver string `json:"under_over"`
		Advice    string `json:"advice"`
		Percent   struct {
			Home string `json:"home"`
			Draw string `json:"draw"`
			Away string `json:"away"`
		} `json:"percent"`
	} `json:"predictions"`
	Comparison json.RawMessage `json:"comparison"`
	Teams      json.RawMessage `json:"teams"`
	H2H        []Fixture       `json:"h2h"`
}

// GetPredictions returns the forecast for one fixture.
func (s *Service) GetPredictions(ctx context.Context, q PredictionQuery) ([]Prediction, error) {
	if q.Fixture == 0 {
		return nil, invalid("fixture", "is required")
	}
	p := params{}
	p.setInt("fixture", q.Fixture)
	env, err := s.run(ctx, "predictions", sports.FamilyPredictions, p)
	if err != nil {
		return nil, err
	}
	return decodeList[Prediction](env, sports.FamilyPredictions)
}
