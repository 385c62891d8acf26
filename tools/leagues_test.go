package tools

import (
	"context"
	"errors"
	"testing"
)

func TestGetLeagues_DecodesLeagues(t *testing.T) {
	f := &fakeFetcher{payload: envelope(`[
		{"league":{"id":39,"name":"Premier League","type":"league"},
		 "country":{"name":"England","code":"GB"},
		 "seasons":[{"year":2023,"start":"2023-08-11","end":"2024-05-19","current":true,
		             "coverage":{"standings":true,"predictions":true,
		                         "fixtures":{"events":true,"lineups":true,"statistics_fixtures":true}}}]}
	]`)}
	svc := newTestService(t, f)

	leagues, err := svc.GetLeagues(context.Background(), LeagueQuery{Country: "England", Current: true})
	if err != nil {
		t.Fatalf("GetLeagues failed: %v", err)
	}
	if len(leagues) != 1 {
		t.Fatalf("len(leagues) = %d, want 1", len(leagues))
	}
	got := leagues[0]
	if got.League.Name != "Premier League" || got.League.Type != "league" {
		t.Errorf("league = %+v, want Premier League", got.League)
	}
	if len(got.Seasons) != 1 || !got.Seasons[0].Current || !got.Seasons[0].Coverage.Standings {
		t.Errorf("seasons = %+v, want one current season with standings coverage", got.Seasons)
	}
	if f.params["current"] != "true" {
		t.Errorf("params = %v, want current=true", f.params)
	}
}

func TestLeagueQuery_Validation(t *testing.T) {
	cases := []struct {
		name  string
		query LeagueQuery
		ok    bool
	}{
		{"empty is fine", LeagueQuery{}, true},
		{"bad type", LeagueQuery{Type: "tournament"}, false},
		{"cup type", LeagueQuery{Type: "cup"}, true},
		{"short search", LeagueQuery{Search: "pl"}, false},
		{"window too large", LeagueQuery{Last: 150}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.validate()
			if tc.ok && err != nil {
				t.Errorf("validate() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("validate() = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestGetSeasons_DecodesYears(t *testing.T) {
	f := &fakeFetcher{payload: envelope(`[2021,2022,2023]`)}
	svc := newTestService(t, f)

	seasons, err := svc.GetSeasons(context.Background())
	if err != nil {
		t.Fatalf("GetSeasons failed: %v", err)
	}
	if len(seasons) != 3 || seasons[2] != 2023 {
		t.Errorf("seasons = %v, want [2021 2022 2023]", seasons)
	}
	if len(f.params) != 0 {
		t.Errorf("params = %v, want empty", f.params)
	}
}
