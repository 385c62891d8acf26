package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/sportops/sportops/sports"
)

func TestSearchTeams_DecodesTeams(t *testing.T) {
	f := &fakeFetcher{payload: envelope(`[
		{"team":{"id":33,"name":"Manchester United","code":"MUN","country":"England","founded":1878,"national":false,"logo":"https://example/33.png"},
		 "venue":{"id":556,"name":"Old Trafford","city":"Manchester","capacity":76212,"surface":"grass"}}
	]`)}
	svc := newTestService(t, f)

	teams, err := svc.SearchTeams(context.Background(), TeamSearchQuery{Search: "manchester"})
	if err != nil {
		t.Fatalf("SearchTeams failed: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("len(teams) = %d, want 1", len(teams))
	}
	got := teams[0]
	if got.Team.ID != 33 || got.Team.Name != "Manchester United" || got.Team.Code != "MUN" {
		t.Errorf("team = %+v, want Manchester United", got.Team)
	}
	if got.Venue.Name != "Old Trafford" || got.Venue.Capacity != 76212 {
		t.Errorf("venue = %+v, want Old Trafford", got.Venue)
	}
}

func TestSearchTeams_ParamsNormalized(t *testing.T) {
	f := &fakeFetcher{payload: envelope(`[]`)}
	svc := newTestService(t, f)

	_, err := svc.SearchTeams(context.Background(), TeamSearchQuery{
		League: 39,
		Season: 2023,
		Search: "united",
	})
	if err != nil {
		t.Fatalf("SearchTeams failed: %v", err)
	}
	if f.family != sports.FamilyTeams {
		t.Errorf("family = %q, want teams", f.family)
	}
	want := map[string]string{"league": "39", "season": "2023", "search": "united"}
	if len(f.params) != len(want) {
		t.Fatalf("params = %v, want %v", f.params, want)
	}
	for k, v := range want {
		if f.params[k] != v {
			t.Errorf("params[%q] = %q, want %q", k, f.params[k], v)
		}
	}
}

func TestTeamSearchQuery_Validation(t *testing.T) {
	cases := []struct {
		name  string
		query TeamSearchQuery
		ok    bool
	}{
		{"empty query", TeamSearchQuery{}, false},
		{"short search", TeamSearchQuery{Search: "ab"}, false},
		{"search of spaces", TeamSearchQuery{Search: "a  "}, false},
		{"minimal search", TeamSearchQuery{Search: "ars"}, true},
		{"id only", TeamSearchQuery{ID: 33}, true},
		{"league without season", TeamSearchQuery{League: 39}, false},
		{"league with season", TeamSearchQuery{League: 39, Season: 2023}, true},
		{"bad code length", TeamSearchQuery{Code: "MANU"}, false},
		{"valid code", TeamSearchQuery{Code: "MUN"}, true},
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
