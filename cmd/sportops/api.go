package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sportops/sportops/fetch"
	"github.com/sportops/sportops/tools"
)

// registerQueryHandlers exposes the structured query surface as a small JSON
// API. Each endpoint mirrors one tool and takes its parameters as URL query
// values.
func registerQueryHandlers(mux *http.ServeMux, svc *tools.Service) {
	mux.HandleFunc("GET /v1/teams", func(w http.ResponseWriter, r *http.Request) {
		q := tools.TeamSearchQuery{
			ID:      qInt(r, "id"),
			Name:    r.URL.Query().Get("name"),
			League:  qInt(r, "league"),
			Season:  qInt(r, "season"),
			Country: r.URL.Query().Get("country"),
			Code:    r.URL.Query().Get("code"),
			Venue:   qInt(r, "venue"),
			Search:  r.URL.Query().Get("search"),
		}
		teams, err := svc.SearchTeams(r.Context(), q)
		respond(w, teams, err)
	})

	mux.HandleFunc("GET /v1/fixtures", func(w http.ResponseWriter, r *http.Request) {
		q := tools.FixtureQuery{
			ID:       qInt(r, "id"),
			IDs:      r.URL.Query().Get("ids"),
			Live:     r.URL.Query().Get("live"),
			Date:     r.URL.Query().Get("date"),
			League:   qInt(r, "league"),
			Season:   qInt(r, "season"),
			Team:     qInt(r, "team"),
			Last:     qInt(r, "last"),
			Next:     qInt(r, "next"),
			From:     r.URL.Query().Get("from"),
			To:       r.URL.Query().Get("to"),
			Round:    r.URL.Query().Get("round"),
			Status:   r.URL.Query().Get("status"),
			Venue:    qInt(r, "venue"),
			Timezone: r.URL.Query().Get("timezone"),
		}
		fixtures, err := svc.Fixtures(r.Context(), q)
		respond(w, fixtures, err)
	})

	mux.HandleFunc("GET /v1/fixtures/head2head", func(w http.ResponseWriter, r *http.Request) {
		q := tools.HeadToHeadQuery{
			H2H:    r.URL.Query().Get("h2h"),
			League: qInt(r, "league"),
			Season: qInt(r, "season"),
			Last:   qInt(r, "last"),
			Next:   qInt(r, "next"),
			Status: r.URL.Query().Get("status"),
		}
		fixtures, err := svc.HeadToHead(r.Context(), q)
		respond(w, fixtures, err)
	})

	mux.HandleFunc("GET /v1/teams/statistics", func(w http.ResponseWriter, r *http.Request) {
		q := tools.TeamStatisticsQuery{
			League: qInt(r, "league"),
			Season: qInt(r, "season"),
			Team:   qInt(r, "team"),
			Date:   r.URL.Query().Get("date"),
		}
		stats, found, err := svc.GetTeamStatistics(r.Context(), q)
		if err == nil && !found {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no statistics for this selection"})
			return
		}
		respond(w, stats, err)
	})

	mux.HandleFunc("GET /v1/standings", func(w http.ResponseWriter, r *http.Request) {
		q := tools.StandingsQuery{
			Season: qInt(r, "season"),
			League: qInt(r, "league"),
			Team:   qInt(r, "team"),
		}
		standings, err := svc.GetStandings(r.Context(), q)
		respond(w, standings, err)
	})

	mux.HandleFunc("GET /v1/leagues", func(w http.ResponseWriter, r *http.Request) {
		q := tools.LeagueQuery{
			ID:      qInt(r, "id"),
			Name:    r.URL.Query().Get("name"),
			Country: r.URL.Query().Get("country"),
			Code:    r.URL.Query().Get("code"),
			Season:  qInt(r, "season"),
			Team:    qInt(r, "team"),
			Type:    r.URL.Query().Get("type"),
			Current: r.URL.Query().Get("current") == "true",
			Search:  r.URL.Query().Get("search"),
			Last:    qInt(r, "last"),
		}
		leagues, err := svc.GetLeagues(r.Context(), q)
		respond(w, leagues, err)
	})

	mux.HandleFunc("GET /v1/seasons", func(w http.ResponseWriter, r *http.Request) {
		seasons, err := svc.GetSeasons(r.Context())
		respond(w, seasons, err)
	})
}

func qInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func respond(w http.ResponseWriter, result any, err error) {
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": result})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrQuotaExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, fetch.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, fetch.ErrTransportFailure):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
