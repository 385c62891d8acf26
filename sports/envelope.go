package sports

import (
	"encoding/json"
	"strings"
)

// Envelope is the standard API-Sports response wrapper. Every endpoint
// returns this shape; Response holds the endpoint-specific payload.
type Envelope struct {
	Get        string          `json:"get"`
	Parameters json.RawMessage `json:"parameters"`
	Errors     json.RawMessage `json:"errors"`
	Results    int             `json:"results"`
	Response   json.RawMessage `json:"response"`
}

// ErrorMessages flattens the envelope's errors field, which the API emits
// either as a list of strings or as a field→message object. An empty list or
// empty object means no error.
func (e *Envelope) ErrorMessages() []string {
	if len(e.Errors) == 0 {
		return nil
	}

	var asList []string
	if err := json.Unmarshal(e.Errors, &asList); err == nil {
		var out []string
		for _, m := range asList {
			if m != "" {
				out = append(out, m)
			}
		}
		return out
	}

	var asMap map[string]string
	if err := json.Unmarshal(e.Errors, &asMap); err == nil {
		var out []string
		for field, m := range asMap {
			if m != "" {
				out = append(out, field+": "+m)
			}
		}
		return out
	}

	// Anything else non-empty that is not "[]" or "{}" is treated as a
	// single opaque message.
	raw := strings.TrimSpace(string(e.Errors))
	if raw == "" || raw == "[]" || raw == "{}" || raw == "null" {
		return nil
	}
	return []string{raw}
}

// Statuses the API uses for fixtures that will never change again.
var completedFixtureStatuses = map[string]struct{}{
	"FT":   {}, // full time
	"AET":  {}, // after extra time
	"PEN":  {}, // penalty shootout
	"PST":  {}, // postponed
	"CANC": {}, // cancelled
	"ABD":  {}, // abandoned
	"AWD":  {}, // technical win
	"WO":   {}, // walkover
}

// FixtureStatusCompleted reports whether a short fixture status code denotes
// a record that is final.
func FixtureStatusCompleted(short string) bool {
	_, ok := completedFixtureStatuses[short]
	return ok
}

// Statuses the API uses while a match is underway.
var liveFixtureStatuses = map[string]struct{}{
	"1H":   {}, // first half
	"HT":   {}, // halftime
	"2H":   {}, // second half
	"ET":   {}, // extra time
	"BT":   {}, // break before extra time
	"P":    {}, // penalty shootout in progress
	"SUSP": {}, // suspended
	"INT":  {}, // interrupted
	"LIVE": {}, // in play, phase unknown
}

// FixtureStatusLive reports whether a short fixture status code denotes a
// match currently underway.
func FixtureStatusLive(short string) bool {
	_, ok := liveFixtureStatuses[short]
	return ok
}

// fixtureStatusItem is the minimal projection needed to read match statuses
// out of a fixtures payload.
type fixtureStatusItem struct {
	Fixture struct {
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
}

// FixtureStatuses extracts the short status code of every fixture in a
// fixtures-family payload. Accepts either the full envelope or the bare
// response list. Returns (nil, false) when neither form decodes.
func FixtureStatuses(payload json.RawMessage) ([]string, bool) {
	var items []fixtureStatusItem
	if err := json.Unmarshal(payload, &items); err != nil {
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil || len(env.Response) == 0 {
			return nil, false
		}
		if err := json.Unmarshal(env.Response, &items); err != nil {
			return nil, false
		}
	}
	statuses := make([]string, len(items))
	for i, it := range items {
		statuses[i] = it.Fixture.Status.Short
	}
	return statuses, true
}
