package freshness

import (
	"encoding/json"
	"time"

	"github.com/sportops/sportops/sports"
)

// Class is a freshness category. Classes order from most volatile to most
// durable; the TTL mapping is a separate concern so deployments can tune
// durations without touching classification.
type Class int

const (
	// None marks payloads that must not be cached at all. Live match data
	// changes second to second; a cached copy is wrong the moment it lands.
	None Class = iota

	// Medium marks payloads that drift on the order of an hour: statistics,
	// standings, upcoming fixtures, predictions.
	Medium

	// Long marks payloads that drift on the order of a day: team, league,
	// and season registries.
	Long

	// Permanent marks historical facts. A finished match result never
	// changes and never needs to be refetched.
	Permanent
)

func (c Class) String() string {
	switch c {
	case None:
		return "none"
	case Medium:
		return "medium"
	case Long:
		return "long"
	case Permanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Default TTLs per class.
const (
	LongTTL   = 24 * time.Hour
	MediumTTL = time.Hour
)

// Classify assigns a freshness class to one fetched payload. It is a pure
// function: same family, parameters, and payload always yield the same
// class.
//
// A live parameter forces None regardless of family. The fixtures family
// also inspects the payload: any fixture currently underway forces None, a
// response in which every fixture carries a completed status is Permanent,
// and everything else (upcoming matches, an empty list, an undecodable
// payload) stays Medium, since an empty answer for an upcoming date range
// will fill in later. Unknown families default to Medium so a new endpoint
// can never be over-cached by accident.
func Classify(family sports.Family, params map[string]string, payload json.RawMessage) Class {
	if _, ok := params["live"]; ok {
		return None
	}

	switch family {
	case sports.FamilyTeams, sports.FamilyLeagues, sports.FamilySeasons:
		return Long

	case sports.FamilyFixtures, sports.FamilyHeadToHead:
		statuses, ok := sports.FixtureStatuses(payload)
		if !ok || len(statuses) == 0 {
			return Medium
		}
		completed := true
		for _, s := range statuses {
			if sports.FixtureStatusLive(s) {
				return None
			}
			if !sports.FixtureStatusCompleted(s) {
				completed = false
			}
		}
		if completed {
			return Permanent
		}
		return Medium

	case sports.FamilyTeamStatistics, sports.FamilyStandings,
		sports.FamilyFixtureStatistics, sports.FamilyFixtureEvents,
		sports.FamilyFixtureLineups, sports.FamilyPredictions:
		return Medium

	default:
		return Medium
	}
}

// TTLPolicy maps classes to storage durations, with optional per-family
// overrides for the non-permanent classes.
type TTLPolicy struct {
	// Overrides replaces the class-default TTL for specific families.
	// A zero or negative override is ignored.
	Overrides map[sports.Family]time.Duration
}

// TTL resolves the storage duration for a classified payload.
// Returns (0, true) for Permanent and (0, false) for None; callers must
// check cacheable before treating a zero duration as "store forever".
func (p TTLPolicy) TTL(family sports.Family, class Class) (ttl time.Duration, cacheable bool) {
	switch class {
	case None:
		return 0, false
	case Permanent:
		return 0, true
	}

	if d, ok := p.Overrides[family]; ok && d > 0 {
		return d, true
	}

	if class == Long {
		return LongTTL, true
	}
	return MediumTTL, true
}
