// Package tools exposes the structured query surface: team search, fixture
// lookup, team statistics, and the surrounding football queries (standings,
// head-to-head, fixture detail, predictions, leagues, seasons).
//
// Each operation takes a typed query value, validates it locally before any
// quota is spent, builds the normalized parameter set, and executes through a
// Fetcher (normally fetch.Orchestrator). Results come back as typed values
// decoded from the upstream response envelope.
//
// Validation failures are reported with ErrInvalidQuery and never reach the
// fetch layer. Errors from the fetch layer pass through unchanged, so callers
// can keep matching on the fetch sentinels.
package tools
