// Package quota enforces the upstream call budget.
//
// The API-Sports plan is bounded both per minute and per day, and every
// admitted call spends quota whether or not the response is useful. Limiter
// tracks both budgets as sliding windows of call timestamps and answers each
// prospective call with an admission decision: admit now, wait for a
// computed duration, or reject because the daily budget cannot free capacity
// within the configured ceiling.
//
// A single Limiter guards the single upstream credential; all fetch paths
// share it by reference. Window bookkeeping is serialized under one mutex so
// two callers can never both win the final admission slot.
package quota
