// Package freshness decides how long an upstream payload stays trustworthy.
//
// Classification is a pure function of the query family, the normalized
// parameters, and the payload itself. The same inputs always classify the
// same way, so the decision can be made inline on the fetch path with no
// clock and no I/O. The payload matters because fixtures split on outcome:
// a finished match is a historical fact and caches forever, while one still
// in play must never be cached at all.
package freshness
