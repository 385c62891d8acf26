// Package sports is the upstream transport for the API-Sports football API.
//
// It defines the query families the mediation layer understands, a Client
// that turns (family, params) into an authenticated HTTP request, and the
// typed error taxonomy the orchestrator dispatches on: QuotaError for 429
// responses (carrying the Retry-After hint when present), TransportError for
// connectivity and malformed-response failures, and UpstreamError for
// well-formed rejections the API reports either via status code or inside a
// 200 response envelope.
package sports
