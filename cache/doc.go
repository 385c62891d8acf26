// Package cache stores upstream response payloads keyed by query
// fingerprint.
//
// It provides a Store interface with in-memory LRU, Redis, and SQLite
// implementations, plus SHA-256-based key derivation over the normalized
// query parameters. Every quota-free answer the service gives comes out of
// a Store, so hits here translate directly into upstream budget headroom.
//
// Stores hold raw payload bytes and a deadline; deciding whether a payload
// deserves an hour, a day, or forever belongs to the freshness package.
package cache
