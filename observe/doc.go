// Package observe provides observability primitives for query serving.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into the fetch
// orchestrator and the tool layer. The instruments follow the shape of the
// fetch path: per-query spans and latency, cache lookup outcomes, quota
// admission decisions, and upstream call counts, since those four numbers
// together tell you whether the budget is holding.
package observe
