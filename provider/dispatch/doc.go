// Package dispatch implements the normalized chat contract over any
// OpenAI-compatible completion backend, for every provider and gateway in
// the registry.
//
// Design decisions:
//   - Registry driven: prefixing, credential wiring, and parameter overrides
//     are data in the provider registry, not branches here
//   - Per-call credentials: the resolved API key, base, and headers ride on
//     each request as client options instead of mutating shared client state
//   - Errors become content: any failure produces a FinishError response so
//     callers never wrap Chat in error handling
//   - Injectable backend: the Completer interface carries the actual network
//     call, keeping the dispatch logic testable without a live endpoint
package dispatch
