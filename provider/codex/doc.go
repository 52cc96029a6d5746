// Package codex implements the OAuth-backed Codex chat provider. It talks to
// the Codex backend directly with a bearer token obtained from a TokenSource
// instead of routing through the shared completion client, and it applies a
// strict TLS policy: verification stays on unless the caller explicitly opted
// into a single insecure retry.
package codex
