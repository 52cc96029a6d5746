// Package picobot resolves LLM provider credentials and dispatches chat
// completions across a dozen vendors and gateways behind one normalized
// contract.
//
// The moving parts:
//   - provider/registry holds the ordered provider descriptor table: keywords,
//     env wiring, model prefixes, gateway flags, per-model overrides
//   - config loads user credentials and matches them to registry entries with
//     a two-pass keyword-then-fallback algorithm
//   - provider/dispatch is the generic OpenAI-compatible dispatcher used for
//     every keyed provider and gateway
//   - provider/codex is the OAuth special case that talks to the Codex
//     backend with CLI-cached tokens and a strict TLS policy
//   - messages carries the vendor-neutral message model and the multimodal
//     content formatter
//
// NewProvider ties them together: given a loaded configuration it picks the
// matching provider implementation for the configured default model.
package picobot
