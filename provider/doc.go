// Package provider defines the normalized chat-completion contract
// implemented by every LLM provider in picobot, along with the response and
// tool-call types shared across implementations.
//
// Design decisions:
//   - Errors become content: Chat never returns an error. Every failure is
//     converted into a Response with FinishError and a short human-readable
//     message, so callers treat the operation as total
//   - Closed outcome set: FinishReason is a small closed set of tags rather
//     than free-form vendor strings leaking into callers
//   - Stateless calls: providers hold configuration, never call state;
//     concurrent Chat invocations are safe
//
// Concrete implementations live in the dispatch and codex subpackages; the
// registry subpackage holds the provider descriptor table they are driven by.
package provider
