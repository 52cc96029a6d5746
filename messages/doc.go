// Package messages defines the vendor-neutral chat message representation
// shared by all providers, together with the formatter that rewrites
// multimodal content into vendor-specific wire shapes.
//
// Design decisions:
//   - Neutral first: messages are stored in one shape regardless of vendor;
//     vendor quirks live entirely in the formatter
//   - Data URLs: images travel as base64 data URLs so the formatter can
//     re-encode them for vendors that reject remote URLs
//   - Total formatting: malformed content is dropped with a logged warning,
//     never surfaced as an error
package messages
