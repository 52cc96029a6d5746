// Package tool defines the tool (function-calling) declarations offered to
// models through the chat contract.
//
// Design decisions:
//   - Wire-level definitions: a tool here is a name, description, and JSON
//     schema; executing tool calls is the agent loop's concern, not this
//     package's
//   - Schema generation: parameter schemas can be written by hand or
//     reflected from a Go struct type
//   - Functional options: construction uses the same opts style as the rest
//     of the module
package tool
