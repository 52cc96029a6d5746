// Package config holds the root configuration and the provider matcher that
// resolves a requested model against configured credentials.
//
// Design decisions:
//   - Explicit name mapping: provider configs are reachable through a map
//     built once at load time, keyed by registry name — no reflective field
//     lookup on the struct
//   - Total accessors: the matcher never fails; unmatched input yields nil
//     or empty values
//   - Read-only after load: ProviderConfig values are mutated only while
//     loading; afterwards concurrent readers share them freely
package config
