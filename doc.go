// Package gazelle implements the runtime core of an LL(*) parse machine:
// a streaming, callback-driven interpreter that executes a precompiled
// grammar (a pushdown network of RTNs, disambiguated by GLAs, lexed by
// IntFAs) against an input byte stream and emits structured parse events.
//
// The grammar compiler and the on-disk bit-level framing of compiled
// grammars are treated as external concerns; this package loads compiled
// grammars through the bitcode subpackage and otherwise only depends on
// the logical shapes described in the grammar model.
package gazelle
