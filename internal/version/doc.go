// Package version parses and resolves Rust toolchain version specifiers.
//
// A specifier is one of three shapes:
//
//	1.70.0              Exact
//	stable, nightly-…   Alias
//	canary              Canary
//
// [Resolve] is a pure function of the specifier's shape: channel aliases
// resolve to themselves, canary resolves to nightly, and exact versions are
// left alone. [Channel] derives the string passed to `rustup toolchain`.
package version
