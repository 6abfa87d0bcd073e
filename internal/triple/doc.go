// Package triple derives the rustup target triple for a host.
//
// The triple names every installed toolchain directory
// (<channel>-<triple>), so the install and sync paths must agree on it.
// Derive it once per invocation and pass the same value to both.
//
//	res, err := triple.NewResolver(runner).Resolve(ctx, triple.HostFromRuntime())
//	res.Triple.String() // "x86_64-unknown-linux-gnu"
//
// Only Linux needs a probe: `ldd --version` output containing "musl"
// selects the musl target.
package triple
