// Package toolchainfile reads the per-project toolchain pins rustup
// honors: rust-toolchain.toml and the older rust-toolchain.
//
//	[toolchain]
//	channel = "nightly-2024-01-01"
//
// Only the channel matters for version selection; components, targets and
// profile are decoded for display.
package toolchainfile
