// Package install decides and dispatches the rustup commands that make a
// toolchain available.
//
// [Orchestrator.Install] is a small state machine. Each call probes for
// rustup (bootstrapping it from https://sh.rustup.rs or https://win.rustup.rs
// when absent), lists the installed toolchains, and settles on one
// [Decision]:
//
//	Skip              listed, and <tool dir>/bin exists
//	Repair            listed, but no binaries: uninstall, then install
//	Install           not listed
//	BootstrapInstall  rustup was just installed, then the toolchain
//
// Mandatory steps (bootstrap, uninstall on repair, install) fail the call.
// The toolchain listing is best-effort and is reported through
// Outcome.Warnings instead.
//
// The orchestrator never writes toolchain directories itself. The only file
// it writes is the cached bootstrap installer under TempDir.
package install
