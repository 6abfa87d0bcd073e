// Package execx runs the external programs rustplug drives: rustup, its
// bootstrap installer, cargo, git and ldd.
//
// Everything above this package depends on the [Runner] interface, so the
// lifecycle logic can be exercised with a mock that records the exact
// commands issued. [OSRunner] is the os/exec implementation used by the CLI.
//
// Three stream modes mirror how each command is used:
//
//	ModeCapture  probes whose output is parsed (ldd --version, rustup toolchain list)
//	ModeInherit  long-running installs the user watches (rustup toolchain install)
//	ModeStream   the bootstrap installer, whose output goes to the log
package execx
