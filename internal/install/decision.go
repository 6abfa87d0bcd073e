package install

// Decision is the branch the orchestrator took for one install call.
// It is recomputed on every call and never persisted.
type Decision int

const (
	// DecisionSkip means the toolchain is listed and its bin directory exists.
	DecisionSkip Decision = iota + 1
	// DecisionRepair means the toolchain is listed but its binaries are
	// missing: uninstall, then install.
	DecisionRepair
	// DecisionInstall means the toolchain is not listed.
	DecisionInstall
	// DecisionBootstrapInstall means rustup itself was installed first and
	// the toolchain was then installed.
	DecisionBootstrapInstall
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionRepair:
		return "repair"
	case DecisionInstall:
		return "install"
	case DecisionBootstrapInstall:
		return "bootstrap+install"
	default:
		return "unknown"
	}
}

// MarshalText renders the decision for JSON and YAML output.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// InstallsToolchain reports whether the decision runs `rustup toolchain install`.
func (d Decision) InstallsToolchain() bool {
	return d != DecisionSkip
}

// decide picks the branch from the three probe results.
func decide(bootstrapped, listed, hasBinaries bool) Decision {
	switch {
	case listed && hasBinaries:
		return DecisionSkip
	case listed:
		return DecisionRepair
	case bootstrapped:
		return DecisionBootstrapInstall
	default:
		return DecisionInstall
	}
}
