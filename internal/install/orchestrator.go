package install

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/fetch"
	"github.com/thoreinstein/rustplug/internal/logging"
	"github.com/thoreinstein/rustplug/internal/triple"
	"github.com/thoreinstein/rustplug/internal/version"
)

// TripleResolver derives the target triple for a host.
type TripleResolver interface {
	Resolve(ctx context.Context, host triple.Host) (triple.Result, error)
}

// Orchestrator drives rustup through the install and uninstall lifecycle.
// It decides what to run; rustup does the actual work.
type Orchestrator struct {
	Runner  execx.Runner
	Fetcher fetch.Fetcher
	Fs      afero.Fs
	Triples TripleResolver

	// TempDir caches the bootstrap installer between runs.
	TempDir string
	// CargoBinDir is where a freshly bootstrapped rustup lands.
	CargoBinDir string

	UnixInstallerURL    string
	WindowsInstallerURL string
}

// InstallRequest is the input to Install.
type InstallRequest struct {
	Spec version.Specifier
	// ToolDir is the toolchain's install directory. It is healthy when it
	// has a bin subdirectory.
	ToolDir string
	Host    triple.Host
	// Triple skips derivation when set, so install and sync share one value.
	Triple triple.Triple
}

// Outcome reports what Install did.
type Outcome struct {
	Decision     Decision         `json:"decision" yaml:"decision"`
	Bootstrapped bool             `json:"bootstrapped" yaml:"bootstrapped"`
	Channel      string           `json:"channel" yaml:"channel"`
	Target       string           `json:"target" yaml:"target"`
	Installed    bool             `json:"installed" yaml:"installed"`
	Commands     []execx.Command  `json:"commands" yaml:"commands"`
	Warnings     []errors.Warning `json:"-" yaml:"-"`
}

// UninstallRequest is the input to Uninstall.
type UninstallRequest struct {
	Spec version.Specifier
	Host triple.Host
}

// UninstallOutcome reports what Uninstall did.
type UninstallOutcome struct {
	Uninstalled bool          `json:"uninstalled" yaml:"uninstalled"`
	Channel     string        `json:"channel" yaml:"channel"`
	Command     execx.Command `json:"command" yaml:"command"`
}

// Install makes the requested toolchain available:
//
//  1. bootstrap rustup if it is missing
//  2. derive the channel and the <channel>-<triple> target
//  3. look for the target in `rustup toolchain list`
//  4. skip, repair (uninstall first) or install
//
// Reaching the end without an error always reports Installed, including on
// the skip path. Only the toolchain listing is best-effort: if it fails the
// target is treated as absent and a warning is recorded.
func (o *Orchestrator) Install(ctx context.Context, req InstallRequest) (Outcome, error) {
	logger := logging.FromContext(ctx)
	var out Outcome

	if req.Spec == nil {
		return out, version.ErrEmptySpecifier
	}

	t, err := o.resolveTriple(ctx, req, &out)
	if err != nil {
		return out, err
	}

	rustup, bootstrapped, err := o.ensureRustup(ctx, req.Host, &out)
	if err != nil {
		return out, err
	}
	out.Bootstrapped = bootstrapped

	out.Channel = version.Channel(req.Spec)
	out.Target = out.Channel + "-" + t.String()
	logger.Info("Installing target with rustup", "target", out.Target)

	listed := o.isListed(ctx, rustup, out.Target, &out)
	out.Decision = decide(bootstrapped, listed, o.hasBinaries(req.ToolDir))
	logger.Debug("install decision", "target", out.Target, "decision", out.Decision.String())

	switch out.Decision {
	case DecisionSkip:
		logger.Info("Target already installed in toolchain", "target", out.Target)
	case DecisionRepair:
		logger.Info("Detected a broken toolchain, uninstalling it", "target", out.Target)
		cmd := execx.Command{Name: rustup, Args: []string{"toolchain", "uninstall", out.Channel}, Mode: execx.ModeInherit}
		out.Commands = append(out.Commands, cmd)
		if _, err := o.Runner.Run(ctx, cmd); err != nil {
			return out, errors.Wrapf(err, "uninstalling broken toolchain %s", out.Target)
		}
	}

	if out.Decision.InstallsToolchain() {
		cmd := execx.Command{Name: rustup, Args: []string{"toolchain", "install", out.Channel, "--force"}, Mode: execx.ModeInherit}
		out.Commands = append(out.Commands, cmd)
		if _, err := o.Runner.Run(ctx, cmd); err != nil {
			return out, errors.Wrapf(err, "installing toolchain %s", out.Target)
		}
	}

	out.Installed = true
	return out, nil
}

// Uninstall removes the channel's toolchain with rustup. The result is
// reported as rustup gave it; there is no skip or retry logic.
func (o *Orchestrator) Uninstall(ctx context.Context, req UninstallRequest) (UninstallOutcome, error) {
	var out UninstallOutcome
	if req.Spec == nil {
		return out, version.ErrEmptySpecifier
	}
	out.Channel = version.Channel(req.Spec)

	rustup, ok := o.findRustup(ctx, req.Host)
	if !ok {
		return out, &errors.InstallerMissingError{Name: Rustup}
	}

	out.Command = execx.Command{Name: rustup, Args: []string{"toolchain", "uninstall", out.Channel}, Mode: execx.ModeInherit}
	if _, err := o.Runner.Run(ctx, out.Command); err != nil {
		return out, errors.Wrapf(err, "uninstalling toolchain %s", out.Channel)
	}
	out.Uninstalled = true
	return out, nil
}

func (o *Orchestrator) resolveTriple(ctx context.Context, req InstallRequest, out *Outcome) (triple.Triple, error) {
	if !req.Triple.IsZero() {
		return req.Triple, nil
	}
	if o.Triples == nil {
		return triple.Triple{}, errors.New("no triple resolver configured")
	}
	res, err := o.Triples.Resolve(ctx, req.Host)
	if err != nil {
		return triple.Triple{}, err
	}
	out.Warnings = append(out.Warnings, res.Warnings...)
	return res.Triple, nil
}

// isListed reports whether any `rustup toolchain list` line starts with
// target. A failed listing counts as not listed so the toolchain is
// reinstalled rather than wrongly skipped.
func (o *Orchestrator) isListed(ctx context.Context, rustup, target string, out *Outcome) bool {
	cmd := execx.Command{Name: rustup, Args: []string{"toolchain", "list"}, Mode: execx.ModeCapture}
	out.Commands = append(out.Commands, cmd)

	res, err := o.Runner.Run(ctx, cmd)
	if err != nil {
		out.Warnings = append(out.Warnings, errors.Warning{Op: "toolchain-list", Err: err})
		return false
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), target) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) hasBinaries(toolDir string) bool {
	if toolDir == "" {
		return false
	}
	ok, err := afero.DirExists(o.Fs, filepath.Join(toolDir, "bin"))
	return err == nil && ok
}
