package install

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/logging"
	"github.com/thoreinstein/rustplug/internal/paths"
	"github.com/thoreinstein/rustplug/internal/triple"
	"github.com/thoreinstein/rustplug/pkg/fileutil"
)

// Installer names and bootstrap defaults.
const (
	Rustup = "rustup"
	Cargo  = "cargo"

	DefaultUnixInstallerURL    = "https://sh.rustup.rs"
	DefaultWindowsInstallerURL = "https://win.rustup.rs"

	unixScriptName    = "rustup-init.sh"
	windowsScriptName = "rustup-init.exe"
)

// bootstrapArgs install rustup without a default toolchain and without prompting.
var bootstrapArgs = []string{"--default-toolchain", "none", "-y"}

// ScriptPath returns where the bootstrap installer is cached for host.
func (o *Orchestrator) ScriptPath(host triple.Host) string {
	if host.IsWindows() {
		return filepath.Join(o.TempDir, windowsScriptName)
	}
	return filepath.Join(o.TempDir, unixScriptName)
}

func (o *Orchestrator) installerURL(host triple.Host) string {
	if host.IsWindows() {
		if o.WindowsInstallerURL != "" {
			return o.WindowsInstallerURL
		}
		return DefaultWindowsInstallerURL
	}
	if o.UnixInstallerURL != "" {
		return o.UnixInstallerURL
	}
	return DefaultUnixInstallerURL
}

// ensureRustup installs rustup when it is not on PATH. It returns the name
// to invoke rustup by and whether the bootstrap ran. Every failure here is
// fatal.
func (o *Orchestrator) ensureRustup(ctx context.Context, host triple.Host, out *Outcome) (string, bool, error) {
	if _, err := o.Runner.LookPath(Rustup); err == nil {
		return Rustup, false, nil
	}

	logger := logging.FromContext(ctx)
	logger.Info("Installing rustup")

	script := o.ScriptPath(host)
	cached, err := afero.Exists(o.Fs, script)
	if err != nil {
		return "", false, errors.Wrapf(err, "checking for cached installer %s", script)
	}

	if cached {
		logger.Debug("using cached rustup installer", "path", script)
	} else {
		url := o.installerURL(host)
		body, err := o.Fetcher.FetchText(ctx, url)
		if err != nil {
			return "", false, errors.Wrap(err, "downloading rustup installer")
		}
		if err := o.Fs.MkdirAll(o.TempDir, 0o755); err != nil {
			return "", false, errors.Wrapf(err, "creating %s", o.TempDir)
		}
		if err := fileutil.AtomicWriteFileFs(o.Fs, script, []byte(body), 0o755); err != nil {
			return "", false, errors.Wrapf(err, "writing rustup installer to %s", script)
		}
	}

	// A cached copy from an older run may have lost its executable bit.
	if err := o.Fs.Chmod(script, 0o755); err != nil {
		return "", false, errors.Wrapf(err, "marking %s executable", script)
	}

	cmd := execx.Command{Name: script, Args: bootstrapArgs, Mode: execx.ModeStream}
	out.Commands = append(out.Commands, cmd)
	if _, err := o.Runner.Run(ctx, cmd); err != nil {
		return "", false, errors.Wrap(err, "running rustup installer")
	}

	if rustup, ok := o.findRustup(ctx, host); ok {
		return rustup, true, nil
	}
	return "", false, &errors.InstallerMissingError{Name: Rustup}
}

// findRustup returns the name to invoke rustup by: the bare name when it is
// on PATH, otherwise the copy in the cargo bin directory, which a fresh
// install populates before PATH includes it.
func (o *Orchestrator) findRustup(ctx context.Context, host triple.Host) (string, bool) {
	if _, err := o.Runner.LookPath(Rustup); err == nil {
		return Rustup, true
	}
	if o.CargoBinDir == "" {
		return "", false
	}
	fallback := filepath.Join(o.CargoBinDir, paths.ExeName(hostOS(host), Rustup))
	if ok, _ := afero.Exists(o.Fs, fallback); ok {
		logging.FromContext(ctx).Debug("rustup not on PATH, using cargo bin", "path", fallback)
		return fallback, true
	}
	return "", false
}

func hostOS(host triple.Host) string {
	if host.IsWindows() {
		return "windows"
	}
	return host.OS
}
