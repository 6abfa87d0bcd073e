package install

import (
	"context"
	"strings"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
)

// GlobalOutcome reports a cargo install or uninstall of a global package.
type GlobalOutcome struct {
	Dependency string        `json:"dependency" yaml:"dependency"`
	Command    execx.Command `json:"command" yaml:"command"`
}

// InstallGlobal runs `cargo install --force <dep>`.
func (o *Orchestrator) InstallGlobal(ctx context.Context, dep string) (GlobalOutcome, error) {
	return o.runCargo(ctx, dep, "install", "--force")
}

// UninstallGlobal runs `cargo uninstall <dep>`.
func (o *Orchestrator) UninstallGlobal(ctx context.Context, dep string) (GlobalOutcome, error) {
	return o.runCargo(ctx, dep, "uninstall")
}

// runCargo runs `cargo <args...> <dep>`, inheriting the terminal.
func (o *Orchestrator) runCargo(ctx context.Context, dep string, args ...string) (GlobalOutcome, error) {
	out := GlobalOutcome{Dependency: strings.TrimSpace(dep)}
	if out.Dependency == "" {
		return out, errors.New("dependency name is required")
	}
	if strings.HasPrefix(out.Dependency, "-") {
		return out, errors.Newf("invalid dependency name %q", out.Dependency)
	}
	if _, err := o.Runner.LookPath(Cargo); err != nil {
		return out, &errors.InstallerMissingError{Name: Cargo}
	}

	args = append(args, out.Dependency)
	out.Command = execx.Command{Name: Cargo, Args: args, Mode: execx.ModeInherit}
	if _, err := o.Runner.Run(ctx, out.Command); err != nil {
		return out, errors.Wrapf(err, "cargo %s %s", args[0], out.Dependency)
	}
	return out, nil
}
