package plugin

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/fetch"
	"github.com/thoreinstein/rustplug/internal/git"
	"github.com/thoreinstein/rustplug/internal/install"
	"github.com/thoreinstein/rustplug/internal/manifest"
	"github.com/thoreinstein/rustplug/internal/paths"
	"github.com/thoreinstein/rustplug/internal/triple"
	"github.com/thoreinstein/rustplug/internal/version"
)

// Name is the tool name reported to the version manager.
const Name = "Rust"

// Options configures a Plugin. Env and Host are the only host facts the
// plugin uses; nothing is read from the process environment.
type Options struct {
	Env     paths.Env
	Host    triple.Host
	Runner  execx.Runner
	Fetcher fetch.Fetcher
	Fs      afero.Fs

	TempDir             string
	UnixInstallerURL    string
	WindowsInstallerURL string
	Repository          string
	DefaultVersion      string
	PluginVersion       string
}

// Plugin exposes every lifecycle operation. Build one per invocation: the
// derived triple is cached on first use so install and sync agree on it.
type Plugin struct {
	opts       Options
	triples    *triple.Resolver
	orch       *install.Orchestrator
	reconciler *manifest.Reconciler
	git        *git.Client

	resolved *triple.Result
}

// New wires the lifecycle components together.
func New(opts Options) *Plugin {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.DefaultVersion == "" {
		opts.DefaultVersion = version.Stable
	}
	if opts.Repository == "" {
		opts.Repository = DefaultRepository
	}
	if opts.TempDir == "" {
		opts.TempDir = paths.TempDir()
	}

	triples := triple.NewResolver(opts.Runner)
	return &Plugin{
		opts:    opts,
		triples: triples,
		orch: &install.Orchestrator{
			Runner:              opts.Runner,
			Fetcher:             opts.Fetcher,
			Fs:                  opts.Fs,
			Triples:             triples,
			TempDir:             opts.TempDir,
			CargoBinDir:         opts.Env.CargoBinDir(),
			UnixInstallerURL:    opts.UnixInstallerURL,
			WindowsInstallerURL: opts.WindowsInstallerURL,
		},
		reconciler: manifest.NewReconciler(opts.Fs),
		git:        git.NewClient(opts.Runner),
	}
}

// Host returns the host facts the plugin was built with.
func (p *Plugin) Host() triple.Host { return p.opts.Host }

// Env returns the rust homes the plugin was built with.
func (p *Plugin) Env() paths.Env { return p.opts.Env }

// Fs returns the filesystem the plugin reads.
func (p *Plugin) Fs() afero.Fs { return p.opts.Fs }

// Runner returns the process runner.
func (p *Plugin) Runner() execx.Runner { return p.opts.Runner }

// DeriveTriple returns the target triple for the host, computing it once.
func (p *Plugin) DeriveTriple(ctx context.Context) (triple.Result, error) {
	if p.resolved != nil {
		return *p.resolved, nil
	}
	res, err := p.triples.Resolve(ctx, p.opts.Host)
	if err != nil {
		return triple.Result{}, err
	}
	p.resolved = &res
	return res, nil
}

// ResolveOutput is the result of ResolveVersion. Version is empty when the
// requested specifier stands as-is.
type ResolveOutput struct {
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ResolveVersion applies the channel rules to a raw specifier.
func (p *Plugin) ResolveVersion(raw string) (ResolveOutput, error) {
	spec, err := version.Parse(raw)
	if err != nil {
		return ResolveOutput{}, err
	}
	if resolved, ok := version.Resolve(spec); ok {
		return ResolveOutput{Version: resolved.String()}, nil
	}
	return ResolveOutput{}, nil
}

// ToolDir returns <toolchains>/<channel>-<triple> for spec.
func (p *Plugin) ToolDir(ctx context.Context, spec version.Specifier) (string, error) {
	res, err := p.DeriveTriple(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.opts.Env.ToolchainsDir(), version.Channel(spec)+"-"+res.Triple.String()), nil
}

// NativeInstall installs raw with rustup. An empty toolDir defaults to the
// toolchain's directory under the rustup home.
func (p *Plugin) NativeInstall(ctx context.Context, raw, toolDir string) (install.Outcome, error) {
	spec, err := version.Parse(raw)
	if err != nil {
		return install.Outcome{}, err
	}

	res, err := p.DeriveTriple(ctx)
	if err != nil {
		return install.Outcome{}, err
	}
	if toolDir == "" {
		toolDir = filepath.Join(p.opts.Env.ToolchainsDir(), version.Channel(spec)+"-"+res.Triple.String())
	}

	out, err := p.orch.Install(ctx, install.InstallRequest{
		Spec:    spec,
		ToolDir: toolDir,
		Host:    p.opts.Host,
		Triple:  res.Triple,
	})
	out.Warnings = append(append([]errors.Warning(nil), res.Warnings...), out.Warnings...)
	return out, err
}

// NativeUninstall removes raw's toolchain with rustup.
func (p *Plugin) NativeUninstall(ctx context.Context, raw string) (install.UninstallOutcome, error) {
	spec, err := version.Parse(raw)
	if err != nil {
		return install.UninstallOutcome{}, err
	}
	return p.orch.Uninstall(ctx, install.UninstallRequest{Spec: spec, Host: p.opts.Host})
}

// SyncOutput lists the installed releases. Versions is nil when nothing
// was found, meaning "leave the manifest alone".
type SyncOutput struct {
	Versions []string `json:"versions,omitempty" yaml:"versions,omitempty"`
	Channels []string `json:"channels,omitempty" yaml:"channels,omitempty"`
}

// SyncManifest rebuilds the installed-version set from the toolchains directory.
func (p *Plugin) SyncManifest(ctx context.Context) (SyncOutput, error) {
	res, err := p.DeriveTriple(ctx)
	if err != nil {
		return SyncOutput{}, err
	}
	root := p.opts.Env.ToolchainsDir()
	set, err := p.reconciler.Reconcile(ctx, root, res.Triple)
	if err != nil {
		return SyncOutput{}, err
	}
	return SyncOutput{
		Versions: set.Strings(),
		Channels: p.reconciler.Channels(root, res.Triple),
	}, nil
}

// InstallGlobal installs a cargo package globally.
func (p *Plugin) InstallGlobal(ctx context.Context, dep string) (install.GlobalOutcome, error) {
	return p.orch.InstallGlobal(ctx, dep)
}

// UninstallGlobal removes a globally installed cargo package.
func (p *Plugin) UninstallGlobal(ctx context.Context, dep string) (install.GlobalOutcome, error) {
	return p.orch.UninstallGlobal(ctx, dep)
}
