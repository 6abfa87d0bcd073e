package plugin

import (
	"context"
	"path/filepath"

	"github.com/thoreinstein/rustplug/internal/paths"
	"github.com/thoreinstein/rustplug/internal/toolchainfile"
	"github.com/thoreinstein/rustplug/internal/version"
)

// Inventory tells the version manager where toolchains live and how their
// directories are named.
type Inventory struct {
	DisableProgressBars bool   `json:"disable_progress_bars" yaml:"disable_progress_bars"`
	OverrideDir         string `json:"override_dir" yaml:"override_dir"`
	VersionSuffix       string `json:"version_suffix" yaml:"version_suffix"`
}

// Metadata is returned by Register.
type Metadata struct {
	Name           string    `json:"name" yaml:"name"`
	Type           string    `json:"type" yaml:"type"`
	DefaultVersion string    `json:"default_version" yaml:"default_version"`
	Inventory      Inventory `json:"inventory" yaml:"inventory"`
	PluginVersion  string    `json:"plugin_version,omitempty" yaml:"plugin_version,omitempty"`
}

// Register describes the tool. Toolchains live in the rustup home, suffixed
// by the target triple; rustup draws its own progress output.
func (p *Plugin) Register(ctx context.Context) (Metadata, error) {
	res, err := p.DeriveTriple(ctx)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Name:           Name,
		Type:           "language",
		DefaultVersion: p.opts.DefaultVersion,
		Inventory: Inventory{
			DisableProgressBars: true,
			OverrideDir:         p.opts.Env.ToolchainsDir(),
			VersionSuffix:       "-" + res.Triple.String(),
		},
		PluginVersion: p.opts.PluginVersion,
	}, nil
}

// DetectVersionFiles lists the file names that pin a toolchain.
func (p *Plugin) DetectVersionFiles() []string {
	return append([]string(nil), toolchainfile.Files...)
}

// ParseFileOutput is the result of ParseVersionFile. Version is empty when
// the file pins nothing.
type ParseFileOutput struct {
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ParseVersionFile extracts the pinned version from a toolchain file's contents.
func (p *Plugin) ParseVersionFile(name string, content []byte) (ParseFileOutput, error) {
	spec, err := toolchainfile.Parse(name, content)
	if err != nil || spec == nil {
		return ParseFileOutput{}, err
	}
	return ParseFileOutput{Version: spec.String()}, nil
}

// Executable describes the primary binary.
type Executable struct {
	ExePath string `json:"exe_path" yaml:"exe_path"`
	// NoBin and NoShim are set because rustup already puts proxies in
	// the cargo bin directory.
	NoBin  bool `json:"no_bin" yaml:"no_bin"`
	NoShim bool `json:"no_shim" yaml:"no_shim"`
}

// Executables is returned by LocateExecutables.
type Executables struct {
	Primary           Executable `json:"primary" yaml:"primary"`
	GlobalsLookupDirs []string   `json:"globals_lookup_dirs" yaml:"globals_lookup_dirs"`
	GlobalsPrefix     string     `json:"globals_prefix" yaml:"globals_prefix"`
	NoPrimaryGlobal   bool       `json:"no_primary_global" yaml:"no_primary_global"`
}

// GlobalsLookupDirs are the cargo install locations, in lookup order.
var GlobalsLookupDirs = []string{
	"$CARGO_INSTALL_ROOT/bin",
	"$CARGO_HOME/bin",
	"$HOME/.cargo/bin",
}

// LocateExecutables reports where cargo and globally installed crates live.
// The primary executable is only checked for existence, never shimmed.
func (p *Plugin) LocateExecutables() Executables {
	goos := p.opts.Host.OS
	if p.opts.Host.IsWindows() {
		goos = "windows"
	}
	return Executables{
		Primary: Executable{
			ExePath: paths.ExeName(goos, "bin/cargo"),
			NoBin:   true,
			NoShim:  true,
		},
		GlobalsLookupDirs: append([]string(nil), GlobalsLookupDirs...),
		GlobalsPrefix:     "cargo-",
		NoPrimaryGlobal:   true,
	}
}

// ExpandGlobalsDirs resolves GlobalsLookupDirs against the plugin's Env.
// Entries whose variable is unset are dropped.
func (p *Plugin) ExpandGlobalsDirs() []string {
	env := p.opts.Env
	var dirs []string
	if env.CargoInstallRoot != "" {
		dirs = append(dirs, filepath.Join(env.CargoInstallRoot, "bin"))
	}
	if env.CargoHome != "" {
		dirs = append(dirs, filepath.Join(env.CargoHome, "bin"))
	}
	if env.Home != "" {
		dirs = append(dirs, filepath.Join(env.Home, ".cargo", "bin"))
	}
	return dirs
}

// IsChannel reports whether raw names a channel rather than a release.
func IsChannel(raw string) bool {
	spec, err := version.Parse(raw)
	return err == nil && version.IsNonVersionChannel(spec)
}
