package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"

	"github.com/thoreinstein/rustplug/internal/errors"
)

// AppName is used for the XDG config and cache subdirectories.
const AppName = "rustplug"

// Environment variables consulted when resolving the rust homes.
const (
	EnvRustupHome       = "RUSTUP_HOME"
	EnvCargoHome        = "CARGO_HOME"
	EnvCargoInstallRoot = "CARGO_INSTALL_ROOT"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// Env holds the host directory facts an invocation works against. Every
// lifecycle operation receives one explicitly; nothing below reads the
// process environment on its own.
type Env struct {
	// Home is the user's home directory.
	Home string
	// RustupHome overrides <Home>/.rustup when set.
	RustupHome string
	// CargoHome overrides <Home>/.cargo when set.
	CargoHome string
	// CargoInstallRoot is the optional `cargo install --root` location.
	CargoInstallRoot string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvFromOS builds an Env from the home directory and the RUSTUP_HOME,
// CARGO_HOME and CARGO_INSTALL_ROOT variables visible through lookup.
func EnvFromOS(lookup LookupFunc) (Env, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	home, err := ResolveHome()
	if err != nil {
		return Env{}, err
	}

	env := Env{Home: home}
	if v, ok := lookup(EnvRustupHome); ok && strings.TrimSpace(v) != "" {
		env.RustupHome = v
	}
	if v, ok := lookup(EnvCargoHome); ok && strings.TrimSpace(v) != "" {
		env.CargoHome = v
	}
	if v, ok := lookup(EnvCargoInstallRoot); ok && strings.TrimSpace(v) != "" {
		env.CargoInstallRoot = v
	}
	return env, nil
}

// Rustup returns the rustup home: the override when set, else <Home>/.rustup.
func (e Env) Rustup() string {
	if e.RustupHome != "" {
		return e.RustupHome
	}
	return filepath.Join(e.Home, ".rustup")
}

// Cargo returns the cargo home: the override when set, else <Home>/.cargo.
func (e Env) Cargo() string {
	if e.CargoHome != "" {
		return e.CargoHome
	}
	return filepath.Join(e.Home, ".cargo")
}

// ToolchainsDir returns <rustup home>/toolchains, the directory rustup
// installs every toolchain into and the root the manifest is rebuilt from.
func (e Env) ToolchainsDir() string {
	return filepath.Join(e.Rustup(), "toolchains")
}

// CargoBinDir returns <cargo home>/bin, where rustup places its proxies.
func (e Env) CargoBinDir() string {
	return filepath.Join(e.Cargo(), "bin")
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		msg := "empty home directory"
		if err != nil {
			msg = err.Error()
		}
		return "", errors.Wrap(ErrHomeDirNotFound, msg)
	}
	return home, nil
}

// Expand replaces a leading ~ in p with the home directory.
func Expand(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "expanding %q: %v", p, err)
	}
	return filepath.Clean(expanded), nil
}

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// CacheHome returns the XDG cache home directory.
func CacheHome() string {
	return xdg.CacheHome
}

// ConfigDir returns <ConfigHome>/rustplug.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DefaultConfigPath returns <ConfigHome>/rustplug/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// TempDir returns <CacheHome>/rustplug/temp, the fixed location the rustup
// installer script is cached in between bootstrap attempts.
func TempDir() string {
	return filepath.Join(CacheHome(), AppName, "temp")
}

// ExeName appends ".exe" to name when goos is windows.
func ExeName(goos, name string) string {
	if goos == "windows" && !strings.HasSuffix(name, ".exe") {
		return name + ".exe"
	}
	return name
}
