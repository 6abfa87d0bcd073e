package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/paths"
	"github.com/thoreinstein/rustplug/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvConfigDir overrides the directory the config file is searched in.
const EnvConfigDir = "RUSTPLUG_CONFIG_DIR"

// Configuration keys.
const (
	KeyVersion          = "version"
	KeyRustupHome       = "rustup_home"
	KeyCargoHome        = "cargo_home"
	KeyTempDir          = "temp_dir"
	KeyInstallerUnixURL = "installer.unix_url"
	KeyInstallerWinURL  = "installer.windows_url"
	KeyRemoteRepository = "remote.repository"
	KeyDefaultVersion   = "default_version"
)

// Defaults for the installer and remote endpoints.
const (
	DefaultUnixInstallerURL    = "https://sh.rustup.rs"
	DefaultWindowsInstallerURL = "https://win.rustup.rs"
	DefaultRemoteRepository    = "https://github.com/rust-lang/rust"
	DefaultVersion             = "stable"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version        int       `mapstructure:"version" json:"version" yaml:"version"`
	RustupHome     string    `mapstructure:"rustup_home" json:"rustup_home,omitempty" yaml:"rustup_home,omitempty"`
	CargoHome      string    `mapstructure:"cargo_home" json:"cargo_home,omitempty" yaml:"cargo_home,omitempty"`
	TempDir        string    `mapstructure:"temp_dir" json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`
	Installer      Installer `mapstructure:"installer" json:"installer" yaml:"installer"`
	Remote         Remote    `mapstructure:"remote" json:"remote" yaml:"remote"`
	DefaultVersion string    `mapstructure:"default_version" json:"default_version" yaml:"default_version"`
}

// Installer holds the rustup bootstrap locations.
type Installer struct {
	UnixURL    string `mapstructure:"unix_url" json:"unix_url" yaml:"unix_url"`
	WindowsURL string `mapstructure:"windows_url" json:"windows_url" yaml:"windows_url"`
}

// Remote holds the repository whose tags list the released versions.
type Remote struct {
	Repository string `mapstructure:"repository" json:"repository" yaml:"repository"`
}

// InstallerURL returns the bootstrap URL for goos.
func (c *Config) InstallerURL(goos string) string {
	if goos == "windows" {
		return c.Installer.WindowsURL
	}
	return c.Installer.UnixURL
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Any config file selected by a previous Load is forgotten.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("RUSTPLUG")
	viper.AutomaticEnv()

	viper.SetDefault(KeyVersion, 1)
	viper.SetDefault(KeyTempDir, paths.TempDir())
	viper.SetDefault(KeyInstallerUnixURL, DefaultUnixInstallerURL)
	viper.SetDefault(KeyInstallerWinURL, DefaultWindowsInstallerURL)
	viper.SetDefault(KeyRemoteRepository, DefaultRemoteRepository)
	viper.SetDefault(KeyDefaultVersion, DefaultVersion)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists. Home-relative paths are expanded.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// Implicit load without a file is fine.
		case path != "" && !fileExists(path):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.expand(); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidConfig), "validating config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Mark(errs[0], errors.ErrInvalidConfig), "validating config")
	}

	return &cfg, nil
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Version:        1,
		TempDir:        paths.TempDir(),
		Installer:      Installer{UnixURL: DefaultUnixInstallerURL, WindowsURL: DefaultWindowsInstallerURL},
		Remote:         Remote{Repository: DefaultRemoteRepository},
		DefaultVersion: DefaultVersion,
	}
}

// Save writes the given settings to path as YAML, creating the parent directory.
func Save(path string, settings map[string]any) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return fileutil.AtomicWriteYAMLWithPerm(path, settings, 0o600)
}

// Env builds the rust home facts from the process environment, letting
// configured homes take precedence over RUSTUP_HOME and CARGO_HOME.
func (c *Config) Env(lookup paths.LookupFunc) (paths.Env, error) {
	env, err := paths.EnvFromOS(lookup)
	if err != nil {
		return paths.Env{}, err
	}
	if c.RustupHome != "" {
		env.RustupHome = c.RustupHome
	}
	if c.CargoHome != "" {
		env.CargoHome = c.CargoHome
	}
	return env, nil
}

func (c *Config) expand() error {
	for _, p := range []*string{&c.RustupHome, &c.CargoHome, &c.TempDir} {
		expanded, err := paths.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
