package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/version"
)

// Validation errors for configuration fields.
var (
	// ErrVersionUnsupported indicates the config schema version is not 1.
	ErrVersionUnsupported = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidURL indicates an installer or remote URL is not absolute.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidDefaultVersion indicates default_version is not a specifier.
	ErrInvalidDefaultVersion = errors.New("invalid default version")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, errors.Wrapf(ErrVersionUnsupported, "version %d", cfg.Version))
	}

	for _, f := range []struct{ field, path string }{
		{KeyRustupHome, cfg.RustupHome},
		{KeyCargoHome, cfg.CargoHome},
		{KeyTempDir, cfg.TempDir},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &FieldError{Field: f.field, Value: f.path, Err: err})
		}
	}

	for _, f := range []struct{ field, raw string }{
		{KeyInstallerUnixURL, cfg.Installer.UnixURL},
		{KeyInstallerWinURL, cfg.Installer.WindowsURL},
		{KeyRemoteRepository, cfg.Remote.Repository},
	} {
		if err := validateURL(f.raw); err != nil {
			errs = append(errs, &FieldError{Field: f.field, Value: f.raw, Err: err})
		}
	}

	if cfg.DefaultVersion != "" {
		if _, err := version.Parse(cfg.DefaultVersion); err != nil {
			errs = append(errs, &FieldError{Field: KeyDefaultVersion, Value: cfg.DefaultVersion, Err: ErrInvalidDefaultVersion})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// FieldError represents an error for a specific config key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
