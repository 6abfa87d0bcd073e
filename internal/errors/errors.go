package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, external tools, etc.).
	ExitSystem = 2
)

// Wrapping helpers re-exported from cockroachdb/errors so callers only need
// a single errors import.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Mark   = crdb.Mark
	Unwrap = crdb.Unwrap
)

// Sentinel errors for the toolchain lifecycle.
var (
	// ErrUnsupportedTarget indicates no installer exists for the host architecture/OS.
	ErrUnsupportedTarget = crdb.New("unsupported target")

	// ErrInstallerMissing indicates the toolchain installer is not reachable on PATH.
	ErrInstallerMissing = crdb.New("installer not found")

	// ErrExternalCommandFailed indicates an external process exited non-zero or could not start.
	ErrExternalCommandFailed = crdb.New("external command failed")

	// ErrMalformedInventoryEntry indicates a toolchain directory name could not be parsed.
	ErrMalformedInventoryEntry = crdb.New("malformed inventory entry")

	// ErrInaccessiblePath indicates a path could not be read. Callers treat it as empty.
	ErrInaccessiblePath = crdb.New("path not accessible")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")
)

// UnsupportedTargetError reports an architecture/OS pair with no toolchain build.
type UnsupportedTargetError struct {
	Arch string
	OS   string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported target: no rust toolchain for %s on %s", e.Arch, e.OS)
}

// Is reports whether target is ErrUnsupportedTarget.
func (e *UnsupportedTargetError) Is(target error) bool {
	return target == ErrUnsupportedTarget
}

// InstallerMissingError names the installer that could not be located.
type InstallerMissingError struct {
	Name string
}

func (e *InstallerMissingError) Error() string {
	return fmt.Sprintf("%s is required and was not found on PATH", e.Name)
}

// Is reports whether target is ErrInstallerMissing.
func (e *InstallerMissingError) Is(target error) bool {
	return target == ErrInstallerMissing
}

// CommandError describes an external command that failed.
// ExitCode is -1 when the process could not be started at all.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	var msg string
	if e.ExitCode < 0 {
		msg = fmt.Sprintf("%s: could not be executed", line)
	} else {
		msg = fmt.Sprintf("%s: exited with code %d", line, e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrExternalCommandFailed.
func (e *CommandError) Is(target error) bool {
	return target == ErrExternalCommandFailed
}

// MalformedEntryError reports a directory under the toolchain root whose
// name matched the current triple but did not hold a parseable version.
type MalformedEntryError struct {
	Name string
	Err  error
}

func (e *MalformedEntryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed toolchain directory %q", e.Name)
	}
	return fmt.Sprintf("malformed toolchain directory %q: %v", e.Name, e.Err)
}

// Unwrap returns the parse error.
func (e *MalformedEntryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedInventoryEntry.
func (e *MalformedEntryError) Is(target error) bool {
	return target == ErrMalformedInventoryEntry
}

// Warning records a best-effort step that failed without aborting the
// operation. Warnings are carried in results, never returned as errors.
type Warning struct {
	// Op names the step, e.g. "libc-probe" or "toolchain-list".
	Op string
	// Err is the underlying failure.
	Err error
}

// String renders the warning for logs and reports.
func (w Warning) String() string {
	if w.Err == nil {
		return w.Op
	}
	return w.Op + ": " + w.Err.Error()
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: rustplug doctor",
	}
}

// Classify maps a lifecycle error onto an ExitError with a suggestion the
// user can act on. Errors that are already ExitErrors pass through.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case crdb.Is(err, ErrUnsupportedTarget):
		return NewUserError(err, "rustup publishes no toolchain for this host; see https://rust-lang.github.io/rustup-components-history/")
	case crdb.Is(err, ErrInstallerMissing):
		return NewSystemError(err, "Install rustup from https://rustup.rs and make sure it is on PATH")
	case crdb.Is(err, ErrMalformedInventoryEntry):
		return NewSystemError(err, "Remove or rename the directory under the rustup toolchains folder")
	case crdb.Is(err, ErrInvalidConfig):
		return NewConfigError(err)
	case crdb.Is(err, ErrExternalCommandFailed):
		return NewSystemError(err, "")
	default:
		return NewExitError(err, ExitSystem)
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
