// Package errors provides error handling conventions for rustplug.
//
// This package defines the sentinel errors of the toolchain lifecycle, typed
// errors that carry the context a user needs to act on a failure, the
// best-effort [Warning] record, and an ExitError type for CLI exit codes.
// The wrapping helpers of github.com/cockroachdb/errors are re-exported so
// callers need a single import.
//
// # Fatal vs. best-effort
//
// Fatal conditions are returned as errors and abort the current invocation:
//
//   - [ErrUnsupportedTarget] via [UnsupportedTargetError]
//   - [ErrInstallerMissing] via [InstallerMissingError]
//   - [ErrExternalCommandFailed] via [CommandError]
//   - [ErrMalformedInventoryEntry] via [MalformedEntryError]
//
// Best-effort failures (a libc probe that could not run, a toolchain listing
// that failed) are never returned as errors. They are recorded as [Warning]
// values on the operation's result so a caller can log them and move on.
// [ErrInaccessiblePath] marks unreadable paths that are reported, never returned.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, network, external tools, etc.)
//
// [Classify] maps any lifecycle error onto an [ExitError]:
//
//	if exitErr := plugerrors.Classify(err); exitErr != nil {
//	    if exitErr.Suggestion != "" {
//	        fmt.Fprintln(os.Stderr, "Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
