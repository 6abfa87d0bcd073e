// Package logging provides structured logging for rustplug using slog.
//
// The terminal handler prints "time LEVEL message key=value" lines, colored
// when stderr is a TTY, and masks values that look like registry tokens or
// URLs with embedded credentials. [MultiHandler] tees records to the JSON log
// file selected with --log-file.
//
// Lifecycle code never reaches for a global logger: commands store one in
// the context with [NewContext] and collaborators read it back with
// [FromContext]. Best-effort failures are reported with [LogWarnings].
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestInstall(t *testing.T) {
//		ctx := logging.NewContext(t.Context(), logging.ForTest(t))
//		// ...
//	}
package logging
