// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"strings"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/paths"
)

// Command returns the editor invocation for path: $EDITOR, then $VISUAL,
// then nano when it is on PATH, then vi. Editor variables may carry
// arguments, e.g. "code --wait".
func Command(lookup paths.LookupFunc, runner execx.Runner, path string) execx.Command {
	fields := detect(lookup, runner)
	return execx.Command{
		Name: fields[0],
		Args: append(fields[1:], path),
		Mode: execx.ModeInherit,
	}
}

// Open runs the editor on path with the terminal attached.
func Open(ctx context.Context, lookup paths.LookupFunc, runner execx.Runner, path string) error {
	if _, err := runner.Run(ctx, Command(lookup, runner, path)); err != nil {
		return errors.Wrap(err, "running editor")
	}
	return nil
}

func detect(lookup paths.LookupFunc, runner execx.Runner) []string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if v, ok := lookup(key); ok {
			if fields := strings.Fields(v); len(fields) > 0 {
				return fields
			}
		}
	}
	if _, err := runner.LookPath("nano"); err == nil {
		return []string{"nano"}
	}
	return []string{"vi"}
}
