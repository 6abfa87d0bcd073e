// Package main is the entry point for the rustplug CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/thoreinstein/rustplug/cmd/rustplug/commands"
	"github.com/thoreinstein/rustplug/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.Execute(ctx)
	stop()

	if exitErr := errors.Classify(err); exitErr != nil {
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "Error:", exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, "Suggestion:", exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
}
