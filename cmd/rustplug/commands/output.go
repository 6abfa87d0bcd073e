package commands

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/logging"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// currentFormat returns the effective output format.
func currentFormat() (string, error) {
	if jsonOutput {
		return formatJSON, nil
	}
	switch outputFormat {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return outputFormat, nil
	default:
		return "", errors.NewUserError(
			errors.Newf("unknown output format %q", outputFormat),
			"use --format text, json or yaml")
	}
}

// writeOutput renders v in the selected format. In text mode text is used
// when given, otherwise v is written as YAML.
func writeOutput(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	format, err := currentFormat()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch {
	case format == formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	case format == formatText && text != nil:
		return text(w)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return enc.Close()
	}
}

// commandLogger returns the logger installed by setupLogging.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	return logging.FromContext(cmd.Context())
}
