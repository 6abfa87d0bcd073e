package commands

import (
	"fmt"
	"io"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/plugin"
)

var versionsInteractive bool

func init() {
	versionsCmd.Flags().BoolVarP(&versionsInteractive, "interactive", "i", false,
		"pick a version with a fuzzy finder and print it")
	rootCmd.AddCommand(versionsCmd)
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List released Rust versions",
	Long: `List released Rust versions from the tags of the rust repository.

Pre-1.0 tags are skipped. The newest release is aliased as latest and stable.`,
	Example: `  rustplug versions
  rustplug versions --json
  rustplug versions -i`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		out, err := p.LoadVersions(cmd.Context())
		if err != nil {
			return err
		}

		if versionsInteractive {
			return pickVersion(cmd.OutOrStdout(), out)
		}

		return writeOutput(cmd, out, func(w io.Writer) error {
			for _, v := range out.Versions {
				if _, err := fmt.Fprintln(w, v); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func pickVersion(w io.Writer, out plugin.VersionsOutput) error {
	if len(out.Versions) == 0 {
		fmt.Fprintln(w, "No versions found.")
		return nil
	}

	// Newest first.
	choices := make([]string, len(out.Versions))
	for i, v := range out.Versions {
		choices[len(choices)-1-i] = v
	}

	idx, err := fuzzyfinder.Find(
		choices,
		func(i int) string { return choices[i] },
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			preview := "Version: " + choices[i]
			if choices[i] == out.Latest {
				preview += "\nAliases: latest, stable"
			}
			return preview + "\n\nInstall with:\n  rustplug install " + choices[i]
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive selection failed")
	}

	_, err = fmt.Fprintln(w, choices[idx])
	return err
}
