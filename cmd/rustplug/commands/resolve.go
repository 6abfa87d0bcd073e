package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/errors"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <version>",
	Short: "Resolve a version specifier to a channel",
	Long: `Apply the channel rules to a version specifier.

"canary" resolves to nightly; stable, beta and nightly (including dated
nightlies) resolve to themselves. Anything else is left for the version
manager to resolve, and nothing is printed.`,
	Example: `  rustplug resolve canary
  rustplug resolve nightly-2024-02-29`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		out, err := p.ResolveVersion(args[0])
		if err != nil {
			return errors.NewUserError(err, "pass a version such as stable or 1.70.0")
		}
		return writeOutput(cmd, out, func(w io.Writer) error {
			if out.Version == "" {
				return nil
			}
			_, err := fmt.Fprintln(w, out.Version)
			return err
		})
	},
}
