package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "List the installed releases",
	Long: `Rebuild the set of installed releases from the rustup toolchains
directory. Only directories suffixed with this host's triple count, and
channels (stable, beta, nightly) are not releases.

Nothing is printed when no release is installed, meaning the version
manager's record should be left untouched.`,
	Example: `  rustplug sync
  rustplug sync --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		out, err := p.SyncManifest(cmd.Context())
		if err != nil {
			return err
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
