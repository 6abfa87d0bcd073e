package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/logging"
)

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(tripleCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Describe the tool to the version manager",
	Long: `Print the tool metadata: its name, default version and where the
version manager finds installed toolchains.

Toolchains are kept in the rustup home and suffixed with the host's target
triple, so the triple is derived here.`,
	Example: `  rustplug register
  rustplug register --json

See Also: rustplug triple`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		md, err := p.Register(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, md, nil)
	},
}

var tripleCmd = &cobra.Command{
	Use:   "triple",
	Short: "Print the target triple for this host",
	Long: `Derive the Rust target triple from the host architecture and OS.
On Linux the libc flavor is detected with ldd; when that fails glibc is
assumed and a warning is logged.`,
	Example: `  rustplug triple
  rustplug triple --arch arm64 --os darwin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		res, err := p.DeriveTriple(cmd.Context())
		if err != nil {
			return err
		}
		logging.LogWarnings(commandLogger(cmd), res.Warnings)

		out := map[string]string{"triple": res.Triple.String()}
		return writeOutput(cmd, out, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, res.Triple)
			return err
		})
	},
}
