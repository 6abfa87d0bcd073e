package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	globalCmd.AddCommand(globalInstallCmd)
	globalCmd.AddCommand(globalUninstallCmd)
	rootCmd.AddCommand(globalCmd)
}

var globalCmd = &cobra.Command{
	Use:   "global",
	Short: "Manage globally installed cargo packages",
	Long: `Install and uninstall crates with cargo. Binaries land in the cargo bin
directory (or CARGO_INSTALL_ROOT).`,
}

var globalInstallCmd = &cobra.Command{
	Use:     "install <crate>",
	Short:   "Install a crate with cargo install --force",
	Example: `  rustplug global install ripgrep`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		out, err := p.InstallGlobal(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Installed %s\n", out.Dependency)
			return err
		})
	},
}

var globalUninstallCmd = &cobra.Command{
	Use:     "uninstall <crate>",
	Short:   "Remove a crate with cargo uninstall",
	Example: `  rustplug global uninstall ripgrep`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		out, err := p.UninstallGlobal(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Uninstalled %s\n", out.Dependency)
			return err
		})
	},
}
