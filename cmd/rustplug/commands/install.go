package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/install"
	"github.com/thoreinstein/rustplug/internal/logging"
	"github.com/thoreinstein/rustplug/internal/version"
)

var installToolDir string

func init() {
	installCmd.Flags().StringVar(&installToolDir, "tool-dir", "",
		"toolchain directory to check for binaries (default: <rustup home>/toolchains/<channel>-<triple>)")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

var installCmd = &cobra.Command{
	Use:   "install <version>",
	Short: "Install a toolchain with rustup",
	Long: `Install a toolchain, bootstrapping rustup first when it is not on PATH.

A toolchain that rustup lists and whose directory has a bin folder is left
alone. One that rustup lists without binaries is uninstalled and installed
again. Anything else is installed with "rustup toolchain install --force".`,
	Example: `  rustplug install stable
  rustplug install 1.70.0
  rustplug install canary

See Also: rustplug uninstall, rustplug sync`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}

		out, err := p.NativeInstall(cmd.Context(), args[0], installToolDir)
		logging.LogWarnings(commandLogger(cmd), out.Warnings)
		if err != nil {
			return specError(err)
		}

		return writeOutput(cmd, out, func(w io.Writer) error {
			return printInstallOutcome(w, out)
		})
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <version>",
	Short: "Uninstall a toolchain with rustup",
	Long:  `Remove a toolchain with "rustup toolchain uninstall". rustup must already be installed.`,
	Example: `  rustplug uninstall 1.70.0
  rustplug uninstall nightly`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}

		out, err := p.NativeUninstall(cmd.Context(), args[0])
		if err != nil {
			return specError(err)
		}

		return writeOutput(cmd, out, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Uninstalled %s\n", out.Channel)
			return err
		})
	},
}

func printInstallOutcome(w io.Writer, out install.Outcome) error {
	if out.Bootstrapped {
		if _, err := fmt.Fprintln(w, "Installed rustup"); err != nil {
			return err
		}
	}
	var msg string
	switch out.Decision {
	case install.DecisionSkip:
		msg = fmt.Sprintf("%s is already installed", out.Target)
	case install.DecisionRepair:
		msg = fmt.Sprintf("Reinstalled broken toolchain %s", out.Target)
	default:
		msg = fmt.Sprintf("Installed %s", out.Target)
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

// specError turns an empty version argument into a user error.
func specError(err error) error {
	if errors.Is(err, version.ErrEmptySpecifier) {
		return errors.NewUserError(err, "pass a version such as stable or 1.70.0")
	}
	return err
}
