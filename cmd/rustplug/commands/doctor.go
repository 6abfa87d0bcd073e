package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/doctor"
	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/triple"
)

var (
	doctorAll bool
	doctorFix bool
)

func init() {
	doctorCmd.Flags().BoolVarP(&doctorAll, "all", "a", false,
		"show every check, including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"attempt to fix what can be fixed, then check again")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the rustup setup",
	Long: `Run diagnostic checks on rustup, the rust homes, the target triple and
the installed toolchains.

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  rustplug doctor
  rustplug doctor --all
  rustplug doctor --fix
  rustplug doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	// A broken config is reported as a check result rather than aborting.
	env, err := currentEnv()
	if err != nil {
		return err
	}
	host := currentHost()
	fs := newFs()
	runner := newRunner()
	resolver := triple.NewResolver(runner)

	r := doctor.NewRunner()
	r.AddCheck(newConfigCheck())
	r.AddCheck(doctor.NewRustupCheck(runner))
	r.AddCheck(doctor.NewHomeCheck(fs, env))
	r.AddCheck(doctor.NewTripleCheck(resolver, host))
	r.AddCheck(doctor.NewInventoryCheck(fs, resolver, host, env))
	path, _ := lookupEnv("PATH")
	r.AddCheck(doctor.NewCargoBinCheck(fs, env, path))

	ctx := cmd.Context()
	report := r.Run(ctx)

	if doctorFix {
		fixes := r.Fix(ctx)
		if len(fixes) > 0 {
			if format, _ := currentFormat(); format == formatText {
				if err := doctor.RenderFixes(cmd.OutOrStdout(), fixes); err != nil {
					return err
				}
			}
			report = r.Run(ctx)
		}
	}

	if err := writeOutput(cmd, report, func(w io.Writer) error {
		return doctor.Render(w, report, doctorAll)
	}); err != nil {
		return err
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(nil, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(nil, errors.ExitUser)
	default:
		return nil
	}
}

// configCheck reports the outcome of loading the config file.
type configCheck struct {
	err error
}

func newConfigCheck() *configCheck {
	return &configCheck{err: configLoadErr}
}

func (c *configCheck) Name() string     { return "config" }
func (c *configCheck) Category() string { return "config" }

func (c *configCheck) Run(_ context.Context) *doctor.CheckResult {
	if c.err != nil {
		return &doctor.CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   doctor.SeverityError,
			Message:  c.err.Error(),
			FixHint:  "fix or remove the config file; see: rustplug config list",
		}
	}
	msg := "using defaults"
	if used := configFileUsed(); used != "" {
		msg = "loaded " + used
	}
	return &doctor.CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   doctor.SeverityPass,
		Message:  msg,
	}
}
