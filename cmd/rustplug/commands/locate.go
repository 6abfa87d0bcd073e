package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/plugin"
)

var locateExpand bool

func init() {
	locateCmd.Flags().BoolVar(&locateExpand, "expand", false,
		"also print the globals directories resolved for this environment")
	rootCmd.AddCommand(locateCmd)
}

// locateOutput adds the resolved globals directories to the executables.
type locateOutput struct {
	plugin.Executables  `yaml:",inline"`
	ResolvedGlobalsDirs []string `json:"resolved_globals_dirs,omitempty" yaml:"resolved_globals_dirs,omitempty"`
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Describe where cargo and global crates live",
	Long: `Print the primary executable path (relative to the toolchain directory)
and the directories globally installed crates are looked up in.

rustup already puts cargo on PATH, so the primary executable is neither
linked nor shimmed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		out := locateOutput{Executables: p.LocateExecutables()}
		if locateExpand {
			out.ResolvedGlobalsDirs = p.ExpandGlobalsDirs()
		}
		return writeOutput(cmd, out, nil)
	},
}
