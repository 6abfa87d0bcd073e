package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/plugin"
	"github.com/thoreinstein/rustplug/internal/toolchainfile"
	"github.com/thoreinstein/rustplug/pkg/fileutil"
)

func init() {
	rootCmd.AddCommand(detectFilesCmd)
	rootCmd.AddCommand(parseFileCmd)
}

var detectFilesCmd = &cobra.Command{
	Use:   "detect-files",
	Short: "List the files that pin a toolchain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}
		files := p.DetectVersionFiles()
		return writeOutput(cmd, map[string][]string{"files": files}, func(w io.Writer) error {
			for _, f := range files {
				if _, err := fmt.Fprintln(w, f); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var parseFileCmd = &cobra.Command{
	Use:   "parse-file [path]",
	Short: "Print the version pinned by a toolchain file",
	Long: `Read a rust-toolchain.toml or rust-toolchain file and print the channel
it pins. Without a path the nearest toolchain file in the current directory
or its parents is used.

Nothing is printed when the file pins no channel.`,
	Example: `  rustplug parse-file
  rustplug parse-file ./rust-toolchain.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPlugin(cmd)
		if err != nil {
			return err
		}

		path, err := toolchainFilePath(p, args)
		if err != nil {
			return err
		}
		commandLogger(cmd).Debug("parsing toolchain file", "path", path)

		content, err := fileutil.ReadFileWithLimitFs(p.Fs(), path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		out, err := p.ParseVersionFile(filepath.Base(path), content)
		if err != nil {
			return errors.NewUserError(errors.Wrapf(err, "parsing %s", path), "")
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

func toolchainFilePath(p *plugin.Plugin, args []string) (string, error) {
	if len(args) == 1 {
		if !toolchainfile.LooksLikePath(args[0]) {
			return "", errors.NewUserError(
				errors.Newf("%q is not a toolchain file", args[0]),
				"pass a path to rust-toolchain.toml or rust-toolchain")
		}
		return args[0], nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getting working directory")
	}
	path, ok := toolchainfile.Find(p.Fs(), cwd)
	if !ok {
		return "", errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "no toolchain file in %s or its parents", cwd),
			"create rust-toolchain.toml or pass a path")
	}
	return path, nil
}
