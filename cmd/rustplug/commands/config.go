package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rustplug/internal/config"
	"github.com/thoreinstein/rustplug/internal/editor"
	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/paths"
)

// configKeys are the settable keys, in display order.
var configKeys = []string{
	config.KeyVersion,
	config.KeyRustupHome,
	config.KeyCargoHome,
	config.KeyTempDir,
	config.KeyInstallerUnixURL,
	config.KeyInstallerWinURL,
	config.KeyRemoteRepository,
	config.KeyDefaultVersion,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rustplug configuration",
	Long: `Manage rustplug configuration stored in ~/.config/rustplug/config.yaml.

Every key can also be set through the environment, e.g. RUSTPLUG_DEFAULT_VERSION.
Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  rustplug config

  # Get a specific value
  rustplug config get default_version

  # Point at a different rustup home
  rustplug config set rustup_home ~/rust/rustup

See Also: rustplug doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key. Nested keys use dot notation.`,
	Example: `  rustplug config get installer.unix_url

See Also: rustplug config set, rustplug config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

The resulting configuration is validated before anything is written.
Valid keys: ` + strings.Join(configKeys, ", "),
	Example: `  rustplug config set default_version nightly
  rustplug config set remote.repository https://github.com/rust-lang/rust

See Also: rustplug config get, rustplug config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values, defaults included.`,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Long:  `Print the config file in use, or where "config set" would create one.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configWritePath())
		return err
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in your editor ($EDITOR, then $VISUAL, then nano or vi).
A config file with the defaults is created first when none exists.`,
	Example: `  rustplug config edit
  EDITOR="code --wait" rustplug config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	w := cmd.OutOrStdout()

	if !viper.IsSet(key) {
		fmt.Fprintln(w, "not set")
		return nil
	}

	switch v := viper.Get(key).(type) {
	case map[string]any:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return enc.Close()
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if !slices.Contains(configKeys, key) {
		return errors.NewUserError(
			errors.Newf("unknown config key %q", key),
			"valid keys: "+strings.Join(configKeys, ", "))
	}

	viper.Set(key, value)

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return errors.NewUserError(errors.Wrapf(err, "setting %s", key), "")
	}
	if errs := config.Validate(&cfg); len(errs) > 0 {
		return errors.NewUserError(errs[0], "")
	}

	path := configWritePath()
	if err := config.Save(path, viper.AllSettings()); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	commandLogger(cmd).Debug("wrote config", "path", path)

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configWritePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path, viper.AllSettings()); err != nil {
			return errors.Wrap(err, "creating config file")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	return editor.Open(cmd.Context(), lookupEnv, newRunner(), path)
}

// configView is the list output: the effective configuration.
type configView struct {
	File   string         `json:"file,omitempty" yaml:"file,omitempty"`
	Config *config.Config `json:"config" yaml:"config"`
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	view := configView{File: configFileUsed(), Config: currentConfig()}
	return writeOutput(cmd, view, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view.Config); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return enc.Close()
	})
}

func configFileUsed() string {
	return viper.ConfigFileUsed()
}

// configWritePath is the file in use, falling back to the default location.
func configWritePath() string {
	if used := configFileUsed(); used != "" {
		return used
	}
	return paths.DefaultConfigPath()
}
