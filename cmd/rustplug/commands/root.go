// Package commands implements the CLI commands for rustplug.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rustplug/internal/config"
	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/fetch"
	"github.com/thoreinstein/rustplug/internal/logging"
	"github.com/thoreinstein/rustplug/internal/paths"
	"github.com/thoreinstein/rustplug/internal/plugin"
	"github.com/thoreinstein/rustplug/internal/triple"
)

// EnvDebug raises verbosity when no -v flag is given: "1"/"true" for debug,
// "2" for trace.
const EnvDebug = "RUSTPLUG_DEBUG"

var (
	// verbosity holds the count of -v flags.
	verbosity int
	// quiet holds the value of the -q/--quiet flag.
	quiet bool
	// logFormat holds the value of the --log-format flag.
	logFormat string
	// logFile holds the path to the log file.
	logFile string
	// outputFormat is text, json or yaml.
	outputFormat string
	// jsonOutput is shorthand for --format json.
	jsonOutput bool
	// configPath selects an explicit config file.
	configPath string
	// rustupHomeFlag overrides RUSTUP_HOME and the configured rustup home.
	rustupHomeFlag string
	// archFlag and osFlag override the detected host.
	archFlag string
	osFlag   string
)

// loadedConfig and configLoadErr are set by initConfig.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

// logFileHandle is the open --log-file, closed when the command finishes.
var logFileHandle *os.File

// Seams for tests.
var (
	newRunner  = func() execx.Runner { return execx.NewOSRunner() }
	newFetcher = func() fetch.Fetcher { return fetch.NewHTTPFetcher(paths.AppName + "/" + Version) }
	newFs      = afero.NewOsFs
	lookupEnv  = os.LookupEnv
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	flags.BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	flags.StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	flags.StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	flags.StringVarP(&outputFormat, "format", "o", formatText,
		"output format: text, json, yaml")
	flags.BoolVar(&jsonOutput, "json", false,
		"shorthand for --format json")
	flags.StringVar(&configPath, "config", "",
		"config file (default: search $RUSTPLUG_CONFIG_DIR, ., ~/.config/rustplug)")
	flags.StringVar(&rustupHomeFlag, "rustup-home", "",
		"rustup home directory (overrides RUSTUP_HOME)")
	flags.StringVar(&archFlag, "arch", "",
		"host architecture (default: detected)")
	flags.StringVar(&osFlag, "os", "",
		"host operating system (default: detected)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("rustplug version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configPath)
}

var rootCmd = &cobra.Command{
	Use:   "rustplug",
	Short: "Rust toolchain plugin for version managers",
	Long: `rustplug manages Rust toolchains on behalf of a version manager.

It delegates the heavy lifting to rustup: rustup is bootstrapped when it is
missing, toolchains are installed and repaired through it, and the installed
releases are reconciled from the rustup toolchains directory.

Toolchains are named <channel>-<target triple>, e.g. stable-x86_64-unknown-linux-gnu.`,
	Example: `  # Describe the tool to the version manager
  rustplug register

  # Install the latest stable toolchain
  rustplug install stable

  # List installed releases
  rustplug sync

  # Check the rustup setup
  rustplug doctor

  See Also: rustplug versions, rustplug config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLogFile()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"), "pass only one of them")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := lookupEnv(EnvDebug); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handler := primary
	if err := closeLogFile(); err != nil {
		return err
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		logFileHandle = f
		handler = logging.NewMultiHandler(primary, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load errors for every command except the
// ones that must work with a broken config.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "doctor":
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// currentConfig returns the loaded config, or defaults when loading failed.
func currentConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	return config.Default()
}

// currentHost returns the detected host with --arch/--os applied.
func currentHost() triple.Host {
	host := triple.HostFromRuntime()
	if archFlag != "" {
		host.Arch = archFlag
	}
	if osFlag != "" {
		host.OS = osFlag
	}
	return host
}

// currentEnv resolves the rust homes: flag over config over environment.
func currentEnv() (paths.Env, error) {
	env, err := currentConfig().Env(lookupEnv)
	if err != nil {
		return paths.Env{}, errors.Wrap(err, "resolving rust homes")
	}
	if rustupHomeFlag != "" {
		home, err := paths.Expand(rustupHomeFlag)
		if err != nil {
			return paths.Env{}, errors.NewUserError(err, "pass an absolute --rustup-home")
		}
		env.RustupHome = home
	}
	return env, nil
}

// processRunner returns the runner for cmd. With a structured output format
// the child processes' stdout goes to stderr so the result stays parseable.
func processRunner(cmd *cobra.Command) execx.Runner {
	runner := newRunner()
	if format, err := currentFormat(); err == nil && format != formatText {
		if osr, ok := runner.(*execx.OSRunner); ok {
			osr.Stdout = cmd.ErrOrStderr()
		}
	}
	return runner
}

// newPlugin builds a Plugin for one command invocation.
func newPlugin(cmd *cobra.Command) (*plugin.Plugin, error) {
	env, err := currentEnv()
	if err != nil {
		return nil, err
	}
	cfg := currentConfig()
	return plugin.New(plugin.Options{
		Env:                 env,
		Host:                currentHost(),
		Runner:              processRunner(cmd),
		Fetcher:             newFetcher(),
		Fs:                  newFs(),
		TempDir:             cfg.TempDir,
		UnixInstallerURL:    cfg.Installer.UnixURL,
		WindowsInstallerURL: cfg.Installer.WindowsURL,
		Repository:          cfg.Remote.Repository,
		DefaultVersion:      cfg.DefaultVersion,
		PluginVersion:       Version,
	}), nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeLogFile(); err == nil {
		err = cerr
	}
	return err
}

// closeLogFile closes the --log-file handle, if one is open.
func closeLogFile() error {
	if logFileHandle == nil {
		return nil
	}
	f := logFileHandle
	logFileHandle = nil
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing log file %s", f.Name())
	}
	return nil
}
