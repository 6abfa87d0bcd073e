package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rustplug/internal/config"
	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	withSeams(t)
	t.Cleanup(resetFlags)

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			verbosity = tt.verbosity
			require.NoError(t, setupLogging(rootCmd))

			logger := slog.Default()
			assert.True(t, logger.Enabled(t.Context(), tt.wantLevel))
			if tt.wantLevel > logging.LevelTrace {
				assert.False(t, logger.Enabled(t.Context(), tt.wantLevel-4))
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	s := withSeams(t)
	t.Cleanup(resetFlags)

	tests := []struct {
		envVal    string
		wantLevel slog.Level
	}{
		{"1", slog.LevelDebug},
		{"true", slog.LevelDebug},
		{"2", logging.LevelTrace},
		{"0", slog.LevelWarn},
		{"foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(EnvDebug+"="+tt.envVal, func(t *testing.T) {
			resetFlags()
			s.env[EnvDebug] = tt.envVal
			require.NoError(t, setupLogging(rootCmd))

			logger := slog.Default()
			assert.True(t, logger.Enabled(t.Context(), tt.wantLevel))
			if tt.wantLevel == slog.LevelDebug {
				assert.False(t, logger.Enabled(t.Context(), logging.LevelTrace))
			}
		})
	}
}

func TestSetupLogging_QuietAndVerbose(t *testing.T) {
	t.Cleanup(resetFlags)
	resetFlags()
	quiet = true
	verbosity = 1

	err := setupLogging(rootCmd)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.Classify(err).Code)
}

func TestCurrentHost_Overrides(t *testing.T) {
	t.Cleanup(resetFlags)
	resetFlags()
	archFlag, osFlag = "riscv64", "linux"

	host := currentHost()
	assert.Equal(t, "riscv64", host.Arch)
	assert.Equal(t, "linux", host.OS)
}

func TestDocFrontmatter(t *testing.T) {
	got := docFrontmatter("/tmp/docs/rustplug_global_install.md")
	assert.Contains(t, got, `title: "global install"`)
	assert.Equal(t, "/reference/rustplug_sync/", docLink("rustplug_sync.md"))
}

func TestLogFile_ClosedAfterSuccess(t *testing.T) {
	withSeams(t)
	t.Cleanup(resetFlags)
	path := filepath.Join(t.TempDir(), "rustplug.log")

	for range 2 {
		_, err := execute(t, "resolve", "canary", "--log-file", path, "-vv")
		require.NoError(t, err)
		assert.Nil(t, logFileHandle)
	}

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestLogFile_ClosedAfterError(t *testing.T) {
	withSeams(t)
	t.Cleanup(resetFlags)
	resetFlags()
	t.Setenv(config.EnvConfigDir, t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "rustplug.log")

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"resolve", "canary", "--format", "xml", "--log-file", path})

	err := Execute(context.Background())
	require.Error(t, err)
	assert.Nil(t, logFileHandle)
}

func TestProcessRunner_StructuredOutputUsesStderr(t *testing.T) {
	t.Cleanup(resetFlags)
	orig := newRunner
	t.Cleanup(func() { newRunner = orig })
	newRunner = func() execx.Runner { return &execx.OSRunner{Stdout: os.Stdout, Stderr: os.Stderr} }

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() { rootCmd.SetErr(nil) })

	tests := []struct {
		name       string
		format     string
		json       bool
		wantStderr bool
	}{
		{"text", formatText, false, false},
		{"json flag", formatText, true, true},
		{"yaml", formatYAML, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			outputFormat, jsonOutput = tt.format, tt.json

			runner, ok := processRunner(rootCmd).(*execx.OSRunner)
			require.True(t, ok)
			if tt.wantStderr {
				assert.Same(t, &stderr, runner.Stdout)
			} else {
				assert.Equal(t, os.Stdout, runner.Stdout)
			}
		})
	}
}
