package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
)

func TestVersionsFromTags(t *testing.T) {
	out := VersionsFromTags(context.Background(), []string{
		"release-0.1", "0.12.0", "1.0.0-alpha", "1.0.0", "1.70.0", "1.9.0", "1.70.0", "1.8", "nightly",
	})
	assert.Equal(t, []string{"1.0.0-alpha", "1.0.0", "1.9.0", "1.70.0"}, out.Versions)
	assert.Equal(t, "1.70.0", out.Latest)
	assert.Equal(t, map[string]string{"latest": "1.70.0", "stable": "1.70.0"}, out.Aliases)
}

func TestVersionsFromTags_Empty(t *testing.T) {
	out := VersionsFromTags(context.Background(), []string{"release-0.1", "0.9"})
	assert.Empty(t, out.Versions)
	assert.Empty(t, out.Latest)
	assert.Nil(t, out.Aliases)
}

func TestLoadVersions(t *testing.T) {
	h := newHarness(t, darwin)
	h.runner.EXPECT().Run(mock.Anything, execx.Command{
		Name: "git", Args: []string{"ls-remote", "--tags", DefaultRepository}, Mode: execx.ModeCapture,
	}).Return(execx.Result{Stdout: "a\trefs/tags/1.69.0\nb\trefs/tags/1.70.0\nc\trefs/tags/1.70.0^{}\n"}, nil).Once()

	out, err := h.plugin.LoadVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.69.0", "1.70.0"}, out.Versions)
}

func TestLoadVersions_GitFails(t *testing.T) {
	h := newHarness(t, darwin)
	h.runner.EXPECT().Run(mock.Anything, mock.Anything).
		Return(execx.Result{ExitCode: 128}, &errors.CommandError{Command: "git", ExitCode: 128}).Once()

	_, err := h.plugin.LoadVersions(context.Background())
	assert.True(t, errors.Is(err, errors.ErrExternalCommandFailed))
}
