package manifest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/triple"
)

var (
	windowsMSVC = triple.Triple{Arch: "x86_64", OS: "pc-windows-msvc"}
	linuxGNU    = triple.Triple{Arch: "x86_64", OS: "unknown-linux", Libc: triple.LibcGNU}
)

const root = "/home/user/.rustup/toolchains"

func fixture(t *testing.T, dirs []string, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0o755))
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(filepath.Join(root, d, "bin"), 0o755))
	}
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(root, f), []byte("x"), 0o644))
	}
	return fs
}

func TestReconcile_ExcludesChannelNames(t *testing.T) {
	fs := fixture(t, []string{
		"stable-x86_64-pc-windows-msvc",
		"1.70.0-x86_64-pc-windows-msvc",
	})

	set, err := NewReconciler(fs).Reconcile(context.Background(), root, windowsMSVC)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.70.0"}, set.Strings())
}

func TestReconcile_InaccessibleRootIsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()

	set, err := NewReconciler(fs).Reconcile(context.Background(), "/does/not/exist", linuxGNU)
	require.NoError(t, err)
	assert.True(t, set.Empty())
	assert.Nil(t, set.Strings())
}

func TestReconcile_FiltersAndSorts(t *testing.T) {
	fs := fixture(t, []string{
		"1.70.0-x86_64-unknown-linux-gnu",
		"1.9.0-x86_64-unknown-linux-gnu",
		"1.75.0-x86_64-unknown-linux-gnu",
		"1.80.0-x86_64-unknown-linux-musl",
		"1.81.0-aarch64-unknown-linux-gnu",
		"beta-x86_64-unknown-linux-gnu",
		"nightly-2024-01-01-x86_64-unknown-linux-gnu",
		"nightly-x86_64-unknown-linux-gnu",
		"unrelated",
	}, "1.60.0-x86_64-unknown-linux-gnu")

	set, err := NewReconciler(fs).Reconcile(context.Background(), root, linuxGNU)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.9.0", "1.70.0", "1.75.0"}, set.Strings())
	assert.Equal(t, 3, set.Len())
}

func TestReconcile_MalformedEntry(t *testing.T) {
	tests := []string{
		"garbage-x86_64-unknown-linux-gnu",
		"1.70-x86_64-unknown-linux-gnu",
		"-x86_64-unknown-linux-gnu",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			fs := fixture(t, []string{"1.70.0-x86_64-unknown-linux-gnu", name})

			_, err := NewReconciler(fs).Reconcile(context.Background(), root, linuxGNU)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMalformedInventoryEntry))

			var malformed *errors.MalformedEntryError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, name, malformed.Name)
		})
	}
}

func TestReconcile_Empty(t *testing.T) {
	fs := fixture(t, []string{"stable-x86_64-unknown-linux-gnu"})

	set, err := NewReconciler(fs).Reconcile(context.Background(), root, linuxGNU)
	require.NoError(t, err)
	assert.True(t, set.Empty())
}

func TestChannels(t *testing.T) {
	fs := fixture(t, []string{
		"stable-x86_64-unknown-linux-gnu",
		"nightly-2024-01-01-x86_64-unknown-linux-gnu",
		"1.70.0-x86_64-unknown-linux-gnu",
		"beta-aarch64-apple-darwin",
	})

	r := NewReconciler(fs)
	assert.Equal(t, []string{"nightly-2024-01-01", "stable"}, r.Channels(root, linuxGNU))
	assert.Nil(t, r.Channels("/missing", linuxGNU))
}

func TestVersionSet(t *testing.T) {
	set := NewVersionSet(semver.MustParse("1.2.0"), semver.MustParse("1.1.0"), semver.MustParse("1.2.0"))
	assert.Equal(t, []string{"1.1.0", "1.2.0"}, set.Strings())

	vs := set.Versions()
	vs[0] = semver.MustParse("9.9.9")
	assert.Equal(t, "1.1.0", set.Versions()[0].String(), "Versions must return a copy")

	assert.True(t, VersionSet{}.Empty())
}
