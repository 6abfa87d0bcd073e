package toolchainfile

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rustplug/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"legacy channel", LegacyFile, "nightly\n", "nightly"},
		{"legacy version", LegacyFile, "  1.70.0  ", "1.70.0"},
		{"legacy canary", LegacyFile, "canary", "canary"},
		{"legacy empty", LegacyFile, "", ""},
		{"legacy whitespace", LegacyFile, "\n\n", ""},
		{"legacy holding toml", LegacyFile, "[toolchain]\nchannel = \"beta\"\n", "beta"},
		{"toml channel", TOMLFile, "[toolchain]\nchannel = \"nightly-2024-01-01\"\ncomponents = [\"rustfmt\"]\n", "nightly-2024-01-01"},
		{"toml without channel", TOMLFile, "[toolchain]\nprofile = \"minimal\"\n", ""},
		{"toml without table", TOMLFile, "", ""},
		{"nested path", filepath.Join("project", TOMLFile), "[toolchain]\nchannel = \"1.75.0\"\n", "1.75.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.file, []byte(tt.content))
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("Cargo.toml", []byte("[package]\n"))
	assert.True(t, errors.Is(err, ErrUnknownFile))

	_, err = Parse(TOMLFile, []byte("[toolchain\nchannel ="))
	assert.Error(t, err)
}

func TestParseToolchain(t *testing.T) {
	tc, err := ParseToolchain([]byte(`
[toolchain]
channel = "stable"
components = ["clippy", "rustfmt"]
targets = ["wasm32-unknown-unknown"]
profile = "minimal"
`))
	require.NoError(t, err)
	assert.Equal(t, Toolchain{
		Channel:    "stable",
		Components: []string{"clippy", "rustfmt"},
		Targets:    []string{"wasm32-unknown-unknown"},
		Profile:    "minimal",
	}, tc)
}

func TestLoadAndFind(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/app/src/bin", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/work/rust-toolchain", []byte("beta\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/app/rust-toolchain", []byte("stable\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/app/rust-toolchain.toml", []byte("[toolchain]\nchannel = \"nightly\"\n"), 0o644))

	path, ok := Find(fs, "/work/app/src/bin")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/work/app", TOMLFile), path)

	spec, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "nightly", spec.String())

	path, ok = Find(fs, "/work")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/work", LegacyFile), path)

	_, ok = Find(afero.NewMemMapFs(), "/elsewhere")
	assert.False(t, ok)

	_, err = Load(fs, "/work/missing/rust-toolchain")
	assert.Error(t, err)
}

func TestLooksLikePath(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"./rust-toolchain", true},
		{"../rust-toolchain.toml", true},
		{"/abs/rust-toolchain", true},
		{"dir/rust-toolchain", true},
		{`C:\proj\rust-toolchain`, true},
		{"rust-toolchain.toml", true},
		{"stable", false},
		{"1.70.0", false},
		{"nightly-2024-01-01", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikePath(tt.arg), tt.arg)
	}
}
