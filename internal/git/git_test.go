package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/execx/mocks"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		// Valid URLs
		{"https", "https://github.com/rust-lang/rust", false},
		{"https with suffix", "https://github.com/rust-lang/rust.git", false},
		{"ssh", "ssh://git@github.com/rust-lang/rust.git", false},
		{"git", "git://github.com/rust-lang/rust.git", false},
		{"file", "file:///srv/mirrors/rust.git", false},
		{"scp-like", "git@github.com:rust-lang/rust.git", false},

		// Invalid URLs
		{"empty", "", true},
		{"argument injection", "-oProxyCommand=touch /tmp/pwned", true},
		{"ext protocol", "ext::sh -c touch% /tmp/pwned", true},
		{"unknown scheme", "ftp://github.com/rust-lang/rust.git", true},
		{"missing scheme", "github.com/rust-lang/rust.git", true},
		{"scp-like missing git suffix", "git@github.com:rust-lang/rust", true},
		{"missing host", "https:///rust", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidURL) {
				t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidURL", tt.url, err)
			}
		})
	}
}

func TestParseLsRemote(t *testing.T) {
	output := strings.Join([]string{
		"a1b2\trefs/tags/0.1",
		"c3d4\trefs/tags/1.0.0",
		"e5f6\trefs/tags/1.0.0^{}",
		"0710\trefs/tags/release-0.12",
		"89ab\trefs/heads/master",
		"",
		"cdef\trefs/tags/1.70.0",
	}, "\n")

	assert.Equal(t, []string{"0.1", "1.0.0", "release-0.12", "1.70.0"}, ParseLsRemote(output))
	assert.Empty(t, ParseLsRemote(""))
}

func TestClient_ListTags(t *testing.T) {
	runner := mocks.NewMockRunner(t)
	want := execx.Command{Name: "git", Args: []string{"ls-remote", "--tags", "https://github.com/rust-lang/rust"}, Mode: execx.ModeCapture}
	runner.EXPECT().Run(mock.Anything, want).Return(execx.Result{Stdout: "abc\trefs/tags/1.70.0\n"}, nil).Once()

	tags, err := NewClient(runner).ListTags(context.Background(), "https://github.com/rust-lang/rust")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.70.0"}, tags)
}

func TestClient_ListTags_Errors(t *testing.T) {
	runner := mocks.NewMockRunner(t)
	c := NewClient(runner)

	_, err := c.ListTags(context.Background(), "-upload-pack=evil")
	assert.True(t, errors.Is(err, ErrInvalidURL))

	runner.EXPECT().Run(mock.Anything, mock.Anything).
		Return(execx.Result{ExitCode: 128}, &errors.CommandError{Command: "git", ExitCode: 128}).Once()
	_, err = c.ListTags(context.Background(), "https://example.invalid/rust")
	assert.True(t, errors.Is(err, errors.ErrExternalCommandFailed))
}

func TestClient_ListTags_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo := filepath.Join(t.TempDir(), "source")
	createLocalGitRepo(t, repo)
	runGit(t, repo, "tag", "1.69.0")
	runGit(t, repo, "tag", "-a", "1.70.0", "-m", "release 1.70.0")

	tags, err := NewClient(execx.NewOSRunner()).ListTags(context.Background(), "file://"+filepath.ToSlash(repo))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1.69.0", "1.70.0"}, tags)
}

func createLocalGitRepo(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repo"), 0o644); err != nil {
		t.Fatal(err)
	}

	runGit(t, dir, "add", "README.md")
	runGit(t, dir, "commit", "-m", "initial commit")
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, out)
	}
}
