// Package git lists the tags of a remote repository with `git ls-remote`.
package git

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/logging"
)

// ErrInvalidURL indicates a repository URL that git should not be handed.
var ErrInvalidURL = errors.New("invalid repository url")

var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

var allowedSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// ValidateURL rejects anything other than a plain scheme URL or an
// scp-like SSH address. Option-looking values and git's ext:: transport
// are refused.
func ValidateURL(raw string) error {
	if raw == "" {
		return errors.Wrap(ErrInvalidURL, "empty")
	}
	if strings.HasPrefix(raw, "-") || strings.Contains(raw, "::") {
		return errors.Wrapf(ErrInvalidURL, "%q", raw)
	}
	if scpLike.MatchString(raw) {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || !allowedSchemes[u.Scheme] {
		return errors.Wrapf(ErrInvalidURL, "%q", raw)
	}
	if u.Scheme != "file" && u.Host == "" {
		return errors.Wrapf(ErrInvalidURL, "%q: missing host", raw)
	}
	return nil
}

// Client runs git through an execx.Runner.
type Client struct {
	Runner execx.Runner
}

// NewClient returns a Client using runner.
func NewClient(runner execx.Runner) *Client {
	return &Client{Runner: runner}
}

// ListTags returns the tag names of repo in the order git printed them,
// without the refs/tags/ prefix and with peeled ^{} duplicates folded.
func (c *Client) ListTags(ctx context.Context, repo string) ([]string, error) {
	if err := ValidateURL(repo); err != nil {
		return nil, err
	}

	cmd := execx.Command{Name: "git", Args: []string{"ls-remote", "--tags", repo}, Mode: execx.ModeCapture}
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "listing tags of %s", repo)
	}

	tags := ParseLsRemote(res.Stdout)
	logging.FromContext(ctx).Debug("listed remote tags", "repo", repo, "count", len(tags))
	return tags, nil
}

// ParseLsRemote extracts tag names from `git ls-remote --tags` output.
func ParseLsRemote(output string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, ok := strings.CutPrefix(fields[1], "refs/tags/")
		if !ok {
			continue
		}
		name = strings.TrimSuffix(name, "^{}")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}
