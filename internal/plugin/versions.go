package plugin

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/logging"
	"github.com/thoreinstein/rustplug/internal/version"
)

// DefaultRepository publishes a tag per Rust release.
const DefaultRepository = "https://github.com/rust-lang/rust"

// VersionsOutput is the result of LoadVersions.
type VersionsOutput struct {
	Versions []string          `json:"versions" yaml:"versions"`
	Latest   string            `json:"latest,omitempty" yaml:"latest,omitempty"`
	Aliases  map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// LoadVersions lists released versions from the remote repository's tags.
// Pre-1.0 tags (release-*, 0.*) and anything that is not a strict version
// are dropped.
func (p *Plugin) LoadVersions(ctx context.Context) (VersionsOutput, error) {
	tags, err := p.git.ListTags(ctx, p.opts.Repository)
	if err != nil {
		return VersionsOutput{}, errors.Wrap(err, "loading versions")
	}
	return VersionsFromTags(ctx, tags), nil
}

// VersionsFromTags filters and orders raw tag names.
func VersionsFromTags(ctx context.Context, tags []string) VersionsOutput {
	logger := logging.FromContext(ctx)

	var found []*semver.Version
	for _, tag := range tags {
		if strings.HasPrefix(tag, "release-") || strings.HasPrefix(tag, "0.") {
			continue
		}
		v, err := version.ParseExact(tag)
		if err != nil {
			logger.Log(ctx, logging.LevelTrace, "skipping tag", "tag", tag)
			continue
		}
		found = append(found, v)
	}

	sorted := version.Sort(found)
	out := VersionsOutput{Versions: version.Strings(sorted)}
	if len(sorted) > 0 {
		out.Latest = sorted[len(sorted)-1].String()
		out.Aliases = map[string]string{
			"latest":       out.Latest,
			version.Stable: out.Latest,
		}
	}
	return out
}
