package manifest

import (
	"context"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/logging"
	"github.com/thoreinstein/rustplug/internal/triple"
	"github.com/thoreinstein/rustplug/internal/version"
)

// VersionSet is the ordered, duplicate-free set of installed releases.
type VersionSet struct {
	versions []*semver.Version
}

// NewVersionSet sorts and deduplicates vs.
func NewVersionSet(vs ...*semver.Version) VersionSet {
	return VersionSet{versions: version.Sort(vs)}
}

// Empty reports whether nothing was found. Callers treat an empty set as
// "no override" rather than "everything was uninstalled".
func (s VersionSet) Empty() bool {
	return len(s.versions) == 0
}

// Len returns the number of versions.
func (s VersionSet) Len() int {
	return len(s.versions)
}

// Versions returns the versions in ascending order.
func (s VersionSet) Versions() []*semver.Version {
	out := make([]*semver.Version, len(s.versions))
	copy(out, s.versions)
	return out
}

// Strings returns the versions rendered in ascending order, or nil when
// the set is empty.
func (s VersionSet) Strings() []string {
	if s.Empty() {
		return nil
	}
	return version.Strings(s.versions)
}

// Reconciler rebuilds the installed-version set from the toolchain root.
type Reconciler struct {
	Fs afero.Fs
}

// NewReconciler returns a Reconciler reading from fs.
func NewReconciler(fs afero.Fs) *Reconciler {
	return &Reconciler{Fs: fs}
}

// Reconcile lists root and returns the releases installed for t. Entries
// for other triples, plain files and channel-named toolchains (stable,
// beta, nightly-*) are skipped. An unreadable root yields an empty set; a
// matching entry whose identity is neither a channel nor a strict version
// fails with *errors.MalformedEntryError.
func (r *Reconciler) Reconcile(ctx context.Context, root string, t triple.Triple) (VersionSet, error) {
	logger := logging.FromContext(ctx)

	entries, err := afero.ReadDir(r.Fs, root)
	if err != nil {
		logger.Debug("toolchain root not readable, treating as empty", "root", root, "error", err)
		return VersionSet{}, nil
	}

	suffix := "-" + t.String()
	var found []*semver.Version
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		identity, ok := strings.CutSuffix(name, suffix)
		if !ok {
			continue
		}

		spec, err := version.Parse(identity)
		if err != nil {
			return VersionSet{}, &errors.MalformedEntryError{Name: name, Err: err}
		}
		if version.IsNonVersionChannel(spec) {
			logger.Log(ctx, logging.LevelTrace, "skipping channel toolchain", "name", name)
			continue
		}
		exact, ok := spec.(version.Exact)
		if !ok {
			return VersionSet{}, &errors.MalformedEntryError{
				Name: name,
				Err:  errors.Newf("%q is not a release version", identity),
			}
		}
		found = append(found, exact.Version)
	}

	set := NewVersionSet(found...)
	logger.Debug("reconciled toolchains", "root", root, "triple", t.String(), "count", set.Len())
	return set, nil
}

// Channels lists the channel-named toolchains installed for t, sorted by
// name. Unreadable roots yield nil.
func (r *Reconciler) Channels(root string, t triple.Triple) []string {
	entries, err := afero.ReadDir(r.Fs, root)
	if err != nil {
		return nil
	}
	suffix := "-" + t.String()
	var channels []string
	for _, entry := range entries {
		identity, ok := strings.CutSuffix(entry.Name(), suffix)
		if !entry.IsDir() || !ok || identity == "" {
			continue
		}
		if version.IsChannelName(identity) {
			channels = append(channels, identity)
		}
	}
	sort.Strings(channels)
	return channels
}
