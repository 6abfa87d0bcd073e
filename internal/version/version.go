package version

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/thoreinstein/rustplug/internal/errors"
)

// Channel names understood by rustup.
const (
	Stable  = "stable"
	Beta    = "beta"
	Nightly = "nightly"

	// CanaryName is the specifier text for the rolling-latest marker.
	CanaryName = "canary"
)

// ErrEmptySpecifier indicates a blank specifier string.
var ErrEmptySpecifier = errors.New("empty version specifier")

// Specifier is a parsed version request. Exactly one of [Exact], [Alias]
// and [Canary] implements it.
type Specifier interface {
	// String returns the specifier as the user would write it.
	String() string

	specifier()
}

// Exact is a concrete release such as 1.70.0.
type Exact struct {
	Version *semver.Version
}

func (e Exact) String() string {
	if e.Version == nil {
		return ""
	}
	return e.Version.String()
}

func (Exact) specifier() {}

// Alias is a named track. Matching is case-sensitive.
type Alias struct {
	Name string
}

func (a Alias) String() string { return a.Name }

func (Alias) specifier() {}

// Canary installs from the nightly channel but is spelled differently.
type Canary struct{}

func (Canary) String() string { return CanaryName }

func (Canary) specifier() {}

// Parse classifies raw. Surrounding whitespace is ignored. A strict
// major.minor.patch[-pre][+build] string is Exact, "canary" is Canary and
// everything else is an Alias.
func Parse(raw string) (Specifier, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmptySpecifier
	}
	if s == CanaryName {
		return Canary{}, nil
	}
	if v, err := semver.StrictNewVersion(s); err == nil {
		return Exact{Version: v}, nil
	}
	return Alias{Name: s}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Specifier {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseExact parses raw as a concrete release and rejects anything else.
func ParseExact(raw string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing version %q", raw)
	}
	return v, nil
}

// IsChannelName reports whether name is stable, beta, or begins with
// nightly. The nightly match is a plain prefix test: "nightly-2024-01-01"
// and "nightlyfoo" are both accepted.
func IsChannelName(name string) bool {
	return name == Stable || name == Beta || strings.HasPrefix(name, Nightly)
}

// IsNonVersionChannel reports whether s names a channel rather than a
// concrete release. Such entries are never reported as installed versions.
func IsNonVersionChannel(s Specifier) bool {
	switch v := s.(type) {
	case Canary:
		return true
	case Alias:
		return IsChannelName(v.Name)
	default:
		return false
	}
}

// Resolve maps a requested specifier onto the one the host should use.
// Channel aliases resolve to themselves and Canary resolves to nightly.
// The boolean is false when no override applies, leaving an exact version
// (or an unrecognized alias) as requested.
func Resolve(initial Specifier) (Specifier, bool) {
	switch v := initial.(type) {
	case Canary:
		return Alias{Name: Nightly}, true
	case Alias:
		if IsChannelName(v.Name) {
			return v, true
		}
	}
	return nil, false
}

// Channel returns the string handed to rustup for s.
func Channel(s Specifier) string {
	if resolved, ok := Resolve(s); ok {
		return resolved.String()
	}
	if s == nil {
		return ""
	}
	return s.String()
}

// Sort orders versions ascending and drops duplicates. Versions that differ
// only in build metadata are distinct and ordered by their metadata.
func Sort(versions []*semver.Version) []*semver.Version {
	sorted := make([]*semver.Version, 0, len(versions))
	for _, v := range versions {
		if v != nil {
			sorted = append(sorted, v)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if c := sorted[i].Compare(sorted[j]); c != 0 {
			return c < 0
		}
		return sorted[i].Metadata() < sorted[j].Metadata()
	})

	out := sorted[:0]
	for i, v := range sorted {
		if i > 0 && v.String() == out[len(out)-1].String() {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Strings renders versions in order.
func Strings(versions []*semver.Version) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return out
}
