package toolchainfile

import (
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/version"
	"github.com/thoreinstein/rustplug/pkg/fileutil"
)

// File names rustup reads toolchain overrides from, in lookup order.
const (
	TOMLFile   = "rust-toolchain.toml"
	LegacyFile = "rust-toolchain"
)

// Files lists the version files, preferred first.
var Files = []string{TOMLFile, LegacyFile}

// ErrUnknownFile indicates a file name that is not a toolchain file.
var ErrUnknownFile = errors.New("not a rust toolchain file")

// Toolchain is the [toolchain] table of rust-toolchain.toml.
type Toolchain struct {
	Channel    string   `toml:"channel" json:"channel,omitempty" yaml:"channel,omitempty"`
	Components []string `toml:"components" json:"components,omitempty" yaml:"components,omitempty"`
	Targets    []string `toml:"targets" json:"targets,omitempty" yaml:"targets,omitempty"`
	Profile    string   `toml:"profile" json:"profile,omitempty" yaml:"profile,omitempty"`
}

type document struct {
	Toolchain Toolchain `toml:"toolchain"`
}

// Parse extracts the requested version from the contents of a toolchain
// file. name is matched on its base name. A nil Specifier with a nil error
// means the file pins nothing.
func Parse(name string, content []byte) (version.Specifier, error) {
	switch filepath.Base(name) {
	case TOMLFile:
		return parseTOML(content)
	case LegacyFile:
		// rustup also accepts the TOML form under the legacy name.
		if strings.Contains(string(content), "[toolchain]") {
			return parseTOML(content)
		}
		text := strings.TrimSpace(string(content))
		if text == "" {
			return nil, nil
		}
		return version.Parse(text)
	default:
		return nil, errors.Wrapf(ErrUnknownFile, "%s", name)
	}
}

// ParseToolchain decodes the [toolchain] table.
func ParseToolchain(content []byte) (Toolchain, error) {
	var doc document
	if err := toml.Unmarshal(content, &doc); err != nil {
		return Toolchain{}, errors.Wrap(err, "parsing toolchain toml")
	}
	return doc.Toolchain, nil
}

func parseTOML(content []byte) (version.Specifier, error) {
	tc, err := ParseToolchain(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tc.Channel) == "" {
		return nil, nil
	}
	return version.Parse(tc.Channel)
}

// Load reads and parses the toolchain file at path.
func Load(fs afero.Fs, path string) (version.Specifier, error) {
	data, err := fileutil.ReadFileWithLimitFs(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	spec, err := Parse(path, data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return spec, nil
}

// Find walks from dir up to the filesystem root and returns the first
// toolchain file found. Within one directory rust-toolchain.toml wins.
func Find(fs afero.Fs, dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		for _, name := range Files {
			candidate := filepath.Join(dir, name)
			if info, err := fs.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LooksLikePath returns true if the argument appears to be a file path
// rather than a version specifier.
func LooksLikePath(arg string) bool {
	if strings.HasPrefix(arg, "./") || strings.HasPrefix(arg, "../") || strings.HasPrefix(arg, "/") {
		return true
	}
	if strings.ContainsRune(arg, filepath.Separator) || strings.Contains(arg, `\`) {
		return true
	}
	base := filepath.Base(arg)
	return base == TOMLFile || base == LegacyFile
}
