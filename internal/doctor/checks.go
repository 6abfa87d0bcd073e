package doctor

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/manifest"
	"github.com/thoreinstein/rustplug/internal/paths"
	"github.com/thoreinstein/rustplug/internal/triple"
)

// Check categories.
const (
	CategoryRustup    = "rustup"
	CategoryTarget    = "target"
	CategoryInventory = "inventory"
	CategoryCargo     = "cargo"
)

// TripleResolver derives the target triple for a host.
type TripleResolver interface {
	Resolve(ctx context.Context, host triple.Host) (triple.Result, error)
}

// RustupCheck verifies rustup is reachable and answers --version.
type RustupCheck struct {
	Runner execx.Runner
}

var _ Check = (*RustupCheck)(nil)

// NewRustupCheck creates a rustup-installed check.
func NewRustupCheck(runner execx.Runner) *RustupCheck {
	return &RustupCheck{Runner: runner}
}

// Name returns the unique identifier for this check.
func (c *RustupCheck) Name() string { return "rustup-installed" }

// Category returns the grouping for this check.
func (c *RustupCheck) Category() string { return CategoryRustup }

// Run executes the check.
func (c *RustupCheck) Run(ctx context.Context) *CheckResult {
	path, err := c.Runner.LookPath("rustup")
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "rustup not found on PATH; the next install will bootstrap it",
			FixHint:  "install rustup from https://rustup.rs or run: rustplug install stable",
		}
	}

	res, err := c.Runner.Run(ctx, execx.Command{Name: "rustup", Args: []string{"--version"}, Mode: execx.ModeCapture})
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("rustup at %s does not run: %v", path, err),
			Details:  map[string]any{"path": path},
			FixHint:  "reinstall rustup from https://rustup.rs",
		}
	}

	ver := firstLine(res.Stdout)
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  ver,
		Details:  map[string]any{"path": path, "version": ver},
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

// HomeCheck inspects the rustup home and its toolchains directory.
// A missing toolchains directory is fixable by creating it.
type HomeCheck struct {
	Fs  afero.Fs
	Env paths.Env

	missing bool
}

var (
	_ Check = (*HomeCheck)(nil)
	_ Fixer = (*HomeCheck)(nil)
)

// NewHomeCheck creates a rustup-home check.
func NewHomeCheck(fs afero.Fs, env paths.Env) *HomeCheck {
	return &HomeCheck{Fs: fs, Env: env}
}

// Name returns the unique identifier for this check.
func (c *HomeCheck) Name() string { return "rustup-home" }

// Category returns the grouping for this check.
func (c *HomeCheck) Category() string { return CategoryRustup }

// Run executes the check.
func (c *HomeCheck) Run(_ context.Context) *CheckResult {
	c.missing = false
	dir := c.Env.ToolchainsDir()
	details := map[string]any{"rustup_home": c.Env.Rustup(), "toolchains": dir}

	info, err := c.Fs.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  dir + " exists but is not a directory",
			Details:  details,
			FixHint:  "move the file out of the way so rustup can manage " + dir,
		}
	case err == nil:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "toolchains directory at " + dir,
			Details:  details,
		}
	case !errors.Is(err, iofs.ErrNotExist):
		details["error"] = errors.Mark(err, errors.ErrInaccessiblePath).Error()
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  dir + " is not accessible; installed toolchains will read as empty",
			Details:  details,
			FixHint:  "check the permissions of " + c.Env.Rustup(),
		}
	default:
		c.missing = true
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no toolchains directory yet at " + dir,
			Details:  details,
			Fixable:  true,
			FixHint:  "run: rustplug doctor --fix",
		}
	}
}

// CanFix reports whether Run found a missing toolchains directory.
func (c *HomeCheck) CanFix() bool { return c.missing }

// Fix creates the toolchains directory.
func (c *HomeCheck) Fix(_ context.Context) []FixResult {
	dir := c.Env.ToolchainsDir()
	if err := c.Fs.MkdirAll(dir, 0o755); err != nil {
		return []FixResult{{Path: dir, Description: "could not create toolchains directory", Error: err}}
	}
	c.missing = false
	return []FixResult{{Path: dir, Fixed: true, Description: "created toolchains directory"}}
}

// TripleCheck derives the target triple and reports any best-effort failure.
type TripleCheck struct {
	Resolver TripleResolver
	Host     triple.Host
}

var _ Check = (*TripleCheck)(nil)

// NewTripleCheck creates a target-triple check.
func NewTripleCheck(resolver TripleResolver, host triple.Host) *TripleCheck {
	return &TripleCheck{Resolver: resolver, Host: host}
}

// Name returns the unique identifier for this check.
func (c *TripleCheck) Name() string { return "target-triple" }

// Category returns the grouping for this check.
func (c *TripleCheck) Category() string { return CategoryTarget }

// Run executes the check.
func (c *TripleCheck) Run(ctx context.Context) *CheckResult {
	details := map[string]any{"arch": c.Host.Arch, "os": c.Host.OS}

	res, err := c.Resolver.Resolve(ctx, c.Host)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  err.Error(),
			Details:  details,
		}
	}

	details["triple"] = res.Triple.String()
	if len(res.Warnings) > 0 {
		warnings := make([]string, len(res.Warnings))
		for i, w := range res.Warnings {
			warnings[i] = w.String()
		}
		details["warnings"] = warnings
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "derived " + res.Triple.String() + " with fallbacks",
			Details:  details,
			FixHint:  "make sure ldd is installed so the libc can be detected",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  res.Triple.String(),
		Details:  details,
	}
}

// InventoryCheck reconciles the installed toolchains for the host triple.
type InventoryCheck struct {
	Reconciler *manifest.Reconciler
	Resolver   TripleResolver
	Host       triple.Host
	Env        paths.Env
}

var _ Check = (*InventoryCheck)(nil)

// NewInventoryCheck creates a toolchain-inventory check.
func NewInventoryCheck(fs afero.Fs, resolver TripleResolver, host triple.Host, env paths.Env) *InventoryCheck {
	return &InventoryCheck{
		Reconciler: manifest.NewReconciler(fs),
		Resolver:   resolver,
		Host:       host,
		Env:        env,
	}
}

// Name returns the unique identifier for this check.
func (c *InventoryCheck) Name() string { return "toolchain-inventory" }

// Category returns the grouping for this check.
func (c *InventoryCheck) Category() string { return CategoryInventory }

// Run executes the check.
func (c *InventoryCheck) Run(ctx context.Context) *CheckResult {
	res, err := c.Resolver.Resolve(ctx, c.Host)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "skipped: no target triple for this host",
		}
	}

	root := c.Env.ToolchainsDir()
	set, err := c.Reconciler.Reconcile(ctx, root, res.Triple)
	if err != nil {
		result := &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  err.Error(),
			FixHint:  "remove or rename the directory under " + root,
		}
		var malformed *errors.MalformedEntryError
		if errors.As(err, &malformed) {
			result.Details = map[string]any{"entry": filepath.Join(root, malformed.Name)}
		}
		return result
	}

	channels := c.Reconciler.Channels(root, res.Triple)
	details := map[string]any{"versions": set.Strings(), "channels": channels}
	if set.Empty() && len(channels) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no toolchains installed for " + res.Triple.String(),
			Details:  details,
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("%d release(s) and %d channel(s) installed", set.Len(), len(channels)),
		Details:  details,
	}
}

// CargoBinCheck verifies the cargo bin directory is on PATH, since rustup's
// proxies and globally installed crates live there.
type CargoBinCheck struct {
	Fs  afero.Fs
	Env paths.Env
	// PathList is the PATH value to search, in os.PathListSeparator form.
	PathList string
}

var _ Check = (*CargoBinCheck)(nil)

// NewCargoBinCheck creates a cargo-bin check.
func NewCargoBinCheck(fs afero.Fs, env paths.Env, pathList string) *CargoBinCheck {
	return &CargoBinCheck{Fs: fs, Env: env, PathList: pathList}
}

// Name returns the unique identifier for this check.
func (c *CargoBinCheck) Name() string { return "cargo-bin" }

// Category returns the grouping for this check.
func (c *CargoBinCheck) Category() string { return CategoryCargo }

// Run executes the check.
func (c *CargoBinCheck) Run(_ context.Context) *CheckResult {
	dir := c.Env.CargoBinDir()
	details := map[string]any{"cargo_bin": dir}

	if ok, err := afero.DirExists(c.Fs, dir); err != nil || !ok {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  dir + " does not exist yet",
			Details:  details,
		}
	}

	want := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(c.PathList) {
		if entry != "" && filepath.Clean(entry) == want {
			return &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityPass,
				Message:  dir + " is on PATH",
				Details:  details,
			}
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityWarning,
		Message:  dir + " is not on PATH",
		Details:  details,
		FixHint:  "add " + dir + " to PATH so cargo and installed crates resolve",
	}
}
