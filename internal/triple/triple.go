package triple

import (
	"context"
	"runtime"
	"strings"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/execx"
	"github.com/thoreinstein/rustplug/internal/logging"
)

// Libc identifies the C library a Linux toolchain links against.
type Libc string

const (
	LibcNone Libc = ""
	LibcGNU  Libc = "gnu"
	LibcMusl Libc = "musl"
)

// OS suffixes used by rustup target names.
const (
	osLinux   = "unknown-linux"
	osDarwin  = "apple-darwin"
	osWindows = "pc-windows-msvc"
)

// Host is the architecture and operating system rustplug runs on, in Go
// (runtime.GOARCH/GOOS) or common vendor spelling.
type Host struct {
	Arch string
	OS   string
}

// HostFromRuntime describes the running process.
func HostFromRuntime() Host {
	return Host{Arch: runtime.GOARCH, OS: runtime.GOOS}
}

// IsWindows reports whether the host runs Windows.
func (h Host) IsWindows() bool {
	return strings.EqualFold(h.OS, "windows")
}

// Triple is a rustup target such as aarch64-unknown-linux-musl.
type Triple struct {
	Arch string
	OS   string
	Libc Libc
}

// String joins the parts with dashes, omitting an empty libc.
func (t Triple) String() string {
	if t.Libc == LibcNone {
		return t.Arch + "-" + t.OS
	}
	return t.Arch + "-" + t.OS + "-" + string(t.Libc)
}

// IsZero reports whether t is unset.
func (t Triple) IsZero() bool {
	return t.Arch == "" && t.OS == ""
}

// Result is the derived triple plus any best-effort failures met on the way.
type Result struct {
	Triple   Triple
	Warnings []errors.Warning
}

// LibcProbe is the command whose output reveals the libc flavor.
var LibcProbe = execx.Command{Name: "ldd", Args: []string{"--version"}, Mode: execx.ModeCapture}

// Resolver derives triples. Runner is only used on Linux.
type Resolver struct {
	Runner execx.Runner
}

// NewResolver returns a Resolver that probes with runner.
func NewResolver(runner execx.Runner) *Resolver {
	return &Resolver{Runner: runner}
}

var archMap = map[string]string{
	"arm64":   "aarch64",
	"aarch64": "aarch64",
	"amd64":   "x86_64",
	"x86_64":  "x86_64",
	"x64":     "x86_64",
	"386":     "i686",
	"x86":     "i686",
	"i686":    "i686",
	"arm":     "armv7",
	"ppc64le": "powerpc64le",
	"s390x":   "s390x",
	"riscv64": "riscv64gc",
}

// Arch maps a host architecture onto rustup's vocabulary.
func Arch(hostArch string) (string, bool) {
	a, ok := archMap[strings.ToLower(strings.TrimSpace(hostArch))]
	return a, ok
}

// Resolve derives the target triple for host. Unknown architectures and
// operating systems fail with *errors.UnsupportedTargetError. On Linux the
// libc probe is best-effort: a failure yields gnu and a warning.
func (r *Resolver) Resolve(ctx context.Context, host Host) (Result, error) {
	arch, ok := Arch(host.Arch)
	if !ok {
		return Result{}, &errors.UnsupportedTargetError{Arch: host.Arch, OS: host.OS}
	}

	switch strings.ToLower(strings.TrimSpace(host.OS)) {
	case "linux":
		libc, warn := r.detectLibc(ctx)
		res := Result{Triple: Triple{Arch: arch, OS: osLinux, Libc: libc}}
		if warn != nil {
			res.Warnings = append(res.Warnings, *warn)
		}
		return res, nil
	case "darwin", "macos":
		return Result{Triple: Triple{Arch: arch, OS: osDarwin}}, nil
	case "windows":
		return Result{Triple: Triple{Arch: arch, OS: osWindows}}, nil
	default:
		return Result{}, &errors.UnsupportedTargetError{Arch: host.Arch, OS: host.OS}
	}
}

// detectLibc runs the probe and looks for "musl" in everything it printed.
// musl's ldd prints its banner to stderr and exits non-zero, so output is
// inspected before the error.
func (r *Resolver) detectLibc(ctx context.Context) (Libc, *errors.Warning) {
	logger := logging.FromContext(ctx)

	if r.Runner == nil {
		return LibcGNU, &errors.Warning{Op: "libc-probe", Err: errors.New("no process runner configured")}
	}

	res, err := r.Runner.Run(ctx, LibcProbe)
	if strings.Contains(res.Combined(), "musl") {
		logger.Debug("detected libc", "libc", LibcMusl)
		return LibcMusl, nil
	}
	if err != nil {
		logger.Debug("libc probe failed, assuming gnu", "error", err)
		return LibcGNU, &errors.Warning{Op: "libc-probe", Err: err}
	}
	logger.Debug("detected libc", "libc", LibcGNU)
	return LibcGNU, nil
}
