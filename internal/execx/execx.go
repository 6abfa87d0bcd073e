package execx

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/logging"
)

// Mode selects what happens to a child process's standard streams.
type Mode int

const (
	// ModeCapture buffers stdout and stderr into the Result.
	ModeCapture Mode = iota
	// ModeInherit connects the child to the runner's own stdin, stdout and stderr.
	ModeInherit
	// ModeStream forwards each output line to the logger as it arrives and
	// also buffers it into the Result.
	ModeStream
)

func (m Mode) String() string {
	switch m {
	case ModeCapture:
		return "capture"
	case ModeInherit:
		return "inherit"
	case ModeStream:
		return "stream"
	default:
		return "unknown"
	}
}

// MarshalText renders the mode for JSON and YAML output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Command describes one external process invocation.
type Command struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	Mode Mode     `json:"mode" yaml:"mode"`
	// Env entries are appended to the current environment.
	Env []string `json:"env,omitempty" yaml:"env,omitempty"`
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is what a finished process reported. Stdout and Stderr are empty
// in ModeInherit.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Combined returns stdout followed by stderr.
func (r Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Runner executes external commands.
//
// Run returns a *errors.CommandError when the process exits non-zero
// (ExitCode >= 0) or cannot be started (ExitCode -1). Both match
// errors.ErrExternalCommandFailed.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath reports where name resolves on PATH. The error matches
	// errors.ErrNotFound when it does not.
	LookPath(name string) (string, error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewOSRunner returns a runner wired to the process's standard streams.
func NewOSRunner() *OSRunner {
	return &OSRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// LookPath implements Runner.
func (r *OSRunner) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(errors.Mark(err, errors.ErrNotFound), "looking up %s", name)
	}
	return p, nil
}

// Run implements Runner.
func (r *OSRunner) Run(ctx context.Context, c Command) (Result, error) {
	logger := logging.FromContext(ctx)
	logger.Debug("running command", "command", c.String(), "mode", c.Mode.String())

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	var wait func()

	switch c.Mode {
	case ModeInherit:
		cmd.Stdin = r.Stdin
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	case ModeStream:
		outW, outDone := streamLines(logger, c.Name, "stdout", &stdout)
		errW, errDone := streamLines(logger, c.Name, "stderr", &stderr)
		cmd.Stdout = outW
		cmd.Stderr = errW
		wait = func() {
			outW.Close()
			errW.Close()
			outDone.Wait()
			errDone.Wait()
		}
	default:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if wait != nil {
		wait()
	}

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// Killed by a signal or context cancellation.
			return res, &errors.CommandError{Command: c.Name, Args: c.Args, ExitCode: -1, Stderr: res.Stderr, Err: err}
		}
		logger.Log(ctx, logging.LevelTrace, "command failed", "command", c.String(), "exit_code", res.ExitCode)
		return res, &errors.CommandError{Command: c.Name, Args: c.Args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	res.ExitCode = -1
	return res, &errors.CommandError{Command: c.Name, Args: c.Args, ExitCode: -1, Err: err}
}

// streamLines returns a pipe writer whose lines are logged at Info and
// copied into buf. The WaitGroup completes once the writer is closed and
// every line has been consumed.
func streamLines(logger *slog.Logger, name, stream string, buf *bytes.Buffer) (*io.PipeWriter, *sync.WaitGroup) {
	pr, pw := io.Pipe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			line := scanner.Text()
			buf.WriteString(line)
			buf.WriteByte('\n')
			logger.Info(line, "command", name, "stream", stream)
		}
		// Drain anything left after a scanner error so the child never blocks.
		_, _ = io.Copy(io.Discard, pr)
	}()
	return pw, &wg
}
