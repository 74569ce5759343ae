// Package capture re-runs the previous command to read what it printed.
package capture

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"ohcrab/internal/logger"
	"ohcrab/internal/shell"
)

// traceEnv makes git report alias expansions and keeps messages in English
// so rules can match them.
var traceEnv = []string{"GIT_TRACE=1", "LC_ALL=C", "LANG=C"}

// Capturer runs scripts through the user's shell.
type Capturer struct {
	program string
	flag    string
	timeout time.Duration
	env     []string
	log     *logger.Logger
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithProgram replaces the interpreter used for the shell family.
func WithProgram(program, flag string) Option {
	return func(c *Capturer) {
		c.program = program
		c.flag = flag
	}
}

// WithEnv sets the base environment. The trace variables are always added.
func WithEnv(env []string) Option {
	return func(c *Capturer) { c.env = env }
}

// New creates a Capturer for the given shell family. A zero timeout means
// the script may run until ctx is done.
func New(t shell.Type, timeout time.Duration, opts ...Option) *Capturer {
	program, flag := interpreter(t)
	c := &Capturer{
		program: program,
		flag:    flag,
		timeout: timeout,
		env:     os.Environ(),
		log:     logger.With("capture"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func interpreter(t shell.Type) (string, string) {
	switch t {
	case shell.Zsh:
		return "zsh", "-c"
	case shell.Fish:
		return "fish", "-c"
	case shell.Tcsh:
		return "tcsh", "-c"
	case shell.PowerShell:
		return "pwsh", "-Command"
	case shell.Bash:
		return "bash", "-c"
	default:
		return "sh", "-c"
	}
}

// Output runs script and returns stdout and stderr joined by a newline.
// It never fails: a missing interpreter gives "", a timeout gives whatever
// was printed before the process was killed.
func (c *Capturer) Output(ctx context.Context, script string) string {
	if script == "" {
		return ""
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.program, c.flag, script)
	cmd.Env = append(append([]string{}, c.env...), traceEnv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children that outlive the shell keep the pipes open.
	cmd.WaitDelay = 100 * time.Millisecond

	start := time.Now()
	err := cmd.Run()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		c.log.Debug("capture timed out", "script", script, "after", time.Since(start))
	case errors.Is(err, exec.ErrNotFound):
		c.log.Warn("shell not found", "program", c.program)
		return ""
	case err != nil:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			c.log.Debug("capture failed", "script", script, "err", err)
		}
	}
	return Combine(stdout.String(), stderr.String())
}

// Combine joins the two streams the way rules expect to see them.
func Combine(stdout, stderr string) string {
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	default:
		return stdout + "\n" + stderr
	}
}
