// Package executor runs external commands against a working directory and
// captures their exit status and output streams.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Command describes a single external invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Stdin []byte
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Result is the captured outcome of a command that was launched.
// A nonzero exit is reported through Succeeded, not as an error.
type Result struct {
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
}

// LaunchError reports that a command could not be started at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Executor is the os/exec backed Runner.
type Executor struct {
	Logger *zap.Logger
}

// New returns an Executor logging through logger. A nil logger discards.
func New(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{Logger: logger}
}

// Run starts the command, waits for it and captures stdout and stderr.
// The only error returned is a *LaunchError; exit codes are in the Result.
func (e *Executor) Run(ctx context.Context, c Command) (Result, error) {
	log := e.logger().With(zap.String("cmd", c.String()), zap.String("dir", c.Dir))

	if c.Dir != "" {
		info, err := os.Stat(c.Dir)
		if err != nil {
			return Result{}, &LaunchError{Command: c.String(), Err: err}
		}
		if !info.IsDir() {
			return Result{}, &LaunchError{Command: c.String(), Err: fmt.Errorf("%s is not a directory", c.Dir)}
		}
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		log.Debug("command failed to start", zap.Error(err))
		return Result{}, &LaunchError{Command: c.String(), Err: err}
	}

	runErr := cmd.Wait()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		result.Succeeded = true
	case errors.As(runErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		// Wait failed for a reason other than the exit status (I/O copy error).
		result.ExitCode = -1
		if result.Stderr == "" {
			result.Stderr = runErr.Error()
		}
	}

	log.Debug("command finished",
		zap.Bool("succeeded", result.Succeeded),
		zap.Int("exit_code", result.ExitCode),
		zap.String("stderr", strings.TrimSpace(result.Stderr)),
	)
	return result, nil
}

func (e *Executor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
