// Package executor provides external command execution for the release
// steps. Commands run with an explicit argv (no shell) so tool invocations
// behave the same regardless of the operator's shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/VoxDroid/shipr/internal/logx"
)

// Result captures the outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without running real tools.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// Tool is the exec-backed Runner. When DryRun is set, commands are logged
// and reported as successful without being executed.
type Tool struct {
	DryRun bool
}

// New returns a Runner backed by the real Tool implementation.
func New(dry bool) Runner {
	return &Tool{DryRun: dry}
}

// Run executes name with args in dir (the current directory when dir is
// empty), blocking until the process exits. A non-zero exit is returned as
// an error alongside the captured output.
func (t *Tool) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	if err := validateArgs(name, args); err != nil {
		return Result{}, err
	}

	if t.DryRun {
		logx.Infof("dry-run: %s %s", name, strings.Join(args, " "))
		return Result{}, nil
	}
	logx.Debugf("exec: %s %s (dir=%s)", name, strings.Join(args, " "), dir)

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr

	err := cmd.Run()
	res := Result{Stdout: bout.String(), Stderr: berr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		return res, commandError(err, name, args, res)
	}
	return res, nil
}

func commandError(err error, name string, args []string, res Result) error {
	outStr := strings.TrimSpace(res.Stdout)
	errStr := strings.TrimSpace(res.Stderr)
	if outStr != "" || errStr != "" {
		return fmt.Errorf("command failed: %w (cmd=%s args=%q stdout=%q stderr=%q)", err, name, args, outStr, errStr)
	}
	return fmt.Errorf("command failed: %w (cmd=%s args=%q)", err, name, args)
}

func validateArgs(name string, args []string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid command: empty executable name")
	}
	for i, a := range args {
		if strings.IndexFunc(a, func(r rune) bool { return r == 0 || (r < 32 && r != '\t') || r == 0x7f }) != -1 {
			return fmt.Errorf("invalid command arg[%d]: contains control characters", i)
		}
	}
	return nil
}

// Split tokenizes a configured command line into an argv, respecting single
// and double quotes.
func Split(command string) ([]string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, fmt.Errorf("empty command")
	}
	if strings.Contains(command, "\n") {
		return nil, fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	toks, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return toks, nil
}
