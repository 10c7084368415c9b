package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/52north/docker-build/internal/model"
)

// Runner executes docker CLI commands. The production implementation shells
// out to the docker binary; tests substitute a recording fake so no command
// actually runs.
type Runner interface {
	// Run executes "docker <args...>", streaming output to the user.
	Run(ctx context.Context, args ...string) error

	// RunWithInput executes "docker <args...>" with input on stdin.
	// Used for "docker login --password-stdin" so the password never
	// appears in the process list.
	RunWithInput(ctx context.Context, input string, args ...string) error
}

// ExecRunner runs docker commands as child processes, inheriting the
// current environment. Build and push output streams straight through to
// the terminal, which is what CI logs expect.
type ExecRunner struct{}

// Run executes the docker command, attaching stdout and stderr.
func (ExecRunner) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return wrapRunError(args, err)
	}
	return nil
}

// RunWithInput executes the docker command with input piped to stdin.
func (ExecRunner) RunWithInput(ctx context.Context, input string, args ...string) error {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return wrapRunError(args, err)
	}
	return nil
}

// wrapRunError turns an exec failure into a CLIError. Only the subcommand
// name goes into the message; the full argument list may contain label
// values and build args not worth echoing back.
func wrapRunError(args []string, err error) error {
	sub := "docker"
	if len(args) > 0 {
		sub = "docker " + args[0]
	}
	return model.WrapCLIError(model.ExitDockerError, fmt.Sprintf("%s failed", sub), err)
}
