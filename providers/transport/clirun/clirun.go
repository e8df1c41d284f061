// Package clirun implements the CLI transport adapter: it spawns the
// provider's command-line tool with the prompt, the required output schema
// and the system instructions on the argument vector, enforces a hard
// wall-clock timeout, and returns the tool's standard output in full.
//
// No interactive input is ever supplied (stdin is closed), the environment
// carries a no-color/dumb-terminal override so output stays
// machine-parseable, and the working directory is a neutral non-project
// directory unless the request says otherwise.
package clirun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/frogg-app/prompt-assistant/internal/utils"
	"github.com/frogg-app/prompt-assistant/providers/transport"
)

const (
	// DefaultTimeout bounds a subprocess call when the request does not
	// set one. CLI agents are slow; refinement calls routinely take tens
	// of seconds.
	DefaultTimeout = 180 * time.Second

	// termGrace is how long the process group gets between SIGTERM and
	// SIGKILL during forced termination.
	termGrace = 250 * time.Millisecond
)

// Adapter runs provider CLI tools as subprocesses.
type Adapter struct{}

// New returns a CLI adapter.
func New() *Adapter {
	return &Adapter{}
}

// ExitError reports a subprocess that finished with a non-zero exit code.
// Message holds the captured standard error, or standard output when
// standard error was empty.
type ExitError struct {
	ExitCode int
	Message  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("clirun: command exited with code %d: %s", e.ExitCode, utils.TruncateString(e.Message, 300))
}

// Invoke runs the provider CLI once and returns its full standard output.
// The argument vector carries, in order: the fixed command prefix, the
// output-format directive, the JSON schema describing the required output
// shape, the system instructions, the model id when it differs from the
// provider default, and finally the prompt itself.
//
// On timeout the process group is terminated unconditionally before the
// error (wrapping [transport.ErrTimeout]) is returned; partial output is
// never accepted. A non-zero exit code is always an error.
func (a *Adapter) Invoke(ctx context.Context, req transport.Request) (string, error) {
	if len(req.Command) == 0 {
		return "", fmt.Errorf("clirun: command is empty")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	args := buildArgs(req)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(req.Command[0], args...)
	cmd.Stdin = nil // no interactive input, ever
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "TERM=dumb")
	cmd.Env = append(cmd.Env, req.ExtraEnv...)
	cmd.Dir = req.WorkingDirectory
	if cmd.Dir == "" {
		cmd.Dir = os.TempDir()
	}
	// Own process group so a timeout kill reaches the tool's children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("clirun: starting %s: %w", req.Command[0], err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case err := <-waitCh:
		if err != nil {
			return "", exitError(err, &stdout, &stderr)
		}
		return stdout.String(), nil

	case <-runCtx.Done():
		killGroup(cmd, waitCh)
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %s did not finish within %s", transport.ErrTimeout, req.Command[0], timeout)
		}
		return "", fmt.Errorf("clirun: call canceled: %w", runCtx.Err())
	}
}

// buildArgs assembles the argument vector after the binary name.
func buildArgs(req transport.Request) []string {
	args := append([]string{}, req.Command[1:]...)
	args = append(args, "--output-format", "json")

	if req.OutputSchema != nil {
		args = append(args, "--json-schema", req.OutputSchema.String())
	}
	if req.SystemInstructions != "" {
		args = append(args, "--system-prompt", req.SystemInstructions)
	}
	if req.ModelID != "" && req.ModelID != req.DefaultModelID {
		args = append(args, "--model", req.ModelID)
	}

	return append(args, req.UserContent)
}

// exitError converts a Wait failure into an *ExitError, pulling the message
// from stderr first and stdout second.
func exitError(err error, stdout, stderr *bytes.Buffer) error {
	message := strings.TrimSpace(stderr.String())
	if message == "" {
		message = strings.TrimSpace(stdout.String())
	}

	var exitErr *exec.ExitError
	code := -1
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if message == "" {
		message = err.Error()
	}
	return &ExitError{ExitCode: code, Message: message}
}

// killGroup force-terminates the subprocess and its children: SIGTERM first,
// then SIGKILL after a short grace period, and waits for the process to be
// reaped so no zombie is left behind.
func killGroup(cmd *exec.Cmd, waitCh <-chan error) {
	if cmd.Process == nil {
		return
	}
	pgid := -cmd.Process.Pid

	_ = syscall.Kill(pgid, syscall.SIGTERM)
	select {
	case <-waitCh:
		return
	case <-time.After(termGrace):
	}

	_ = syscall.Kill(pgid, syscall.SIGKILL)
	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
	}
}
