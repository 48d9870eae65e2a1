package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Dir  string
	Name string
	Args []string

	// Stdin, Stdout and Stderr are optional. Output is always captured in
	// the returned Output; when a writer is set it also receives the stream.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line the way it is shown to users.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("`%s` exited with code %d", e.Command, e.Code)
}

// ExitCode extracts the exit code carried by err, if any.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// Runner executes external commands.
type Runner interface {
	// LookPath resolves a binary on PATH.
	LookPath(name string) (string, error)
	// Run executes cmd and waits for it. A non-zero exit yields *ExitError
	// together with the captured output.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// LookPath implements Runner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(c.Stdout, &stdoutBuf)
	cmd.Stderr = tee(c.Stderr, &stderrBuf)

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, &ExitError{
				Command: c.String(),
				Code:    output.ExitCode,
				Stderr:  strings.TrimSpace(output.Stderr),
			}
		}
		return output, fmt.Errorf("running %s: %w", c, err)
	}

	return output, nil
}

func tee(w io.Writer, buf *bytes.Buffer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}
