// Package platformtest provides a recording platform.Runner for tests.
package platformtest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sendit-th/sendit-app/internal/platform"
)

// FakeRunner records every command and answers through Respond.
type FakeRunner struct {
	// Missing lists binaries LookPath reports as absent.
	Missing map[string]bool
	// Respond produces the result for a command. Nil means success with
	// empty output.
	Respond func(cmd platform.Command) (*platform.Output, error)

	mu    sync.Mutex
	calls []platform.Command
}

// LookPath implements platform.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// Run implements platform.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd platform.Command) (*platform.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.Missing[cmd.Name] {
		return &platform.Output{}, fmt.Errorf("running %s: executable file not found", cmd)
	}

	if f.Respond == nil {
		return &platform.Output{}, nil
	}
	out, err := f.Respond(cmd)
	if out == nil {
		out = &platform.Output{}
	}
	if out.Stdout != "" && cmd.Stdout != nil {
		io.WriteString(cmd.Stdout, out.Stdout)
	}
	return out, err
}

// Calls returns a copy of the recorded commands.
func (f *FakeRunner) Calls() []platform.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.Command(nil), f.calls...)
}

// CommandLines returns the recorded commands rendered as strings.
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Exit builds the error a real runner returns for a non-zero exit.
func Exit(cmd platform.Command, code int) (*platform.Output, error) {
	return &platform.Output{ExitCode: code}, &platform.ExitError{Command: cmd.String(), Code: code}
}
