package platform

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
}

func TestExecRunner_CapturesAndStreams(t *testing.T) {
	requireShell(t)

	var streamed bytes.Buffer
	out, err := ExecRunner{}.Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", "echo hello"},
		Stdout: &streamed,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if strings.TrimSpace(out.Stdout) != "hello" {
		t.Errorf("captured stdout = %q, want %q", out.Stdout, "hello")
	}
	if strings.TrimSpace(streamed.String()) != "hello" {
		t.Errorf("streamed stdout = %q, want %q", streamed.String(), "hello")
	}
}

func TestExecRunner_ExitCode(t *testing.T) {
	requireShell(t)

	out, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error is %T, want *ExitError", err)
	}
	if exitErr.Code != 3 || out.ExitCode != 3 {
		t.Errorf("exit code = %d/%d, want 3", exitErr.Code, out.ExitCode)
	}
	if exitErr.Stderr != "boom" {
		t.Errorf("stderr = %q, want %q", exitErr.Stderr, "boom")
	}
	if code, ok := ExitCode(err); !ok || code != 3 {
		t.Errorf("ExitCode() = %d, %v", code, ok)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if _, ok := ExitCode(err); ok {
		t.Error("missing binary should not produce an ExitError")
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "npm", Args: []string{"install", "--save", "react"}}
	if got := c.String(); got != "npm install --save react" {
		t.Errorf("String() = %q", got)
	}
}
