package pkgmgr

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Supported package manager identifiers.
const (
	NameNpm  = "npm"
	NameYarn = "yarn"
)

// LockFile marks a directory managed by yarn.
const LockFile = "yarn.lock"

// Manager installs packages into an app directory.
type Manager interface {
	// Name returns the identifier passed to Dispatch.
	Name() string
	// DisplayName is the command users type, shown in instructions.
	DisplayName() string
	// InstallArgs returns the arguments that add the initial dependencies.
	InstallArgs(verbose bool) []string
	// AddArgs returns the arguments that add packages afterwards.
	AddArgs(dev bool) []string
	// InstallCommand builds the initial install invocation for specs.
	InstallCommand(dir string, specs []string, verbose bool) platform.Command
	// AddCommand builds a follow-up add invocation for specs.
	AddCommand(dir string, specs []string, dev bool) platform.Command
	// ScriptCommand renders how to run a package.json script.
	ScriptCommand(script string) string
	// Install runs InstallCommand.
	Install(ctx context.Context, dir string, specs []string, verbose bool) error
	// Add runs AddCommand.
	Add(ctx context.Context, dir string, specs []string, dev bool) error
}

// Env is the process environment managers run in.
type Env struct {
	Runner platform.Runner

	// Stdin, Stdout and Stderr are inherited by the child process.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log *zap.Logger
}

func (e Env) run(ctx context.Context, cmd platform.Command) error {
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("exec", zap.String("cmd", cmd.String()), zap.String("dir", cmd.Dir))

	if e.Runner == nil {
		return fmt.Errorf("no command runner configured for %s", cmd.Name)
	}
	_, err := e.Runner.Run(ctx, cmd)
	return err
}

// Dispatch returns the Manager for name. Unknown names produce a manager
// whose operations fail.
func Dispatch(name string, env Env) Manager {
	switch name {
	case NameNpm:
		return &Npm{Env: env}
	case NameYarn:
		return &Yarn{Env: env}
	default:
		return &unknownManager{name: name}
	}
}

// Detect chooses the package manager for dir. A non-empty preferred name
// wins; otherwise yarn is used when dir contains yarn.lock, npm when not.
func Detect(fsys afero.Fs, dir, preferred string) string {
	if p := strings.ToLower(strings.TrimSpace(preferred)); p != "" {
		return p
	}
	if ok, _ := afero.Exists(fsys, filepath.Join(dir, LockFile)); ok {
		return NameYarn
	}
	return NameNpm
}

// Known reports whether name is a supported manager.
func Known(name string) bool {
	return name == NameNpm || name == NameYarn
}

// unknownManager is returned when the manager identifier is not recognized.
type unknownManager struct {
	name string
}

func (u *unknownManager) Name() string {
	return u.name
}

func (u *unknownManager) DisplayName() string {
	return u.name
}

func (u *unknownManager) InstallArgs(bool) []string {
	return nil
}

func (u *unknownManager) AddArgs(bool) []string {
	return nil
}

func (u *unknownManager) ScriptCommand(s string) string {
	return u.name + " " + s
}

func (u *unknownManager) InstallCommand(dir string, specs []string, _ bool) platform.Command {
	return platform.Command{Dir: dir, Name: u.name, Args: specs}
}

func (u *unknownManager) AddCommand(dir string, specs []string, _ bool) platform.Command {
	return platform.Command{Dir: dir, Name: u.name, Args: specs}
}

func (u *unknownManager) Install(context.Context, string, []string, bool) error {
	return u.err()
}

func (u *unknownManager) Add(context.Context, string, []string, bool) error {
	return u.err()
}

func (u *unknownManager) err() error {
	return fmt.Errorf("unknown package manager %q: supported managers are %q and %q", u.name, NameNpm, NameYarn)
}
