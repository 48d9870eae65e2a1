// Package extras runs the interactive step that follows a successful
// scaffold: it installs the house state-management, routing, lint and
// storybook packages and optionally adds the deployment template.
package extras

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/deployment"
	"github.com/sendit-th/sendit-app/internal/pkgmgr"
	"go.uber.org/zap"
)

// Prompt is the deployment question shown before installing.
const Prompt = "Do you need deployment file\n Type Y or N ? :"

// DefaultDependencies are added to every app after scaffolding.
var DefaultDependencies = []string{
	"mobx",
	"mobx-react",
	"react-router-dom",
	"recompose",
	"styled-components",
}

// DefaultDevDependencies are added as dev dependencies after scaffolding.
var DefaultDevDependencies = []string{
	"react-app-rewire-mobx",
	"react-app-rewired",
	"eslint",
	"prettier",
	"babel-eslint",
	"eslint-config-airbnb",
	"eslint-config-prettier",
	"eslint-plugin-flowtype",
	"eslint-plugin-import",
	"eslint-plugin-jsx-a11y",
	"eslint-plugin-prettier",
	"eslint-plugin-react",
	"@storybook/react",
	"@storybook/addon-actions",
	"@storybook/addon-links",
	"@storybook/addons",
}

// Answer values accepted in place of the interactive prompt.
const (
	AnswerAsk = ""
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// ParseAnswer normalizes a preset answer. The empty string means ask.
func ParseAnswer(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AnswerAsk, nil
	case "y", "yes", "true":
		return AnswerYes, nil
	case "n", "no", "false":
		return AnswerNo, nil
	default:
		return "", fmt.Errorf("invalid answer %q: use yes or no", s)
	}
}

// Installer sets up the deployment template for an app.
type Installer interface {
	Setup(ctx context.Context, appPath, appName string) ([]deployment.RenderedFile, error)
}

// Flow is the post-scaffold interaction.
type Flow struct {
	In  io.Reader
	Out io.Writer

	Manager         pkgmgr.Manager
	Dependencies    []string
	DevDependencies []string
	Deployment      Installer

	// Answer presets the deployment question; AnswerAsk reads In.
	Answer string

	Log *zap.Logger
}

// Outcome records what the flow did.
type Outcome struct {
	Deployment           bool
	DependenciesAdded    bool
	DevDependenciesAdded bool
	Rendered             []deployment.RenderedFile
}

// Run asks whether to add the deployment template, installs the extra
// packages and then either sets up the deployment template or prints the
// closing line. Failed package installs are logged and do not stop the
// flow; a failed deployment setup is returned.
func (f *Flow) Run(ctx context.Context, appName, appPath string) (*Outcome, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	wantDeployment, err := f.ask()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(f.Out, appPath)
	fmt.Fprintln(f.Out, "installing .......")

	outcome := &Outcome{Deployment: wantDeployment}
	outcome.DependenciesAdded = f.add(ctx, log, appPath, f.Dependencies, false)
	outcome.DevDependenciesAdded = f.add(ctx, log, appPath, f.DevDependencies, true)

	if !wantDeployment {
		fmt.Fprintln(f.Out, "Happy hacking!")
		return outcome, nil
	}

	if f.Deployment == nil {
		return outcome, errors.New("deployment template requested but no installer configured")
	}
	rendered, err := f.Deployment.Setup(ctx, appPath, appName)
	if err != nil {
		return outcome, err
	}
	outcome.Rendered = rendered
	return outcome, nil
}

func (f *Flow) ask() (bool, error) {
	answer, err := ParseAnswer(f.Answer)
	if err != nil {
		return false, err
	}
	if answer != AnswerAsk {
		return answer == AnswerYes, nil
	}

	fmt.Fprint(f.Out, Prompt)
	if f.In == nil {
		return false, nil
	}
	line, err := bufio.NewReader(f.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	line = strings.TrimSpace(line)
	return line == "y" || line == "Y", nil
}

func (f *Flow) add(ctx context.Context, log *zap.Logger, appPath string, specs []string, dev bool) bool {
	if len(specs) == 0 {
		return true
	}
	if f.Manager == nil {
		log.Warn("no package manager configured, skipping extra packages")
		return false
	}
	cmd := f.Manager.AddCommand(appPath, specs, dev)
	if err := f.Manager.Add(ctx, appPath, specs, dev); err != nil {
		log.Warn("installing extra packages failed", zap.String("cmd", cmd.String()), zap.Error(err))
		fmt.Fprintf(f.Out, "%s `%s` failed, continuing\n", color.YellowString("warning:"), cmd)
		return false
	}
	return true
}
