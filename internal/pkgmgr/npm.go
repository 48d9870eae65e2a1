package pkgmgr

import (
	"context"

	"github.com/sendit-th/sendit-app/internal/platform"
)

// Npm drives the npm CLI.
type Npm struct {
	Env
}

func (n *Npm) Name() string        { return NameNpm }
func (n *Npm) DisplayName() string { return "npm" }

// InstallArgs returns `install --save [--verbose]`.
func (n *Npm) InstallArgs(verbose bool) []string {
	args := []string{"install", "--save"}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}

// AddArgs returns `install --save` or `install --save-dev`.
func (n *Npm) AddArgs(dev bool) []string {
	if dev {
		return []string{"install", "--save-dev"}
	}
	return []string{"install", "--save"}
}

func (n *Npm) InstallCommand(dir string, specs []string, verbose bool) platform.Command {
	return platform.Command{Dir: dir, Name: "npm", Args: append(n.InstallArgs(verbose), specs...)}
}

func (n *Npm) AddCommand(dir string, specs []string, dev bool) platform.Command {
	return platform.Command{Dir: dir, Name: "npm", Args: append(n.AddArgs(dev), specs...)}
}

// ScriptCommand renders `npm start`, `npm test` or `npm run <script>`.
func (n *Npm) ScriptCommand(script string) string {
	switch script {
	case "start", "test":
		return "npm " + script
	default:
		return "npm run " + script
	}
}

func (n *Npm) Install(ctx context.Context, dir string, specs []string, verbose bool) error {
	return n.run(ctx, n.InstallCommand(dir, specs, verbose))
}

func (n *Npm) Add(ctx context.Context, dir string, specs []string, dev bool) error {
	return n.run(ctx, n.AddCommand(dir, specs, dev))
}
