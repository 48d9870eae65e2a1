package pkgmgr

import (
	"context"

	"github.com/sendit-th/sendit-app/internal/platform"
)

// Yarn drives yarn. The initial install goes through the yarnpkg alias,
// which avoids the Hadoop `yarn` binary on systems that ship both.
type Yarn struct {
	Env
}

func (y *Yarn) Name() string        { return NameYarn }
func (y *Yarn) DisplayName() string { return "yarn" }

// InstallArgs returns `add`. Yarn has no verbose flag for add.
func (y *Yarn) InstallArgs(bool) []string {
	return []string{"add"}
}

// AddArgs returns `add` or `add -D`.
func (y *Yarn) AddArgs(dev bool) []string {
	if dev {
		return []string{"add", "-D"}
	}
	return []string{"add"}
}

func (y *Yarn) InstallCommand(dir string, specs []string, verbose bool) platform.Command {
	return platform.Command{Dir: dir, Name: "yarnpkg", Args: append(y.InstallArgs(verbose), specs...)}
}

func (y *Yarn) AddCommand(dir string, specs []string, dev bool) platform.Command {
	return platform.Command{Dir: dir, Name: "yarn", Args: append(y.AddArgs(dev), specs...)}
}

// ScriptCommand renders `yarn <script>`.
func (y *Yarn) ScriptCommand(script string) string {
	return "yarn " + script
}

func (y *Yarn) Install(ctx context.Context, dir string, specs []string, verbose bool) error {
	return y.run(ctx, y.InstallCommand(dir, specs, verbose))
}

func (y *Yarn) Add(ctx context.Context, dir string, specs []string, dev bool) error {
	return y.run(ctx, y.AddCommand(dir, specs, dev))
}
