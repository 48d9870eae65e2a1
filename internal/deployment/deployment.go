package deployment

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Names of the entries moved out of the cloned template.
const (
	PipelineSource = "gitlab-ci.yml"
	PipelineFile   = ".gitlab-ci.yml"
	DeploymentDir  = "deployment"
)

// Cloner fetches a repository into dest.
type Cloner interface {
	Clone(ctx context.Context, repoURL, dest string) error
}

// Deployer installs the deployment template into an app directory.
type Deployer struct {
	FS      afero.Fs
	Cloner  Cloner
	RepoURL string
	Out     io.Writer
	Log     *zap.Logger
}

// CloneDir returns the directory name a clone of repoURL is written to,
// e.g. "template-deployment-frontend" for
// https://gitlab.com/sendit-th/template-deployment-frontend.git.
func CloneDir(repoURL string) string {
	base := path.Base(strings.TrimRight(repoURL, "/"))
	base = strings.TrimSuffix(base, ".git")
	if base == "" || base == "." || base == "/" {
		return "deployment-template"
	}
	return base
}

// Clone fetches the template into appPath, moves gitlab-ci.yml to
// .gitlab-ci.yml and deployment/ into place, then removes the clone.
func (d *Deployer) Clone(ctx context.Context, appPath string) error {
	if d.RepoURL == "" {
		return fmt.Errorf("no deployment template repository configured")
	}
	log := d.logger()

	fmt.Fprintln(d.out(), color.CyanString("cloning Deployment Template"))

	cloneDir := filepath.Join(appPath, CloneDir(d.RepoURL))
	moves := []struct{ from, to string }{
		{filepath.Join(cloneDir, PipelineSource), filepath.Join(appPath, PipelineFile)},
		{filepath.Join(cloneDir, DeploymentDir), filepath.Join(appPath, DeploymentDir)},
	}
	for _, m := range moves {
		if ok, _ := afero.Exists(d.FS, m.to); ok {
			return fmt.Errorf("%s already exists", m.to)
		}
	}

	log.Debug("cloning deployment template", zap.String("repo", d.RepoURL), zap.String("dest", cloneDir))
	if err := d.Cloner.Clone(ctx, d.RepoURL, cloneDir); err != nil {
		return fmt.Errorf("cloning deployment template: %w", err)
	}
	defer func() {
		if err := d.FS.RemoveAll(cloneDir); err != nil {
			log.Warn("removing deployment template clone", zap.String("dir", cloneDir), zap.Error(err))
		}
	}()

	for _, m := range moves {
		if ok, err := afero.Exists(d.FS, m.from); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("deployment template has no %s", filepath.Base(m.from))
		}
	}
	for _, m := range moves {
		if err := d.FS.Rename(m.from, m.to); err != nil {
			return fmt.Errorf("moving %s: %w", filepath.Base(m.from), err)
		}
	}
	return nil
}

// Setup clones the template and renders it for appName.
func (d *Deployer) Setup(ctx context.Context, appPath, appName string) ([]RenderedFile, error) {
	if err := d.Clone(ctx, appPath); err != nil {
		return nil, err
	}
	rendered, err := Render(ctx, d.FS, appPath, Values(appName))
	if err != nil {
		return nil, fmt.Errorf("rendering deployment template: %w", err)
	}
	d.logger().Debug("deployment template rendered", zap.Int("files", len(rendered)))
	return rendered, nil
}

func (d *Deployer) out() io.Writer {
	if d.Out == nil {
		return io.Discard
	}
	return d.Out
}

func (d *Deployer) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
