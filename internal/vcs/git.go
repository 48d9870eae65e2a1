// Package vcs runs the git (and hg) commands scaffolding needs: detecting an
// enclosing repository, creating the initial commit, and shallow-cloning
// template repositories.
package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// tmpSuffix is appended to the target dir during atomic clone.
const tmpSuffix = ".tmp"

// initialBranchSince is the first git release that accepts --initial-branch.
var initialBranchSince = semver.MustParse("2.28.0")

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Git drives the git binary through a platform.Runner.
type Git struct {
	Runner platform.Runner
	Log    *zap.Logger
	// FS holds the working trees git writes to. Rollback and clone
	// finalization go through it.
	FS afero.Fs

	// DefaultBranch, when set, names the branch created by git init on
	// git versions that support --initial-branch.
	DefaultBranch string
}

// New returns a Git using r. A nil logger disables logging.
func New(r platform.Runner, log *zap.Logger) *Git {
	if log == nil {
		log = zap.NewNop()
	}
	return &Git{Runner: r, Log: log, FS: afero.NewOsFs()}
}

// ParseVersion extracts a semantic version from `git --version` output, e.g.
// "git version 2.39.2 (Apple Git-143)" or "git version 2.41.0.windows.1".
func ParseVersion(out string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("no version number in %q", strings.TrimSpace(out))
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return semver.NewVersion(m[1] + "." + m[2] + "." + patch)
}

// Version returns the installed git version.
func (g *Git) Version(ctx context.Context) (*semver.Version, error) {
	out, err := g.run(ctx, "", "git", "--version")
	if err != nil {
		return nil, err
	}
	return ParseVersion(out.Stdout)
}

// IsInGitRepository reports whether dir is inside a git work tree.
func (g *Git) IsInGitRepository(ctx context.Context, dir string) bool {
	_, err := g.run(ctx, dir, "git", "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// IsInMercurialRepository reports whether dir is inside an hg repository.
func (g *Git) IsInMercurialRepository(ctx context.Context, dir string) bool {
	_, err := g.run(ctx, dir, "hg", "--cwd", ".", "root")
	return err == nil
}

// TryGitInit creates a repository in dir with a single commit of every file.
// It returns false without touching anything when git is missing or dir
// already belongs to a git or hg repository. When the commit fails after
// git init succeeded (typically a missing user.name/user.email) the new
// .git directory is removed so no half-initialized repository is left.
func (g *Git) TryGitInit(ctx context.Context, dir, message string) bool {
	version, err := g.Version(ctx)
	if err != nil {
		g.Log.Debug("git unavailable, skipping repository init", zap.Error(err))
		return false
	}

	if g.IsInGitRepository(ctx, dir) || g.IsInMercurialRepository(ctx, dir) {
		g.Log.Debug("already inside a repository, skipping init", zap.String("dir", dir))
		return false
	}

	initArgs := []string{"init"}
	if g.DefaultBranch != "" && !version.LessThan(initialBranchSince) {
		initArgs = append(initArgs, "--initial-branch="+g.DefaultBranch)
	}
	if _, err := g.run(ctx, dir, "git", initArgs...); err != nil {
		g.Log.Debug("git init failed", zap.Error(err))
		return false
	}

	if err := g.commitAll(ctx, dir, message); err != nil {
		g.Log.Debug("initial commit failed, removing .git", zap.Error(err))
		if rmErr := g.FS.RemoveAll(filepath.Join(dir, ".git")); rmErr != nil {
			g.Log.Debug("removing .git failed", zap.Error(rmErr))
		}
		return false
	}

	return true
}

func (g *Git) commitAll(ctx context.Context, dir, message string) error {
	if _, err := g.run(ctx, dir, "git", "add", "-A"); err != nil {
		return err
	}
	_, err := g.run(ctx, dir, "git", "commit", "-m", message)
	return err
}

// Clone performs a shallow clone of repoURL into dest. The clone is written
// to dest.tmp first and renamed on success; on failure the temporary
// directory is cleaned up and dest is left untouched.
func (g *Git) Clone(ctx context.Context, repoURL, dest string) error {
	if _, err := g.Runner.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}

	if ok, _ := afero.Exists(g.FS, dest); ok {
		return fmt.Errorf("clone destination %s already exists", dest)
	}

	tmpDir := dest + tmpSuffix

	// Clean up any leftover tmp dir from a previous failed attempt.
	_ = g.FS.RemoveAll(tmpDir)

	if _, err := g.run(ctx, filepath.Dir(dest), "git", "clone", "--depth=1", repoURL, tmpDir); err != nil {
		_ = g.FS.RemoveAll(tmpDir)
		return fmt.Errorf("cloning %s: %w", repoURL, err)
	}

	if err := g.FS.Rename(tmpDir, dest); err != nil {
		_ = g.FS.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing clone: %w", err)
	}

	return nil
}

func (g *Git) run(ctx context.Context, dir, name string, args ...string) (*platform.Output, error) {
	cmd := platform.Command{Dir: dir, Name: name, Args: args}
	g.Log.Debug("exec", zap.String("cmd", cmd.String()), zap.String("dir", dir))
	out, err := g.Runner.Run(ctx, cmd)
	if err != nil {
		if out != nil && strings.TrimSpace(out.Stderr) != "" {
			return out, fmt.Errorf("%w\n%s", err, strings.TrimSpace(out.Stderr))
		}
		return out, err
	}
	return out, nil
}
