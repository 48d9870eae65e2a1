//go:build integration

package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/sendit-th/sendit-app/internal/platform/platformtest"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // SENDIT_HOME, holds config.yaml
	WorkDir string // parent of the generated app
	RepoURL string // file:// URL of a local deployment template
}

// setupTestEnv creates isolated temp directories, a local deployment
// template repository and a git identity for the initial commit. Tests are
// skipped when git is not installed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	env := &testEnv{
		HomeDir: t.TempDir(),
		WorkDir: t.TempDir(),
	}

	t.Setenv("SENDIT_HOME", env.HomeDir)
	t.Setenv("GIT_AUTHOR_NAME", "sendit")
	t.Setenv("GIT_AUTHOR_EMAIL", "sendit@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "sendit")
	t.Setenv("GIT_COMMITTER_EMAIL", "sendit@example.com")

	env.RepoURL = "file://" + setupDeploymentRepo(t)
	return env
}

// setupDeploymentRepo commits a synthetic deployment template and returns
// its path.
func setupDeploymentRepo(t *testing.T) string {
	t.Helper()

	repo := filepath.Join(t.TempDir(), "template-deployment-frontend")
	files := map[string]string{
		"gitlab-ci.yml": `variables:
  REGISTRY: registry.example.com/<%= registryName %>
  REPO: <%= projectRepoName %>
deploy:
  script:
    - helm upgrade --install <%= helmProductionName %> ./deployment
`,
		"deployment/values-production.yaml":  "nameOverride: <%= nameOverride %>\nservice: <%= webHttp %>\n",
		"deployment/values-staging.yaml":     "nameOverride: <%= nameOverride %>\n",
		"deployment/values-development.yaml": "nameOverride: <%= nameOverride %>\n",
		"deployment/nginx/conf.d/site.conf":  "upstream <%= webHttp %> { server localhost:3000; }\n",
		"README.md":                          "deployment template\n",
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(repo, rel), content)
	}

	for _, args := range [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", "template"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}
	return repo
}

// packageRunner runs git and hg for real and records npm and yarn
// invocations without executing them.
type packageRunner struct {
	exec platform.ExecRunner
	fake platformtest.FakeRunner
}

func isPackageManager(name string) bool {
	switch name {
	case "npm", "yarn", "yarnpkg":
		return true
	}
	return false
}

func (r *packageRunner) LookPath(name string) (string, error) {
	if isPackageManager(name) {
		return r.fake.LookPath(name)
	}
	return r.exec.LookPath(name)
}

func (r *packageRunner) Run(ctx context.Context, cmd platform.Command) (*platform.Output, error) {
	if isPackageManager(cmd.Name) {
		return r.fake.Run(ctx, cmd)
	}
	return r.exec.Run(ctx, cmd)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("expected directory to exist: %s", path)
		return
	}
	if err != nil {
		t.Errorf("stat %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q\ncontent:\n%s", path, substr, string(data))
	}
}

func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s unexpectedly contains %q", path, substr)
	}
}

func gitCommand(dir string, args ...string) platform.Command {
	return platform.Command{Dir: dir, Name: "git", Args: args}
}
