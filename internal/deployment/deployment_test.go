package deployment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const testRepo = "https://gitlab.com/sendit-th/template-deployment-frontend.git"

// templateFiles mirrors the layout of the deployment template repository.
var templateFiles = map[string]string{
	"gitlab-ci.yml": `variables:
  REGISTRY: registry.example.com/<%= registryName %>
  REPO: <%= projectRepoName %>
deploy:
  script:
    - helm upgrade --install <%= helmProductionName %> ./deployment
`,
	"deployment/values-production.yaml": `nameOverride: <%= nameOverride %>
ingress:
  service: <%= webHttp %>
`,
	"deployment/values-staging.yaml":     "nameOverride: <%=nameOverride%>\n",
	"deployment/values-development.yaml": "nameOverride: <%= nameOverride %>\n",
	"deployment/nginx/conf.d/site.conf":  "upstream <%= webHttp %> { server localhost:3000; }\n",
	"README.md":                          "template readme\n",
}

// fakeCloner writes templateFiles into dest on the given filesystem.
type fakeCloner struct {
	fs    afero.Fs
	files map[string]string
	err   error
	urls  []string
}

func (f *fakeCloner) Clone(_ context.Context, repoURL, dest string) error {
	f.urls = append(f.urls, repoURL)
	if f.err != nil {
		return f.err
	}
	for rel, content := range f.files {
		p := filepath.Join(dest, rel)
		if err := f.fs.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return err
		}
		if err := afero.WriteFile(f.fs, p, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func newDeployer(t *testing.T) (*Deployer, string, *bytes.Buffer) {
	t.Helper()
	appPath := t.TempDir()
	fs := afero.NewOsFs()
	var out bytes.Buffer
	return &Deployer{
		FS:      fs,
		Cloner:  &fakeCloner{fs: fs, files: templateFiles},
		RepoURL: testRepo,
		Out:     &out,
	}, appPath, &out
}

func TestCloneDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{testRepo, "template-deployment-frontend"},
		{"https://example.com/org/deploy/", "deploy"},
		{"git@gitlab.com:sendit-th/charts.git", "charts"},
		{"/srv/git/local-template", "local-template"},
	}
	for _, tt := range tests {
		if got := CloneDir(tt.in); got != tt.want {
			t.Errorf("CloneDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeployer_Clone(t *testing.T) {
	d, appPath, out := newDeployer(t)

	if err := d.Clone(context.Background(), appPath); err != nil {
		t.Fatalf("Clone() error: %v", err)
	}

	if !strings.Contains(out.String(), "cloning Deployment Template") {
		t.Errorf("missing clone message in output: %q", out.String())
	}
	for _, p := range []string{".gitlab-ci.yml", "deployment/values-production.yaml", "deployment/nginx/conf.d/site.conf"} {
		if _, err := os.Stat(filepath.Join(appPath, p)); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(appPath, "template-deployment-frontend")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("clone directory should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(appPath, "README.md")); !errors.Is(err, os.ErrNotExist) {
		t.Error("only the pipeline file and deployment directory should be moved")
	}
}

func TestDeployer_CloneFailure(t *testing.T) {
	d, appPath, _ := newDeployer(t)
	d.Cloner = &fakeCloner{err: errors.New("network down")}

	err := d.Clone(context.Background(), appPath)
	if err == nil || !strings.Contains(err.Error(), "network down") {
		t.Fatalf("expected wrapped clone error, got %v", err)
	}
}

func TestDeployer_CloneRefusesToOverwrite(t *testing.T) {
	tests := []struct {
		name     string
		existing string
	}{
		{"pipeline", ".gitlab-ci.yml"},
		{"deployment directory", "deployment/values-production.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, appPath, _ := newDeployer(t)
			existing := filepath.Join(appPath, tt.existing)
			if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(existing, []byte("stages: []\n"), 0644); err != nil {
				t.Fatal(err)
			}

			if err := d.Clone(context.Background(), appPath); err == nil || !strings.Contains(err.Error(), "already exists") {
				t.Fatalf("expected already exists error, got %v", err)
			}
			data, _ := os.ReadFile(existing)
			if string(data) != "stages: []\n" {
				t.Errorf("existing file was modified: %q", data)
			}
			if urls := d.Cloner.(*fakeCloner).urls; len(urls) != 0 {
				t.Errorf("template cloned despite conflict: %v", urls)
			}
			if _, err := os.Stat(filepath.Join(appPath, "template-deployment-frontend")); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("clone directory left behind, stat err = %v", err)
			}
		})
	}
}

func TestDeployer_CloneMissingEntry(t *testing.T) {
	d, appPath, _ := newDeployer(t)
	d.Cloner = &fakeCloner{fs: d.FS, files: map[string]string{"deployment/values-production.yaml": "a: b\n"}}

	err := d.Clone(context.Background(), appPath)
	if err == nil || !strings.Contains(err.Error(), "gitlab-ci.yml") {
		t.Fatalf("expected missing gitlab-ci.yml error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(appPath, "deployment")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("deployment/ moved although the template was incomplete, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(appPath, "template-deployment-frontend")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("clone directory left behind, stat err = %v", err)
	}
}

func TestDeployer_Setup(t *testing.T) {
	d, appPath, _ := newDeployer(t)

	rendered, err := d.Setup(context.Background(), appPath, "shop")
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if len(rendered) != len(Files) {
		t.Errorf("rendered %d files, want %d", len(rendered), len(Files))
	}

	ci, err := os.ReadFile(filepath.Join(appPath, ".gitlab-ci.yml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"registry.example.com/shop", "REPO: shop", "--install prod-th-shop ./deployment"} {
		if !strings.Contains(string(ci), want) {
			t.Errorf(".gitlab-ci.yml missing %q:\n%s", want, ci)
		}
	}

	site, err := os.ReadFile(filepath.Join(appPath, "deployment/nginx/conf.d/site.conf"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(site); got != "upstream prod-th-shop-http { server localhost:3000; }\n" {
		t.Errorf("site.conf = %q", got)
	}

	staging, _ := os.ReadFile(filepath.Join(appPath, "deployment/values-staging.yaml"))
	if string(staging) != "nameOverride: prod-th-shop\n" {
		t.Errorf("values-staging.yaml = %q", staging)
	}
}
