package deployment

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Files are the template files that carry placeholders, relative to the app
// directory.
var Files = []string{
	".gitlab-ci.yml",
	"deployment/values-production.yaml",
	"deployment/values-staging.yaml",
	"deployment/values-development.yaml",
	"deployment/nginx/conf.d/site.conf",
}

// RenderedFile is one file before and after substitution.
type RenderedFile struct {
	Path   string
	Before string
	After  string
}

// Changed reports whether substitution modified the file.
func (r RenderedFile) Changed() bool {
	return r.Before != r.After
}

// Diff returns a unified diff of the substitution.
func (r RenderedFile) Diff() string {
	return udiff.Unified("a/"+r.Path, "b/"+r.Path, r.Before, r.After)
}

// Render substitutes values into every file in Files under appPath and
// writes the results back. All files are processed concurrently and
// nothing is written unless every file renders.
func Render(ctx context.Context, fsys afero.Fs, appPath string, values map[string]string) ([]RenderedFile, error) {
	rendered, err := Plan(ctx, fsys, appPath, values)
	if err != nil {
		return nil, err
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, r := range rendered {
		p.Go(func(context.Context) error {
			path := filepath.Join(appPath, r.Path)
			info, err := fsys.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", r.Path, err)
			}
			if err := afero.WriteFile(fsys, path, []byte(r.After), info.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", r.Path, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return rendered, nil
}

// Plan renders every file in Files without writing anything.
func Plan(ctx context.Context, fsys afero.Fs, appPath string, values map[string]string) ([]RenderedFile, error) {
	rendered := make([]RenderedFile, len(Files))

	p := pool.New().WithErrors().WithContext(ctx)
	for i, rel := range Files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := renderFile(fsys, appPath, rel, values)
			if err != nil {
				return err
			}
			rendered[i] = r
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(rendered, func(i, j int) bool { return rendered[i].Path < rendered[j].Path })
	return rendered, nil
}

func renderFile(fsys afero.Fs, appPath, rel string, values map[string]string) (RenderedFile, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(appPath, rel))
	if err != nil {
		return RenderedFile{}, fmt.Errorf("reading %s: %w", rel, err)
	}

	out, err := Substitute(string(data), values)
	if err != nil {
		return RenderedFile{}, fmt.Errorf("rendering %s: %w", rel, err)
	}

	if isYAML(rel) {
		var doc any
		if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
			return RenderedFile{}, fmt.Errorf("rendered %s is not valid YAML: %w", rel, err)
		}
	}

	return RenderedFile{Path: filepath.ToSlash(rel), Before: string(data), After: out}, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}
