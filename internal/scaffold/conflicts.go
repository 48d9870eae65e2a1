package scaffold

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// allowedFiles may already exist in a directory that is scaffolded into.
var allowedFiles = map[string]bool{
	".DS_Store":      true,
	"Thumbs.db":      true,
	".git":           true,
	".gitattributes": true,
	".gitignore":     true,
	".gitlab-ci.yml": true,
	".hg":            true,
	".hgcheck":       true,
	".hgignore":      true,
	".idea":          true,
	".npmignore":     true,
	".travis.yml":    true,
	"docs":           true,
	"LICENSE":        true,
	"README.md":      true,
	"mkdocs.yml":     true,
	"package.json":   true,
	"yarn.lock":      true,
}

// ConflictError lists files that would clash with the generated app.
type ConflictError struct {
	Dir   string
	Files []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("the directory %s contains files that could conflict: %s", e.Dir, strings.Join(e.Files, ", "))
}

// CheckDirectory returns a *ConflictError when dir holds anything besides
// version-control metadata, editor folders and a few well-known files. A
// missing directory is fine.
func CheckDirectory(fsys afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	var conflicts []string
	for _, e := range entries {
		name := e.Name()
		// IntelliJ module files.
		if allowedFiles[name] || strings.HasSuffix(name, ".iml") {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		conflicts = append(conflicts, name)
	}
	if len(conflicts) == 0 {
		return nil
	}
	sort.Strings(conflicts)
	return &ConflictError{Dir: dir, Files: conflicts}
}
