package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendit-th/sendit-app/internal/templates"
	"github.com/spf13/afero"
)

// NormalizeGitignore renames the template's gitignore to .gitignore. When
// .gitignore already exists the template entries are appended to it and
// gitignore is deleted. A missing gitignore is not an error.
func NormalizeGitignore(fsys afero.Fs, appPath string) error {
	src := filepath.Join(appPath, templates.GitignoreName)
	dst := filepath.Join(appPath, ".gitignore")

	content, err := afero.ReadFile(fsys, src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading gitignore: %w", err)
	}

	exists, err := afero.Exists(fsys, dst)
	if err != nil {
		return fmt.Errorf("checking .gitignore: %w", err)
	}
	if !exists {
		if err := fsys.Rename(src, dst); err != nil {
			return fmt.Errorf("renaming gitignore: %w", err)
		}
		return nil
	}

	existing, err := afero.ReadFile(fsys, dst)
	if err != nil {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	// Ensure there's a newline before our addition.
	data := content
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		data = append([]byte("\n"), content...)
	}

	f, err := fsys.OpenFile(dst, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore for append: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing to .gitignore: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing .gitignore: %w", err)
	}

	if err := fsys.Remove(src); err != nil {
		return fmt.Errorf("removing gitignore: %w", err)
	}
	return nil
}
