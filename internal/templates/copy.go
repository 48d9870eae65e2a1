package templates

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/spf13/afero"
)

// excludedNames are files/directories never copied out of a template.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// Copy writes every regular file of src into dstDir on dst, creating
// directories as needed and overwriting existing files. Executable bits are
// preserved. It returns the copied paths relative to dstDir, in walk order.
func Copy(src fs.FS, dst afero.Fs, dstDir string) ([]string, error) {
	var copied []string

	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && shouldExclude(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(dstDir, filepath.FromSlash(p))

		if d.IsDir() {
			if err := dst.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			return nil
		}
		// Skip symlinks and other special files during copy.
		if !d.Type().IsRegular() {
			return nil
		}

		if err := copyFile(src, p, dst, target); err != nil {
			return err
		}
		copied = append(copied, p)
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying template into %s: %w", dstDir, err)
	}

	return copied, nil
}

// copyFile copies a single file, keeping the execute bit of the source.
func copyFile(src fs.FS, p string, dst afero.Fs, target string) error {
	data, err := fs.ReadFile(src, p)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p, err)
	}

	mode := os.FileMode(0644)
	if info, err := fs.Stat(src, p); err == nil && platform.IsExecutable(info.Mode()) {
		mode = 0755
	}

	if err := afero.WriteFile(dst, target, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	// WriteFile leaves the mode of an existing file untouched.
	if mode != 0644 {
		if err := platform.Chmod(dst, target, mode); err != nil {
			return fmt.Errorf("setting mode on %s: %w", target, err)
		}
	}
	return nil
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}
