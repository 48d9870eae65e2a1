// Package templates holds the starter trees copied into new apps and the
// copy routine shared by built-in and user-supplied templates.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed all:files
var files embed.FS

// Built-in template names.
const (
	JavaScript = "template"
	TypeScript = "template-typescript"
)

// GitignoreName is the template's ignore file. It is stored without the
// leading dot so npm publishing does not turn it into .npmignore.
const GitignoreName = "gitignore"

// Names returns the built-in template names.
func Names() []string {
	return []string{JavaScript, TypeScript}
}

// ForLanguage picks the built-in template for a project.
func ForLanguage(typescript bool) string {
	if typescript {
		return TypeScript
	}
	return JavaScript
}

// Builtin returns the embedded tree for a built-in template.
func Builtin(name string) (fs.FS, error) {
	dir := path.Join("files", name)
	if _, err := fs.Stat(files, dir); err != nil {
		return nil, fmt.Errorf("template %q not found (built-in templates: %s): %w", name, strings.Join(Names(), ", "), err)
	}
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("opening template %q: %w", name, err)
	}
	return sub, nil
}
