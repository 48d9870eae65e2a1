package scaffold

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/manifest"
	"github.com/spf13/afero"
)

// AppTypeDeclarationFile references the react-scripts ambient types.
const AppTypeDeclarationFile = "src/react-app-env.d.ts"

const appTypeDeclaration = "/// <reference types=\"react-scripts\" />\n"

// compilerOption is one tsconfig.json compilerOptions entry.
type compilerOption struct {
	Value any
	// Required options are overwritten when they differ; suggested ones are
	// only filled in when absent.
	Required bool
}

var compilerOptions = map[string]compilerOption{
	"target":                           {Value: "es5"},
	"lib":                              {Value: []string{"dom", "dom.iterable", "esnext"}},
	"allowJs":                          {Value: true},
	"skipLibCheck":                     {Value: true},
	"esModuleInterop":                  {Value: true},
	"allowSyntheticDefaultImports":     {Value: true},
	"strict":                           {Value: true},
	"forceConsistentCasingInFileNames": {Value: true},
	"module":                           {Value: "esnext", Required: true},
	"moduleResolution":                 {Value: "node", Required: true},
	"resolveJsonModule":                {Value: true, Required: true},
	"isolatedModules":                  {Value: true, Required: true},
	"noEmit":                           {Value: true, Required: true},
	"jsx":                              {Value: "preserve", Required: true},
}

// TypeScriptChange records one edit made to tsconfig.json.
type TypeScriptChange struct {
	Option   string
	Value    any
	Required bool
}

func (c TypeScriptChange) String() string {
	if c.Required {
		return fmt.Sprintf("compilerOptions.%s must be %v", c.Option, c.Value)
	}
	return fmt.Sprintf("compilerOptions.%s to be suggested value: %v (this can be changed)", c.Option, c.Value)
}

// TypeScriptSetup reports what VerifyTypeScriptSetup did.
type TypeScriptSetup struct {
	CreatedConfig      bool
	CreatedDeclaration bool
	Changes            []TypeScriptChange
}

// VerifyTypeScriptSetup makes appPath's tsconfig.json usable by the build:
// a missing file is created, suggested compiler options are filled in and
// required ones are enforced. It also ensures src/react-app-env.d.ts exists.
func VerifyTypeScriptSetup(fsys afero.Fs, appPath string) (*TypeScriptSetup, error) {
	setup := &TypeScriptSetup{}
	configPath := filepath.Join(appPath, "tsconfig.json")

	doc, found, err := loadJSONObject(fsys, configPath)
	if err != nil {
		return nil, err
	}
	setup.CreatedConfig = !found

	opts := map[string]any{}
	if _, err := doc.Get("compilerOptions", &opts); err != nil {
		return nil, fmt.Errorf("tsconfig.json compilerOptions: %w", err)
	}
	if opts == nil {
		opts = map[string]any{}
	}

	names := make([]string, 0, len(compilerOptions))
	for name := range compilerOptions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want := compilerOptions[name]
		current, present := opts[name]
		switch {
		case !present:
			opts[name] = want.Value
		case want.Required && !sameJSON(current, want.Value):
			opts[name] = want.Value
		default:
			continue
		}
		if found {
			setup.Changes = append(setup.Changes, TypeScriptChange{Option: name, Value: want.Value, Required: want.Required})
		}
	}

	if err := doc.Set("compilerOptions", opts); err != nil {
		return nil, err
	}
	dirty := !found || len(setup.Changes) > 0
	if !doc.Has("include") {
		if err := doc.Set("include", []string{"src"}); err != nil {
			return nil, err
		}
		dirty = true
	}

	if dirty {
		if err := doc.Write(fsys, configPath); err != nil {
			return nil, err
		}
	}

	declPath := filepath.Join(appPath, filepath.FromSlash(AppTypeDeclarationFile))
	if ok, _ := afero.Exists(fsys, declPath); !ok {
		if err := fsys.MkdirAll(filepath.Dir(declPath), 0755); err != nil {
			return nil, fmt.Errorf("creating src: %w", err)
		}
		if err := afero.WriteFile(fsys, declPath, []byte(appTypeDeclaration), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", AppTypeDeclarationFile, err)
		}
		setup.CreatedDeclaration = true
	}

	return setup, nil
}

// loadJSONObject reads an ordered JSON object, or returns an empty one when
// path does not exist.
func loadJSONObject(fsys afero.Fs, path string) (*manifest.Package, bool, error) {
	ok, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		doc, err := manifest.Parse([]byte("{}"))
		return doc, false, err
	}
	doc, err := manifest.Load(fsys, path)
	return doc, true, err
}

// sameJSON compares a decoded JSON value with a Go default.
func sameJSON(decoded, want any) bool {
	switch w := want.(type) {
	case []string:
		list, ok := decoded.([]any)
		if !ok || len(list) != len(w) {
			return false
		}
		for i := range w {
			if s, _ := list[i].(string); s != w[i] {
				return false
			}
		}
		return true
	case string:
		s, ok := decoded.(string)
		return ok && s == w
	default:
		return decoded == want
	}
}

func printTypeScriptChanges(w io.Writer, setup *TypeScriptSetup) {
	if setup.CreatedConfig {
		fmt.Fprintln(w, color.YellowString("We detected TypeScript in your project and created a %s file for you.", color.CyanString("tsconfig.json")))
		fmt.Fprintln(w)
	}
	if len(setup.Changes) > 0 {
		fmt.Fprintln(w, color.YellowString("The following changes are being made to your %s file:", color.CyanString("tsconfig.json")))
		for _, c := range setup.Changes {
			fmt.Fprintf(w, "  - %s\n", c)
		}
		fmt.Fprintln(w)
	}
}
