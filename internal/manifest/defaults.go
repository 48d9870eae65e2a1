package manifest

import "fmt"

// DefaultBrowsers is the browserslist written into new apps.
var DefaultBrowsers = []string{
	">0.2%",
	"not dead",
	"not ie <= 11",
	"not op_mini all",
}

// EslintConfig is the eslintConfig block of package.json.
type EslintConfig struct {
	Extends string `json:"extends"`
}

// DefaultScripts returns the npm scripts of a new app. Build, start and test
// go through react-app-rewired pinned to scriptsVersion.
func DefaultScripts(scriptsVersion string) OrderedStrings {
	rewired := func(cmd string) string {
		return fmt.Sprintf("react-app-rewired %s --scripts-version %s", cmd, scriptsVersion)
	}
	return OrderedStrings{
		{Key: "start", Value: rewired("start")},
		{Key: "build", Value: rewired("build")},
		{Key: "test", Value: rewired("test") + " --env=jsdom"},
		{Key: "eject", Value: "react-scripts eject"},
		{Key: "storybook", Value: "start-storybook -p 6006"},
		{Key: "build-storybook", Value: "build-storybook"},
	}
}

// ApplyDefaults rewrites scripts, eslintConfig and browserslist, and makes
// sure a dependencies object exists.
func ApplyDefaults(p *Package, scriptsVersion string) error {
	if !p.Has("dependencies") {
		if err := p.Set("dependencies", map[string]string{}); err != nil {
			return err
		}
	}
	if err := p.Set("scripts", DefaultScripts(scriptsVersion)); err != nil {
		return err
	}
	if err := p.Set("eslintConfig", EslintConfig{Extends: "react-app"}); err != nil {
		return err
	}
	return p.Set("browserslist", DefaultBrowsers)
}

// UsesTypeScript reports whether typescript is a dependency.
func UsesTypeScript(p *Package) (bool, error) {
	deps, err := p.Dependencies()
	if err != nil {
		return false, err
	}
	_, ok := deps["typescript"]
	return ok, nil
}

// ReactInstalled reports whether both react and react-dom are dependencies.
func ReactInstalled(p *Package) (bool, error) {
	deps, err := p.Dependencies()
	if err != nil {
		return false, err
	}
	_, react := deps["react"]
	_, dom := deps["react-dom"]
	return react && dom, nil
}
