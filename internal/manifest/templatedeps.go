package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

// TemplateDependenciesFile lists extra packages a template needs installed.
const TemplateDependenciesFile = ".template.dependencies.json"

var distTag = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

type templateDependencies struct {
	Dependencies map[string]string `json:"dependencies"`
}

// LoadTemplateDependencies reads a .template.dependencies.json file and
// returns "name@range" install specs sorted by name. Every range must be a
// semver constraint or an npm dist-tag such as "latest".
func LoadTemplateDependencies(fsys afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var td templateDependencies
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	names := make([]string, 0, len(td.Dependencies))
	for name := range td.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]string, 0, len(names))
	for _, name := range names {
		rng := td.Dependencies[name]
		if err := checkRange(rng); err != nil {
			return nil, fmt.Errorf("template dependency %q: %w", name, err)
		}
		specs = append(specs, name+"@"+rng)
	}
	return specs, nil
}

func checkRange(rng string) error {
	if _, err := semver.NewConstraint(rng); err == nil {
		return nil
	}
	if distTag.MatchString(rng) {
		return nil
	}
	return fmt.Errorf("version %q is neither a semver range nor a dist-tag", rng)
}
