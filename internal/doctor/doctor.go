// Package doctor checks that the tools a scaffolded app needs are installed
// and recent enough.
package doctor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sendit-th/sendit-app/internal/manifest"
	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/sendit-th/sendit-app/internal/vcs"
	"github.com/spf13/afero"
)

// Requirement is a command-line tool and its minimum version.
type Requirement struct {
	Name    string
	Minimum string
	// Optional tools only produce warnings.
	Optional bool
	// Purpose is shown when the tool is missing.
	Purpose string
}

// Requirements lists the tools scaffolding uses.
var Requirements = []Requirement{
	{Name: "node", Minimum: "8.10.0", Purpose: "runs react-scripts"},
	{Name: "npm", Minimum: "5.0.0", Purpose: "installs dependencies"},
	{Name: "yarn", Minimum: "1.0.0", Optional: true, Purpose: "installs the extra packages"},
	{Name: "git", Minimum: "1.7.0", Optional: true, Purpose: "creates the initial commit and clones the deployment template"},
}

// Status of a single check.
type Status string

const (
	StatusOK       Status = " OK "
	StatusMissing  Status = "MISS"
	StatusOutdated Status = "WARN"
	StatusFailed   Status = "FAIL"
)

// Result is the outcome of checking one Requirement.
type Result struct {
	Requirement
	Path    string
	Version *semver.Version
	Status  Status
	Err     error
}

// Blocking reports whether the result should fail the check run.
func (r Result) Blocking() bool {
	return r.Status != StatusOK && !r.Optional
}

// Check probes every requirement through r.
func Check(ctx context.Context, r platform.Runner, reqs []Requirement) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, checkOne(ctx, r, req))
	}
	return results
}

func checkOne(ctx context.Context, r platform.Runner, req Requirement) Result {
	res := Result{Requirement: req}

	path, err := r.LookPath(req.Name)
	if err != nil {
		res.Status = StatusMissing
		return res
	}
	res.Path = path

	out, err := r.Run(ctx, platform.Command{Name: req.Name, Args: []string{"--version"}})
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	v, err := vcs.ParseVersion(out.Stdout)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Version = v

	ok, err := AtLeast(v.String(), req.Minimum)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	if !ok {
		res.Status = StatusOutdated
		return res
	}
	res.Status = StatusOK
	return res
}

// AtLeast reports whether version >= minimum. A leading "v" is tolerated on
// either side.
func AtLeast(version, minimum string) (bool, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	m, err := semver.NewVersion(strings.TrimPrefix(minimum, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing minimum version %q: %w", minimum, err)
	}
	return !v.LessThan(m), nil
}

// Print writes one line per result and returns an error when a required
// tool is missing or too old.
func Print(w io.Writer, results []Result) error {
	fmt.Fprintln(w, "Toolchain check:")
	var failed []string
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			fmt.Fprintf(w, "  [%s] %s %s at %s\n", r.Status, r.Name, r.Version, r.Path)
		case StatusMissing:
			fmt.Fprintf(w, "  [%s] %s not found (%s)\n", r.Status, r.Name, r.Purpose)
		case StatusOutdated:
			fmt.Fprintf(w, "  [%s] %s %s is older than %s\n", r.Status, r.Name, r.Version, r.Minimum)
		default:
			fmt.Fprintf(w, "  [%s] %s: %v\n", r.Status, r.Name, r.Err)
		}
		if r.Blocking() {
			failed = append(failed, r.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("required tools unavailable: %s", strings.Join(failed, ", "))
	}
	return nil
}

// CheckPackage validates the package.json at path and prints the outcome.
func CheckPackage(w io.Writer, fsys afero.Fs, path string) error {
	fmt.Fprintf(w, "package.json validation: %s\n", path)

	result, err := manifest.ValidateFile(fsys, path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("package.json validation failed: %w", err)
	}

	if result.Valid {
		name := ""
		if p, err := manifest.Load(fsys, path); err == nil {
			name = p.Name()
		}
		fmt.Fprintf(w, "  [ OK ] Valid package.json: %s\n", name)
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    - %s\n", issue)
	}
	return fmt.Errorf("%s has %d validation issue(s)", path, len(result.Issues))
}
