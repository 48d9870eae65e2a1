package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/branding"
	"github.com/sendit-th/sendit-app/internal/deployment"
	"github.com/sendit-th/sendit-app/internal/extras"
	"github.com/sendit-th/sendit-app/internal/manifest"
	"github.com/sendit-th/sendit-app/internal/pkgmgr"
	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/sendit-th/sendit-app/internal/templates"
	"github.com/sendit-th/sendit-app/internal/vcs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	// ErrTemplateNotFound is returned when a custom template path does not exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrInstallFailed is returned when the dependency install exits non-zero.
	ErrInstallFailed = errors.New("dependency install failed")
)

// Options describe one scaffolding run.
type Options struct {
	// AppPath is the absolute path of the app directory.
	AppPath string
	// AppName is written to package.json.
	AppName string
	// Verbose passes --verbose to npm.
	Verbose bool
	// OriginalDirectory is where the user invoked the tool. May be empty.
	OriginalDirectory string
	// Template is an optional template directory, relative to
	// OriginalDirectory unless absolute.
	Template string
}

// GitInitializer creates the initial repository for a new app.
type GitInitializer interface {
	TryGitInit(ctx context.Context, dir, message string) bool
}

// Scaffolder runs Init against injectable filesystem, process and terminal
// dependencies.
type Scaffolder struct {
	FS     afero.Fs
	Runner platform.Runner
	Git    GitInitializer

	Stdin io.Reader
	Out   io.Writer
	Err   io.Writer
	Log   *zap.Logger

	// ScriptsVersion is passed to react-app-rewired in the generated scripts.
	ScriptsVersion string
	// CommitMessage is used for the initial commit.
	CommitMessage string
	// PackageManager forces npm or yarn. Empty detects from yarn.lock.
	PackageManager string

	// Extras runs after the success banner. Nil skips it.
	Extras *extras.Flow
}

// Result describes a completed Init.
type Result struct {
	AppName        string
	AppPath        string
	PackageManager string
	TypeScript     bool
	// Template is the custom template path, or the built-in tree name.
	Template  string
	Files     []string
	Installed bool
	// InstallSpecs are the packages passed to the install command.
	InstallSpecs   []string
	GitInitialized bool
	ReadmeRenamed  bool
	CdPath         string
	Warnings       []string
	Extras         *extras.Outcome
}

// New returns a Scaffolder wired to the real filesystem, os/exec and the
// process's stdio.
func New(log *zap.Logger) *Scaffolder {
	if log == nil {
		log = zap.NewNop()
	}
	runner := platform.ExecRunner{}
	return &Scaffolder{
		FS:             afero.NewOsFs(),
		Runner:         runner,
		Git:            vcs.New(runner, log),
		Stdin:          os.Stdin,
		Out:            os.Stdout,
		Err:            os.Stderr,
		Log:            log,
		ScriptsVersion: branding.ScriptsVersion(),
		CommitMessage:  branding.CommitMessage(),
	}
}

// Init scaffolds opts.AppPath using the defaults of New, followed by the
// default extras flow.
func Init(ctx context.Context, opts Options) (*Result, error) {
	s := New(nil)
	git := vcs.New(s.Runner, s.Log)
	s.Extras = &extras.Flow{
		In:  s.Stdin,
		Out: s.Out,
		Manager: pkgmgr.Dispatch(pkgmgr.NameYarn, pkgmgr.Env{
			Runner: s.Runner,
			Stdout: s.Out,
			Stderr: s.Err,
			Log:    s.Log,
		}),
		Dependencies:    extras.DefaultDependencies,
		DevDependencies: extras.DefaultDevDependencies,
		Deployment: &deployment.Deployer{
			FS:      s.FS,
			Cloner:  git,
			RepoURL: branding.DeploymentRepoURL(),
			Out:     s.Out,
			Log:     s.Log,
		},
		Log: s.Log,
	}
	return s.Init(ctx, opts)
}

// Init runs the scaffolding steps in order and stops at the first failure.
// A missing custom template returns ErrTemplateNotFound and a failed install
// returns ErrInstallFailed wrapping the *platform.ExitError.
func (s *Scaffolder) Init(ctx context.Context, opts Options) (*Result, error) {
	log := s.logger()
	appPath := opts.AppPath
	if appPath == "" {
		return nil, errors.New("app path is required")
	}

	if err := s.FS.MkdirAll(appPath, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", appPath, err)
	}

	pkg, found, err := manifest.LoadOrNew(s.FS, appPath, opts.AppName)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded package.json", zap.Bool("existing", found))

	pmName := pkgmgr.Detect(s.FS, appPath, s.PackageManager)
	if !pkgmgr.Known(pmName) {
		return nil, fmt.Errorf("unsupported package manager %q: use %s or %s", pmName, pkgmgr.NameNpm, pkgmgr.NameYarn)
	}
	pm := pkgmgr.Dispatch(pmName, pkgmgr.Env{
		Runner: s.Runner,
		Stdin:  s.Stdin,
		Stdout: s.Out,
		Stderr: s.Err,
		Log:    log,
	})

	result := &Result{
		AppName:        opts.AppName,
		AppPath:        appPath,
		PackageManager: pmName,
	}

	if err := manifest.ApplyDefaults(pkg, s.scriptsVersion()); err != nil {
		return nil, fmt.Errorf("updating package.json: %w", err)
	}
	if err := pkg.Write(s.FS, filepath.Join(appPath, manifest.FileName)); err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, s.validate(pkg)...)

	useTypeScript, err := manifest.UsesTypeScript(pkg)
	if err != nil {
		return nil, err
	}
	result.TypeScript = useTypeScript

	readmeRenamed, err := renameReadme(s.FS, appPath)
	if err != nil {
		return nil, err
	}
	result.ReadmeRenamed = readmeRenamed

	src, templateName, err := s.resolveTemplate(opts, useTypeScript)
	if err != nil {
		return nil, err
	}
	result.Template = templateName

	files, err := templates.Copy(src, s.FS, appPath)
	if err != nil {
		return nil, err
	}
	result.Files = files
	log.Debug("copied template", zap.String("template", templateName), zap.Int("files", len(files)))

	if err := NormalizeGitignore(s.FS, appPath); err != nil {
		return nil, err
	}

	specs := []string{"react", "react-dom"}
	depsPath := filepath.Join(appPath, manifest.TemplateDependenciesFile)
	if ok, _ := afero.Exists(s.FS, depsPath); ok {
		extra, err := manifest.LoadTemplateDependencies(s.FS, depsPath)
		if err != nil {
			return nil, err
		}
		specs = append(specs, extra...)
		if err := s.FS.Remove(depsPath); err != nil {
			return nil, fmt.Errorf("removing %s: %w", manifest.TemplateDependenciesFile, err)
		}
	}
	result.InstallSpecs = specs

	reactInstalled, err := manifest.ReactInstalled(pkg)
	if err != nil {
		return nil, err
	}
	if !reactInstalled || opts.Template != "" {
		cmd := pm.InstallCommand(appPath, specs, opts.Verbose)
		fmt.Fprintf(s.Out, "Installing react and react-dom using %s...\n\n", cmd.Name)

		if err := pm.Install(ctx, appPath, specs, opts.Verbose); err != nil {
			fmt.Fprintf(s.Err, "`%s` failed\n", cmd)
			return result, fmt.Errorf("%w: %w", ErrInstallFailed, err)
		}
		result.Installed = true
	}

	if useTypeScript {
		changes, err := VerifyTypeScriptSetup(s.FS, appPath)
		if err != nil {
			return result, err
		}
		printTypeScriptChanges(s.Out, changes)
	}

	if s.Git != nil && s.Git.TryGitInit(ctx, appPath, s.commitMessage()) {
		fmt.Fprintln(s.Out)
		fmt.Fprintln(s.Out, "Initialized a git repository.")
		result.GitInitialized = true
	}

	result.CdPath = CdPath(opts.OriginalDirectory, opts.AppName, appPath)
	printSuccess(s.Out, result, pm)

	if s.Extras != nil {
		outcome, err := s.Extras.Run(ctx, opts.AppName, appPath)
		result.Extras = outcome
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

// resolveTemplate returns the tree to copy and a name for it.
func (s *Scaffolder) resolveTemplate(opts Options, useTypeScript bool) (fs.FS, string, error) {
	if opts.Template == "" {
		name := templates.ForLanguage(useTypeScript)
		src, err := templates.Builtin(name)
		if err != nil {
			return nil, "", err
		}
		return src, name, nil
	}

	path := ResolveTemplatePath(opts.OriginalDirectory, opts.Template)
	if ok, _ := afero.DirExists(s.FS, path); !ok {
		fmt.Fprintf(s.Err, "Could not locate supplied template: %s\n", color.GreenString(path))
		return nil, "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}
	return afero.NewIOFS(afero.NewBasePathFs(s.FS, path)), path, nil
}

// validate checks the written package.json against the schema and returns
// any problems as warnings.
func (s *Scaffolder) validate(pkg *manifest.Package) []string {
	res, err := manifest.ValidatePackage(pkg)
	if err != nil {
		return []string{fmt.Sprintf("Could not validate package.json: %v", err)}
	}
	var warnings []string
	for _, issue := range res.Issues {
		s.logger().Warn("package.json schema issue", zap.String("path", issue.Path), zap.String("message", issue.Message))
		warnings = append(warnings, issue.String())
	}
	return warnings
}

func (s *Scaffolder) scriptsVersion() string {
	if s.ScriptsVersion != "" {
		return s.ScriptsVersion
	}
	return branding.ScriptsVersion()
}

func (s *Scaffolder) commitMessage() string {
	if s.CommitMessage != "" {
		return s.CommitMessage
	}
	return branding.CommitMessage()
}

func (s *Scaffolder) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// ResolveTemplatePath resolves template against originalDirectory. Absolute
// templates are returned cleaned; with no originalDirectory the path is made
// absolute against the working directory.
func ResolveTemplatePath(originalDirectory, template string) string {
	if filepath.IsAbs(template) {
		return filepath.Clean(template)
	}
	if originalDirectory != "" {
		return filepath.Join(originalDirectory, template)
	}
	if abs, err := filepath.Abs(template); err == nil {
		return abs
	}
	return filepath.Clean(template)
}

// CdPath returns the shortest way to reach appPath from where the user ran
// the tool: the bare app name when appPath is originalDirectory/appName,
// otherwise the full path.
func CdPath(originalDirectory, appName, appPath string) string {
	if originalDirectory != "" && filepath.Join(originalDirectory, appName) == filepath.Clean(appPath) {
		return appName
	}
	return appPath
}

func renameReadme(fsys afero.Fs, appPath string) (bool, error) {
	readme := filepath.Join(appPath, "README.md")
	ok, err := afero.Exists(fsys, readme)
	if err != nil || !ok {
		return false, err
	}
	if err := fsys.Rename(readme, filepath.Join(appPath, "README.old.md")); err != nil {
		return false, fmt.Errorf("renaming README.md: %w", err)
	}
	return true, nil
}
