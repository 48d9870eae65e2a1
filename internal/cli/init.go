package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/config"
	"github.com/sendit-th/sendit-app/internal/extras"
	"github.com/sendit-th/sendit-app/internal/manifest"
	"github.com/sendit-th/sendit-app/internal/pkgmgr"
	"github.com/sendit-th/sendit-app/internal/scaffold"
	"github.com/sendit-th/sendit-app/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	initName           string
	initTemplate       string
	initPackageManager string
	initDeployment     string
	initSkipExtras     bool
	initForce          bool
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Package name (defaults to the directory name)")
	initCmd.Flags().StringVar(&initTemplate, "template", "", "Template directory to copy instead of the built-in one")
	initCmd.Flags().StringVar(&initPackageManager, "package-manager", "", "Force npm or yarn (defaults to yarn when yarn.lock exists)")
	initCmd.Flags().StringVar(&initDeployment, "deployment", "", "Answer the deployment template question: yes or no")
	initCmd.Flags().BoolVar(&initSkipExtras, "skip-extras", false, "Skip the extra packages and deployment template")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Scaffold into a directory that already contains files")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <app-path>",
	Short: "Create a React app",
	Long: `Create a React app in <app-path>.

The directory may already hold a package.json (for example one written by
create-react-app with --scripts-version sendit-react-scripts); its scripts,
eslintConfig and browserslist are replaced and every other field is kept.
A package.json that lists typescript gets the TypeScript template.

After the app is created you are asked whether to add the GitLab CI and Helm
deployment template. Use --deployment=yes|no to answer up front.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	appPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving app path: %w", err)
	}

	appName := initName
	if appName == "" {
		appName = filepath.Base(appPath)
	}
	if err := manifest.ValidateName(appName); err != nil {
		var nameErr *manifest.NameError
		if errors.As(err, &nameErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Cannot create a project named %s because of npm naming restrictions:\n", color.GreenString("%q", appName))
			for _, p := range nameErr.Problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s\n", color.RedString("*"), p)
			}
		}
		return err
	}

	answer, err := extras.ParseAnswer(initDeployment)
	if err != nil {
		return err
	}

	s := scaffold.New(logger)
	if !initForce {
		if err := scaffold.CheckDirectory(s.FS, appPath); err != nil {
			return fmt.Errorf("%w\nEither try using a new directory name, or remove the files listed above (or pass --force)", err)
		}
	}

	cwd, _ := os.Getwd()

	s.Stdin = cmd.InOrStdin()
	s.Out = cmd.OutOrStdout()
	s.Err = cmd.ErrOrStderr()
	s.PackageManager = initPackageManager
	if s.PackageManager == "" {
		s.PackageManager = config.Get(config.KeyPackageManager)
	}
	if msg := config.Get(config.KeyCommitMessage); msg != "" {
		s.CommitMessage = msg
	}
	git := vcs.New(s.Runner, logger)
	git.DefaultBranch = config.Get(config.KeyDefaultBranch)
	s.Git = git

	if !initSkipExtras {
		s.Extras = newExtrasFlow(cmd, s, git, answer)
	}

	result, err := s.Init(cmd.Context(), scaffold.Options{
		AppPath:           appPath,
		AppName:           appName,
		Verbose:           verbose,
		OriginalDirectory: cwd,
		Template:          initTemplate,
	})
	if result != nil {
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("warning:"), w)
		}
	}
	return err
}

// newExtrasFlow builds the post-scaffold flow from config.
func newExtrasFlow(cmd *cobra.Command, s *scaffold.Scaffolder, git *vcs.Git, answer string) *extras.Flow {
	deps := config.GetStringSlice(config.KeyExtrasDependencies)
	if len(deps) == 0 {
		deps = extras.DefaultDependencies
	}
	devDeps := config.GetStringSlice(config.KeyExtrasDevDependencies)
	if len(devDeps) == 0 {
		devDeps = extras.DefaultDevDependencies
	}

	return &extras.Flow{
		In:  s.Stdin,
		Out: s.Out,
		Manager: pkgmgr.Dispatch(config.Get(config.KeyExtrasPackageManager), pkgmgr.Env{
			Runner: s.Runner,
			Stdout: s.Out,
			Stderr: s.Err,
			Log:    logger,
		}),
		Dependencies:    deps,
		DevDependencies: devDeps,
		Deployment:      newDeployer(cmd, s.FS, git),
		Answer:          answer,
		Log:             logger,
	}
}
