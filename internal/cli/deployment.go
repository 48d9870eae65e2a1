package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/config"
	"github.com/sendit-th/sendit-app/internal/deployment"
	"github.com/sendit-th/sendit-app/internal/manifest"
	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/sendit-th/sendit-app/internal/vcs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	deploymentName       string
	deploymentRenderOnly bool
	deploymentDryRun     bool
)

func init() {
	deploymentCmd.Flags().StringVar(&deploymentName, "name", "", "App name used in the templates (defaults to package.json name)")
	deploymentCmd.Flags().BoolVar(&deploymentRenderOnly, "render-only", false, "Fill in placeholders in files that are already present")
	deploymentCmd.Flags().BoolVar(&deploymentDryRun, "dry-run", false, "Show the rendered changes as a diff without writing (implies --render-only)")
	rootCmd.AddCommand(deploymentCmd)
}

var deploymentCmd = &cobra.Command{
	Use:   "deployment [app-path]",
	Short: "Add the GitLab CI and Helm deployment template to an app",
	Long: `Clone the deployment template into an existing app, move .gitlab-ci.yml and
deployment/ into place and fill in the <%= key %> placeholders from the app name.

The template repository is read from the deployment_repo setting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeployment,
}

func runDeployment(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	appPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving app path: %w", err)
	}

	fsys := afero.NewOsFs()
	name, err := deploymentAppName(fsys, appPath)
	if err != nil {
		return err
	}
	values := deployment.Values(name)
	out := cmd.OutOrStdout()

	if deploymentDryRun {
		rendered, err := deployment.Plan(cmd.Context(), fsys, appPath, values)
		if err != nil {
			return err
		}
		for _, r := range rendered {
			if r.Changed() {
				fmt.Fprintf(out, "# %s: %s\n", r.Path, strings.Join(deployment.Placeholders(r.Before), ", "))
				fmt.Fprint(out, r.Diff())
			}
		}
		return nil
	}

	var rendered []deployment.RenderedFile
	if deploymentRenderOnly {
		rendered, err = deployment.Render(cmd.Context(), fsys, appPath, values)
	} else {
		git := vcs.New(platform.ExecRunner{}, logger)
		rendered, err = newDeployer(cmd, fsys, git).Setup(cmd.Context(), appPath, name)
	}
	if err != nil {
		return err
	}

	for _, r := range rendered {
		fmt.Fprintf(out, "  %s %s\n", color.GreenString("rendered"), r.Path)
	}
	return nil
}

// deploymentAppName returns --name, else the package.json name, else the
// directory name.
func deploymentAppName(fsys afero.Fs, appPath string) (string, error) {
	if deploymentName != "" {
		return deploymentName, nil
	}
	pkg, found, err := manifest.LoadOrNew(fsys, appPath, filepath.Base(appPath))
	if err != nil {
		return "", err
	}
	if name := pkg.Name(); found && name != "" {
		return name, nil
	}
	return filepath.Base(appPath), nil
}

func newDeployer(cmd *cobra.Command, fsys afero.Fs, cloner deployment.Cloner) *deployment.Deployer {
	return &deployment.Deployer{
		FS:      fsys,
		Cloner:  cloner,
		RepoURL: config.Get(config.KeyDeploymentRepo),
		Out:     cmd.OutOrStdout(),
		Log:     logger,
	}
}
