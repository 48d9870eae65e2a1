// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into
// the binary with //go:embed. Hard defaults cover a missing or partial file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName           string `yaml:"cli_name"`
	DisplayName       string `yaml:"display_name"`
	Description       string `yaml:"description"`
	HomeDir           string `yaml:"home_dir"`
	EnvPrefix         string `yaml:"env_prefix"`
	GoModule          string `yaml:"go_module"`
	ScriptsVersion    string `yaml:"scripts_version"`
	DeploymentRepoURL string `yaml:"deployment_repo_url"`
	CommitMessage     string `yaml:"commit_message"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:           "sendit-app",
			DisplayName:       "Sendit App",
			Description:       "Scaffold React apps with the Sendit toolchain",
			HomeDir:           ".sendit",
			EnvPrefix:         "SENDIT",
			GoModule:          "github.com/sendit-th/sendit-app",
			ScriptsVersion:    "sendit-react-scripts",
			DeploymentRepoURL: "https://gitlab.com/sendit-th/template-deployment-frontend.git",
			CommitMessage:     "Initial commit from Create React App",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "sendit-app").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".sendit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SENDIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// ScriptsVersion returns the react-scripts fork passed to react-app-rewired
// through --scripts-version.
func ScriptsVersion() string { load(); return defaults.ScriptsVersion }

// DeploymentRepoURL returns the default git URL of the deployment template.
func DeploymentRepoURL() string { load(); return defaults.DeploymentRepoURL }

// CommitMessage returns the message used for the initial git commit.
func CommitMessage() string { load(); return defaults.CommitMessage }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "SENDIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
