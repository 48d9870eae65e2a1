package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendit-th/sendit-app/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyPackageManager        = "package_manager"
	KeyDeploymentRepo        = "deployment_repo"
	KeyCommitMessage         = "commit_message"
	KeyDefaultBranch         = "default_branch"
	KeyLogLevel              = "log_level"
	KeyExtrasPackageManager  = "extras.package_manager"
	KeyExtrasDependencies    = "extras.dependencies"
	KeyExtrasDevDependencies = "extras.dev_dependencies"
)

// Keys lists every recognized key, in display order.
var Keys = []string{
	KeyPackageManager,
	KeyDeploymentRepo,
	KeyCommitMessage,
	KeyDefaultBranch,
	KeyLogLevel,
	KeyExtrasPackageManager,
	KeyExtrasDependencies,
	KeyExtrasDevDependencies,
}

// Dir returns the path to the config directory (~/.sendit/).
// SENDIT_HOME overrides the location.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.sendit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyDeploymentRepo, branding.DeploymentRepoURL())
	viper.SetDefault(KeyCommitMessage, branding.CommitMessage())
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyExtrasPackageManager, "yarn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetStringSlice returns a list value. A plain string is split on whitespace.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// Display renders the effective value of key. List values are joined with
// spaces.
func Display(key string) string {
	switch key {
	case KeyExtrasDependencies, KeyExtrasDevDependencies:
		return strings.Join(GetStringSlice(key), " ")
	default:
		return Get(key)
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
