package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/branding"
	"github.com/sendit-th/sendit-app/internal/config"
	"github.com/sendit-th/sendit-app/internal/logging"
	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	noColor bool
	verbose bool

	// logger is built in the persistent pre-run from config and --verbose.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates React apps with the house toolchain: react-app-rewired scripts,
MobX, styled-components, Storybook and an optional GitLab CI + Helm deployment template.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if noColor {
			color.NoColor = true
		}

		l, err := logging.GetLogger(logging.LevelFor(config.Get(config.KeyLogLevel), verbose))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", config.KeyLogLevel, config.Get(config.KeyLogLevel), err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details and pass --verbose to npm")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit code. A
// failed subprocess keeps its own exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := platform.ExitCode(err); ok && code != 0 {
		return code
	}
	return 1
}

// PrintError writes err the way the CLI reports failures.
func PrintError(w io.Writer, err error) {
	var exitErr *platform.ExitError
	if errors.As(err, &exitErr) && exitErr.Stderr != "" {
		fmt.Fprintln(w, exitErr.Stderr)
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
}
