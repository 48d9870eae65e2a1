package cli

import (
	"github.com/sendit-th/sendit-app/internal/doctor"
	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var checkPackage string

func init() {
	doctorCmd.Flags().StringVar(&checkPackage, "check-package", "", "Validate a package.json file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that node, npm, yarn and git are available",
	Long:  `Run diagnostic checks on the tools used to create and run apps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if checkPackage != "" {
			return doctor.CheckPackage(out, afero.NewOsFs(), checkPackage)
		}
		results := doctor.Check(cmd.Context(), platform.ExecRunner{}, doctor.Requirements)
		return doctor.Print(out, results)
	},
}
