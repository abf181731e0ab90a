package app

import (
	"github.com/spf13/cobra"

	"github.com/api3dao/ois/internal/report"
)

func NewValidateCmd(mgr Manager) *cobra.Command {
	var verbose bool
	var watch bool
	var workers int
	var output formatValue
	var referenceVersion versionValue

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate one or more OIS documents",
		Args:  cobra.MinimumNArgs(1),
		Example: `
VALIDATING FILES
  ois validate ois.json
  ois validate api.yml other.json

VALIDATING DIRECTORIES
  ois validate ./oises - validates every .json, .yaml and .yml document below ./oises

AGAINST ANOTHER OIS VERSION
  ois validate --reference-version 2.2.0 ois.json`,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed results, including offending values")
	cmd.Flags().VarP(&output, "output", "o", "Output format (text, json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch for changes and revalidate")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Documents validated at the same time (0 uses one per CPU)")
	cmd.Flags().Var(&referenceVersion, "reference-version",
		"Version whose major.minor every oisFormat must match")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := mgr.Config()
		req := ValidateRequest{
			Paths:            args,
			Output:           report.Format(cfg.Output),
			Verbose:          verbose,
			ReferenceVersion: cfg.ReferenceVersion,
			Workers:          cfg.Workers,
			Extensions:       cfg.Extensions,
		}
		if output != "" {
			req.Output = report.Format(output)
		}
		if referenceVersion != "" {
			req.ReferenceVersion = string(referenceVersion)
		}
		if cmd.Flags().Changed("workers") {
			req.Workers = workers
		}

		noColour, _ := cmd.Flags().GetBool("nocolour")
		req.UseColour = !noColour

		if watch {
			return mgr.WatchValidation(cmd.Context(), req, nil)
		}
		return mgr.Validate(cmd.Context(), req)
	}

	return cmd
}
