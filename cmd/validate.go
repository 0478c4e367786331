package cmd

import (
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd(opts *globalOptions, factory RuntimeFactory) *cobra.Command {
	var (
		jsonOutput bool
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate CIP and CPS documents",
		Long: "Validate each document's header, cross-references, body sections and line endings.\n" +
			"The document kind is taken from the path: a component starting with CIP- or CPS-.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("no files given; usage: %s", cmd.UseLine())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := factory(cmd, opts)
			if err != nil {
				return err
			}
			return runValidate(cmd, rt, args, jsonOutput, rt.Config.Report)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print a JSON report on stdout")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write the JSON report to this file (overrides the config file)")

	return cmd
}

// runValidate validates paths, prints the outcome and writes the report.
// It returns a ValidationFailedError when any document is invalid.
func runValidate(cmd *cobra.Command, rt *Runtime, paths []string, jsonOutput bool, reportPath string) error {
	ctx := cmd.Context()
	results, err := rt.Validator.ValidateFiles(ctx, paths)
	if err != nil {
		return err
	}

	report := newReport(results)
	rt.Logger.Debug("validation finished", "passed", report.Summary.Passed, "failed", report.Summary.Failed)

	if jsonOutput {
		writeJSON(cmd.OutOrStdout(), report)
	} else {
		formatHuman(cmd.ErrOrStderr(), results)
	}

	if reportPath != "" {
		data, err := marshalReport(report)
		if err != nil {
			return &ContextError{Op: "encode report", Err: err}
		}
		if err := rt.Reports.WriteReport(ctx, reportPath, data); err != nil {
			return err
		}
	}

	if report.Summary.Failed > 0 {
		return &ValidationFailedError{Failed: report.Summary.Failed}
	}
	return nil
}
