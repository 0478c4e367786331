// Package cmd contains the CLI commands for the cipcheck application.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eykd/cipcheck-go/internal/logging"
)

// globalOptions holds the persistent flag values shared by every command.
type globalOptions struct {
	configPath string
	schemaDir  string
	noSchema   bool
	jobs       int
	verbose    bool
	logFormat  logFormatValue
}

// logFormatValue is a pflag.Value restricted to the supported log formats.
type logFormatValue string

var _ pflag.Value = (*logFormatValue)(nil)

func (v *logFormatValue) String() string { return string(*v) }

func (v *logFormatValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range logging.Formats {
		if s == f {
			*v = logFormatValue(s)
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(logging.Formats, ", "))
}

func (v *logFormatValue) Type() string { return "format" }

// NewRootCmd creates a new root command instance bound to opts.
func NewRootCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cipcheck",
		Short: "Validate Cardano CIP and CPS documents",
		Long: "cipcheck validates Cardano Improvement Proposals (CIP) and Cardano Problem Statements (CPS):\n" +
			"header fields, cross-references, body sections and line endings.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	opts.logFormat = logFormatValue(logging.FormatConsole)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (default: nearest .cipcheck.json)")
	flags.StringVar(&opts.schemaDir, "schema-dir", "", "Read header schemas from this directory instead of the built-in ones")
	flags.BoolVar(&opts.noSchema, "no-schema", false, "Skip JSON Schema and validate headers with the built-in rules")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "Number of documents to validate concurrently")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging to stderr")
	flags.Var(&opts.logFormat, "log-format", "Diagnostics format: "+strings.Join(logging.Formats, ", "))

	return cmd
}
