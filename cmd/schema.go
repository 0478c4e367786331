package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/eykd/cipcheck-go/internal/domain"
)

// NewSchemaCmd creates the schema command, which prints the header schema
// a validate run would use for the given kind.
func NewSchemaCmd(opts *globalOptions, factory RuntimeFactory) *cobra.Command {
	return &cobra.Command{
		Use:       "schema <cip|cps>",
		Short:     "Print the effective header schema for a document kind",
		ValidArgs: []string{"cip", "cps"},
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("expected exactly one kind; usage: %s", cmd.UseLine())
			}
			if _, ok := domain.ParseKind(args[0]); !ok {
				return usageErrorf("unknown document kind %q (want cip or cps)", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := domain.ParseKind(args[0])

			rt, err := factory(cmd, opts)
			if err != nil {
				return err
			}

			src, origin, err := rt.Schemas.Source(kind)
			if err != nil {
				return &ContextError{Op: "load schema", Path: origin, Err: err}
			}
			rt.Logger.Debug("schema loaded", "kind", string(kind), "origin", origin)

			out := cmd.OutOrStdout()
			if _, err := out.Write(src); err != nil {
				return err
			}
			if !bytes.HasSuffix(src, []byte("\n")) {
				_, err = out.Write([]byte("\n"))
			}
			return err
		},
	}
}
