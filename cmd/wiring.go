package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/cipcheck-go/internal/config"
	"github.com/eykd/cipcheck-go/internal/domain"
	"github.com/eykd/cipcheck-go/internal/frontmatter"
	"github.com/eykd/cipcheck-go/internal/fs"
	"github.com/eykd/cipcheck-go/internal/logging"
	"github.com/eykd/cipcheck-go/internal/schema"
	"github.com/eykd/cipcheck-go/internal/sections"
	"github.com/eykd/cipcheck-go/internal/validator"
	"github.com/eykd/cipcheck-go/internal/xref"
)

// Validator validates a batch of documents.
type Validator interface {
	ValidateFiles(ctx context.Context, paths []string) ([]domain.Result, error)
}

// ReportWriter persists a JSON report.
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, data []byte) error
}

// SchemaSource returns the effective header schema for a kind.
type SchemaSource interface {
	Source(kind domain.Kind) ([]byte, string, error)
}

// Runtime bundles the collaborators a command needs once flags and
// configuration are resolved.
type Runtime struct {
	Config    config.Config
	Logger    logging.Logger
	Validator Validator
	Reports   ReportWriter
	Schemas   SchemaSource
}

// RuntimeFactory builds the Runtime for a command invocation.
type RuntimeFactory func(cmd *cobra.Command, opts *globalOptions) (*Runtime, error)

// BuildCommandTree creates the root command with all subcommands. A nil
// factory wires the real filesystem, schema and logging implementations.
func BuildCommandTree(factory RuntimeFactory) *cobra.Command {
	if factory == nil {
		factory = defaultRuntime
	}
	opts := &globalOptions{}
	root := NewRootCmd(opts)
	root.AddCommand(NewValidateCmd(opts, factory))
	root.AddCommand(NewSchemaCmd(opts, factory))
	return root
}

// defaultRuntime loads configuration and wires the production services.
func defaultRuntime(cmd *cobra.Command, opts *globalOptions) (*Runtime, error) {
	cfg, err := config.Load(config.LoadInput{
		Path:      opts.configPath,
		Overrides: overridesFromFlags(cmd, opts),
	})
	if err != nil {
		return nil, err
	}

	provider, err := newLogProvider(cfg, opts.verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger := logging.ModuleLogger(provider, logging.RootModule)
	if cfg.Source != "" {
		logging.ModuleLogger(provider, logging.ConfigModule).Debug("config loaded", "path", cfg.Source)
	}

	loader := schema.Loader{Dir: cfg.SchemaDir}
	router := schema.NewRouter(
		schema.WithLoader(loader),
		schema.WithLogger(logging.ModuleLogger(provider, logging.SchemaModule)),
		schema.WithManualOnly(cfg.NoSchema),
	)

	svc := validator.NewService(
		fs.OSReader{},
		frontmatter.Parser{},
		router,
		xref.Checker{},
		sections.Checker{},
		validator.WithJobs(cfg.Jobs),
		validator.WithLogger(logging.ModuleLogger(provider, logging.ValidatorModule)),
	)

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Validator: svc,
		Reports:   reportWriter{inner: fs.ReportWriter{}, logger: logging.ModuleLogger(provider, logging.ReportModule)},
		Schemas:   loader,
	}, nil
}

func newLogProvider(cfg config.Config, verbose bool, w io.Writer) (logging.Provider, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.NewProvider(logging.Config{Level: level, Format: cfg.Log.Format, Writer: w})
}

// overridesFromFlags maps explicitly set flags onto config overrides.
func overridesFromFlags(cmd *cobra.Command, opts *globalOptions) config.Overrides {
	var o config.Overrides
	if changed(cmd, "schema-dir") {
		o.SchemaDir = &opts.schemaDir
	}
	if changed(cmd, "no-schema") {
		o.NoSchema = &opts.noSchema
	}
	if changed(cmd, "jobs") {
		o.Jobs = &opts.jobs
	}
	if changed(cmd, "log-format") {
		format := string(opts.logFormat)
		o.LogFormat = &format
	}
	if changed(cmd, "report") {
		if report, err := cmd.Flags().GetString("report"); err == nil {
			o.Report = &report
		}
	}
	return o
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// reportWriter logs report writes.
type reportWriter struct {
	inner  ReportWriter
	logger logging.Logger
}

func (w reportWriter) WriteReport(ctx context.Context, path string, data []byte) error {
	if err := w.inner.WriteReport(ctx, path, data); err != nil {
		w.logger.Error("report write failed", "path", path, "error", err)
		return &ContextError{Op: "write report", Path: path, Err: err}
	}
	w.logger.Debug("report written", "path", path, "bytes", len(data))
	return nil
}
