// Package config loads cipcheck settings from JSONC files and command-line
// overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/tailscale/hujson"

	"github.com/eykd/cipcheck-go/internal/fs"
	"github.com/eykd/cipcheck-go/internal/logging"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = ".cipcheck.json"

// MaxJobs caps the worker pool size.
const MaxJobs = 64

// CodeConfigInvalid tags every configuration error.
const CodeConfigInvalid = "CONFIG_INVALID"

// ErrFileNotFound is returned when an explicit config file does not exist.
var ErrFileNotFound = errors.New("config file not found")

// Config holds the effective settings.
type Config struct {
	SchemaDir string    `json:"schema_dir"`
	NoSchema  bool      `json:"no_schema"`
	Jobs      int       `json:"jobs"`
	Report    string    `json:"report"`
	Log       LogConfig `json:"log"`

	// Source is the config file that was loaded, if any.
	Source string `json:"-"`
}

// LogConfig holds the diagnostics settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Jobs: 1,
		Log:  LogConfig{Level: "warn", Format: logging.FormatConsole},
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Jobs, validation.Required, validation.Min(1), validation.Max(MaxJobs)),
		validation.Field(&c.Log),
	)
}

// Validate checks the diagnostics settings.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In(anySlice(logging.Levels)...)),
		validation.Field(&l.Format, validation.Required, validation.In(anySlice(logging.Formats)...)),
	)
}

// Overrides carries command-line values. Nil fields were not given.
type Overrides struct {
	SchemaDir *string
	NoSchema  *bool
	Jobs      *int
	Report    *string
	LogLevel  *string
	LogFormat *string
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	// WorkDir is where the project file search starts; empty means the
	// process working directory.
	WorkDir string
	// Path names an explicit config file, which must exist.
	Path      string
	Overrides Overrides
}

// fileConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type fileConfig struct {
	SchemaDir *string `json:"schema_dir"`
	NoSchema  *bool   `json:"no_schema"`
	Jobs      *int    `json:"jobs"`
	Report    *string `json:"report"`
	Log       *struct {
		Level  *string `json:"level"`
		Format *string `json:"format"`
	} `json:"log"`
}

// Load resolves the configuration with the following precedence (highest
// wins): defaults, the project file found from WorkDir upwards, an explicit
// file, command-line overrides. Relative paths inside a file are resolved
// against the file's directory.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
		workDir = wd
	}

	cfg := Default()

	path, err := locate(workDir, in.Path)
	if err != nil {
		return Config{}, invalid(err)
	}
	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return Config{}, invalid(err)
		}
		cfg = merge(cfg, fc, filepath.Dir(path))
		cfg.Source = path
	}

	cfg = apply(cfg, in.Overrides)

	if err := cfg.Validate(); err != nil {
		if cfg.Source != "" {
			err = fmt.Errorf("%s: %w", cfg.Source, err)
		}
		return Config{}, invalid(err)
	}
	return cfg, nil
}

func locate(workDir, explicit string) (string, error) {
	if explicit != "" {
		p := explicit
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, explicit)
		}
		return p, nil
	}

	p, err := fs.FindUp(workDir, FileName)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return p, err
}

func readFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the located config file
	if err != nil {
		return fileConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (fileConfig, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: invalid JSONC: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(std, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("%s: invalid JSON: %w", path, err)
	}
	return fc, nil
}

func merge(base Config, fc fileConfig, dir string) Config {
	if fc.SchemaDir != nil {
		base.SchemaDir = resolve(dir, *fc.SchemaDir)
	}
	if fc.NoSchema != nil {
		base.NoSchema = *fc.NoSchema
	}
	if fc.Jobs != nil {
		base.Jobs = *fc.Jobs
	}
	if fc.Report != nil {
		base.Report = resolve(dir, *fc.Report)
	}
	if fc.Log != nil {
		if fc.Log.Level != nil {
			base.Log.Level = *fc.Log.Level
		}
		if fc.Log.Format != nil {
			base.Log.Format = *fc.Log.Format
		}
	}
	return base
}

func apply(cfg Config, o Overrides) Config {
	if o.SchemaDir != nil {
		cfg.SchemaDir = *o.SchemaDir
	}
	if o.NoSchema != nil {
		cfg.NoSchema = *o.NoSchema
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
	if o.Report != nil {
		cfg.Report = *o.Report
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		cfg.Log.Format = *o.LogFormat
	}
	return cfg
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func invalid(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
		WithTextCode(CodeConfigInvalid)
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
