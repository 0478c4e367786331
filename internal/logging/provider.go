package logging

import (
	"fmt"
	"io"
	"strings"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatPretty  = "pretty"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatConsole, FormatJSON, FormatPretty}

// Config selects and configures a provider.
type Config struct {
	Level  string
	Format string
	// Writer receives console output; structured formats use go-logger's
	// own sink.
	Writer io.Writer
}

// NewProvider builds the provider described by cfg. The console format is
// handled locally; json and pretty go through go-logger.
func NewProvider(cfg Config) (Provider, error) {
	level := LevelWarn
	if strings.TrimSpace(cfg.Level) != "" {
		parsed, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatConsole:
		return NewConsoleProvider(ConsoleOptions{Writer: cfg.Writer, MinLevel: level}), nil
	case FormatJSON, FormatPretty:
		return NewGoLoggerProvider(GoLoggerConfig{
			Level:  strings.ToLower(level.String()),
			Format: cfg.Format,
		})
	}
	return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
}
