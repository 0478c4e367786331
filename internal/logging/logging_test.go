package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubProvider struct {
	requested []string
	logger    Logger
}

func (s *stubProvider) GetLogger(name string) Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLogger_FallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, SchemaModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.WithFields(map[string]any{"k": "v"}).Debug("dropped")
}

func TestModuleLogger_RequestsModule(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubProvider{logger: NewConsoleProvider(ConsoleOptions{Writer: &buf}).GetLogger(SchemaModule)}

	ModuleLogger(stub, SchemaModule).Warn("schema unavailable", "kind", "CPS")

	if len(stub.requested) != 1 || stub.requested[0] != SchemaModule {
		t.Errorf("requested = %v, want [%s]", stub.requested, SchemaModule)
	}
	want := "WARN schema unavailable kind=CPS module=cipcheck.schema\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestModuleLogger_DefaultsToRoot(t *testing.T) {
	stub := &stubProvider{logger: NoOp()}
	ModuleLogger(stub, "")
	if stub.requested[0] != RootModule {
		t.Errorf("requested = %q, want %q", stub.requested[0], RootModule)
	}
}

func TestConsoleProvider_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleProvider(ConsoleOptions{Writer: &buf, MinLevel: LevelWarn}).GetLogger("x")

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown", "err", errors.New("boom here"))

	want := "ERROR shown err=\"boom here\" logger=x\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestConsoleProvider_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	clock := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	NewConsoleProvider(ConsoleOptions{Writer: &buf, TimeFunc: clock}).GetLogger("x").Info("hello")

	if !strings.HasPrefix(buf.String(), "2024-01-02T03:04:05Z INFO hello") {
		t.Errorf("output = %q, want timestamp prefix", buf.String())
	}
}

func TestConsoleProvider_OddArgs(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleProvider(ConsoleOptions{Writer: &buf}).GetLogger("x").Info("m", "dangling")

	if !strings.Contains(buf.String(), "field_0=dangling") {
		t.Errorf("output = %q, want positional field", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(Config{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	p.GetLogger("x").Debug("visible")
	if !strings.Contains(buf.String(), "DEBUG visible") {
		t.Errorf("output = %q, want debug entry", buf.String())
	}

	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Error("NewProvider(xml) should fail")
	}
	if _, err := NewProvider(Config{Level: "loud"}); err == nil {
		t.Error("NewProvider(loud) should fail")
	}
	if p, err := NewProvider(Config{Format: "json", Level: "error"}); err != nil || p == nil {
		t.Errorf("NewProvider(json) = (%v, %v), want provider", p, err)
	}
}
