// Package fs provides the filesystem adapters used by the validator service
// and the CLI.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/natefinch/atomic"

	"github.com/eykd/cipcheck-go/internal/lock"
)

// Text codes attached to categorized filesystem errors.
const (
	CodeUnreadableFile = "UNREADABLE_FILE"
	CodeReportLocked   = "REPORT_LOCKED"
	CodeReportWrite    = "REPORT_WRITE_FAILED"
)

// DefaultLockTimeout bounds how long a report write waits for the lock.
const DefaultLockTimeout = 10 * time.Second

// OSReader implements validator.Reader using os.ReadFile.
type OSReader struct{}

// ReadFile reads the document at path. A missing file is returned as an
// error matching os.ErrNotExist; other failures are categorized.
func (OSReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err == nil {
		return data, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return nil, goerrors.Wrap(err, goerrors.CategoryCommand, "reading document").
		WithTextCode(CodeUnreadableFile)
}

// ReportWriter writes report files atomically while holding an advisory
// lock on "<path>.lock".
type ReportWriter struct {
	LockTimeout time.Duration
}

// WriteReport replaces the file at path with data. Readers never observe a
// partially written report, and concurrent writers are serialized.
func (w ReportWriter) WriteReport(ctx context.Context, path string, data []byte) error {
	return WithReportLock(ctx, path, w.timeout(), func() error {
		if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryCommand, "writing report").
				WithTextCode(CodeReportWrite)
		}
		return nil
	})
}

func (w ReportWriter) timeout() time.Duration {
	if w.LockTimeout > 0 {
		return w.LockTimeout
	}
	return DefaultLockTimeout
}

// WithReportLock runs fn while holding the lock for the report at path,
// creating the report directory if needed. The lock is always released.
func WithReportLock(ctx context.Context, path string, timeout time.Duration, fn func() error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "creating report directory").
			WithTextCode(CodeReportWrite)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	l := lock.NewFromPath(path + ".lock")
	if err := l.Acquire(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "locking report").
			WithTextCode(CodeReportLocked)
	}
	defer func() { _ = l.Unlock() }()

	return fn()
}

// FindUp walks from start towards the filesystem root and returns the first
// path named name. It returns an error matching os.ErrNotExist when none
// exists.
func FindUp(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found above %s: %w", name, start, os.ErrNotExist)
		}
		dir = parent
	}
}
