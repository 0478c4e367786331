// Package lock provides the advisory file lock that serializes report writes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrAlreadyLocked is returned when another cipcheck process keeps the lock
// past the caller's deadline.
var ErrAlreadyLocked = errors.New("another cipcheck process is writing this report")

// DefaultRetryDelay is how often Acquire polls a held lock.
const DefaultRetryDelay = 50 * time.Millisecond

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLockContext(ctx context.Context, retryDelay time.Duration) (bool, error)
	Unlock() error
}

// Lock wraps a Flocker and waits for the lock until the context is done.
type Lock struct {
	flocker    Flocker
	retryDelay time.Duration
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f, retryDelay: DefaultRetryDelay}
}

// NewFromPath creates a Lock backed by a file at the given path.
func NewFromPath(path string) *Lock {
	return New(flock.New(path))
}

// Acquire blocks until the lock is held or ctx is done. A deadline that
// expires while another process holds the lock yields ErrAlreadyLocked.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryLockContext(ctx, l.retryDelay)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrAlreadyLocked
	case err != nil:
		return fmt.Errorf("acquiring lock: %w", err)
	case !ok:
		return ErrAlreadyLocked
	}
	return nil
}

// Unlock releases the advisory lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}
