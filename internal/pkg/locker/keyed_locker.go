// Package locker provides per-key mutual exclusion with a bounded wait.
// The orchestrator keeps one lock domain per request id and one per robot
// name so that unrelated entities never contend with each other.
package locker

import (
	"context"
	"sync"

	"laundrybot/internal/pkg/errs"
)

// ErrLockTimeout is returned when a lock could not be acquired before the
// context deadline expired. Callers treat it as a retryable condition.
var ErrLockTimeout = errs.NewValueIsInvalidError("lock wait exceeded")

// KeyedLocker hands out one channel-based mutex per key. Locks are created
// lazily on first use and kept for the lifetime of the locker; the number of
// distinct keys (request ids, robot names) is small and bounded by fleet and
// request volume.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewKeyedLocker creates an empty locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{
		locks: make(map[string]chan struct{}),
	}
}

func (l *KeyedLocker) lockChan(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}

// Acquire blocks until the lock for key is held or ctx is done. On success
// the returned release function must be called exactly once. A context
// cancellation or deadline maps to ErrLockTimeout so callers surface a
// uniform retryable error instead of a raw context error.
func (l *KeyedLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.lockChan(key)

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, nil
	case <-ctx.Done():
		return nil, ErrLockTimeout
	}
}
