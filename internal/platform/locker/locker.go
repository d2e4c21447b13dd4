// Package locker serializes work per key. Evaluations of one user never
// overlap; different users proceed in parallel.
package locker

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken before the
// context ended.
var ErrNotAcquired = errors.New("lock not acquired")

type Locker interface {
	// Lock blocks until key is held or ctx ends. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
