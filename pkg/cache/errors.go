package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable reports that a remote backend did not answer its
	// connection check.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// backoff is the retry policy for connecting to remote backends.
type backoff struct {
	attempts int
	initial  time.Duration
}

var connectBackoff = backoff{attempts: 3, initial: 500 * time.Millisecond}

// ping calls check until it succeeds or the attempts run out, doubling the
// wait between calls. The final failure is reported as ErrUnavailable.
func (b backoff) ping(ctx context.Context, backend string, check func(context.Context) error) error {
	wait := b.initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = check(ctx); err == nil {
			return nil
		}
		if attempt >= b.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", ErrUnavailable, backend, b.attempts, err)
}
