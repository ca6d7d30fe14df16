package httputil

import (
	"context"
	"errors"
	"time"
)

// transientError marks a failure that a later attempt may not hit again.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth another attempt. It returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked by
// [Transient].
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff describes how a registry fetch is repeated after transient
// failures. The zero value makes a single attempt.
type Backoff struct {
	Attempts int           // total attempts, including the first
	Delay    time.Duration // wait before the second attempt
	MaxDelay time.Duration // cap on the doubled delay; 0 means uncapped

	// OnRetry, if set, is called before each wait with the attempt that
	// just failed (1-based) and its error.
	OnRetry func(attempt int, err error)
}

// DefaultBackoff makes three attempts, waiting one and then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

// Do calls fn until it succeeds, returns an error not marked [Transient],
// or the attempts run out. The last error is returned in the latter case.
// Cancelling ctx during a wait returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsTransient(err) || attempt >= b.Attempts {
			return err
		}
		if b.OnRetry != nil {
			b.OnRetry(attempt, err)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
}
