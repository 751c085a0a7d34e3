package hw

import (
	"errors"
	"time"
)

// ErrTimeout indicates that a peripheral call exceeded its bound and was
// abandoned for this tick.
var ErrTimeout = errors.New("peripheral call timed out")

// CallWithTimeout runs fn and waits at most d for it to finish. On timeout
// the call is abandoned — the goroutine is left to complete in the background
// since a wedged bus transaction cannot be cancelled mid-flight — and
// ErrTimeout is returned so the caller can treat it as a failed read for the
// current tick. A non-positive d runs fn inline with no bound.
func CallWithTimeout(d time.Duration, fn func() error) error {
	if d <= 0 {
		return fn()
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		return ErrTimeout
	}
}
