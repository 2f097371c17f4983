package server

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError is returned when a tool does not finish within the
// configured deadline.
type TimeoutError struct {
	Operation string
	Duration  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Duration)
}

// withTimeout runs fn in its own goroutine and waits at most timeout for it.
// On timeout the goroutine is left to finish and its result is dropped; the
// detection core has no cancellation points. A panic in fn becomes an error.
func withTimeout[T any](ctx context.Context, timeout time.Duration, operation string, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- result{zero, fmt.Errorf("%s panicked: %v", operation, r)}
			}
		}()

		value, err := fn()
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, &TimeoutError{Operation: operation, Duration: timeout}
	}
}
