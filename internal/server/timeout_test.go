package server

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWithTimeout_Completes(t *testing.T) {
	got, err := withTimeout(context.Background(), time.Second, "sum", func() (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("got (%d, %v), want (42, nil)", got, err)
	}
}

func TestWithTimeout_PropagatesError(t *testing.T) {
	sentinel := errors.New("bad radius")
	_, err := withTimeout(context.Background(), time.Second, "sum", func() (int, error) {
		return 0, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want %v", err, sentinel)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	_, err := withTimeout(context.Background(), 20*time.Millisecond, "hough_transform", func() (int, error) {
		<-release
		return 1, nil
	})

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("got %v, want *TimeoutError", err)
	}
	if timeoutErr.Operation != "hough_transform" || timeoutErr.Duration != 20*time.Millisecond {
		t.Errorf("unexpected error fields: %+v", timeoutErr)
	}
	if time.Since(start) > time.Second {
		t.Error("withTimeout should return promptly after the deadline")
	}
}

func TestWithTimeout_RecoversPanic(t *testing.T) {
	_, err := withTimeout(context.Background(), time.Second, "hough_find_circles", func() (int, error) {
		panic("index out of range")
	})
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Errorf("got %v, want panic error", err)
	}
}
