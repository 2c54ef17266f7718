package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errNotRetryable = errors.New("401 unauthorized")

func TestBackoffRetryRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	retry := NewBackoffRetry(BackoffRetryConfig{
		MaxAttempts:     4,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}, nil)

	calls := 0
	err := retry.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errProviderDown
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestBackoffRetryGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	retry := NewBackoffRetry(BackoffRetryConfig{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}, nil)
	calls := 0
	err := retry.Do(context.Background(), func(context.Context) error {
		calls++
		return errProviderDown
	})
	if !errors.Is(err, errProviderDown) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestBackoffRetryStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	retry := NewBackoffRetry(BackoffRetryConfig{
		MaxAttempts:     5,
		InitialInterval: time.Millisecond,
		Retryable:       func(err error) bool { return !errors.Is(err, errNotRetryable) },
	}, nil)

	calls := 0
	err := retry.Do(context.Background(), func(context.Context) error {
		calls++
		return errNotRetryable
	})
	if !errors.Is(err, errNotRetryable) {
		t.Fatalf("expected non-retryable error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}
