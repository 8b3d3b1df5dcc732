// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond,
		func(attempt int) (bool, error) {
			calls++
			return false, nil
		})
	if err != nil {
		t.Fatalf("RetryWithBackoff() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestRetryWithBackoff_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond,
		func(attempt int) (bool, error) {
			calls++
			if attempt < 2 {
				return true, errors.New("transient")
			}
			return false, nil
		})
	if err != nil {
		t.Fatalf("RetryWithBackoff() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetryWithBackoff_PermanentErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	permanent := errors.New("permanent")
	calls := 0
	err := RetryWithBackoff(context.Background(), 5, time.Millisecond,
		func(attempt int) (bool, error) {
			calls++
			return false, permanent
		})
	if !errors.Is(err, permanent) {
		t.Errorf("error = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestRetryWithBackoff_ExhaustionReturnsLastError(t *testing.T) {
	t.Parallel()

	last := errors.New("still failing")
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond,
		func(attempt int) (bool, error) {
			return true, last
		})
	if !errors.Is(err, last) {
		t.Errorf("error = %v, want last error", err)
	}
}

func TestRetryWithBackoff_RespectsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, 5, time.Millisecond,
		func(attempt int) (bool, error) {
			calls++
			cancel()
			return true, errors.New("transient")
		})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}
