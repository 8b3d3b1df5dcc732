// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff drives op until it succeeds, reports a permanent
// failure, or maxAttempts is exhausted. The runner uses it to absorb
// transient engine failures (registry DNS hiccups, overlay mount races)
// when starting a server container.
//
// op receives the zero-based attempt number and reports whether its error
// is worth retrying; a false retry with a non-nil error is permanent and
// returned as-is. The wait between attempts starts at baseBackoff and
// doubles after each failure. Cancelling ctx interrupts the wait.
func RetryWithBackoff(
	ctx context.Context,
	maxAttempts int,
	baseBackoff time.Duration,
	op func(attempt int) (retry bool, err error),
) error {
	delay := baseBackoff
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		retry, err := op(attempt)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err

		if attempt == maxAttempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
