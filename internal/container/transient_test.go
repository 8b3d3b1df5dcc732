// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"wrapped cancellation", fmt.Errorf("build failed: %w", context.Canceled), false},
		{"dns failure during pull", errors.New("Could not resolve host: registry-1.docker.io"), true},
		{"apt resolver failure", errors.New("Temporary failure resolving 'deb.debian.org'"), true},
		{"overlay race", errors.New("error creating overlay mount to /var/lib/containers"), true},
		{"permanent build error", errors.New("unknown instruction: FORM"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsTransientError(tt.err); got != tt.want {
				t.Errorf("IsTransientError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
