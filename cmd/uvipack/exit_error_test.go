// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	t.Run("without wrapped error", func(t *testing.T) {
		t.Parallel()

		err := &ExitError{Code: 3}
		if got := err.Error(); got != "exit status 3" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("with wrapped error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("server crashed")
		err := &ExitError{Code: 1, Err: cause}
		if got := err.Error(); got != "server crashed" {
			t.Errorf("Error() = %q", got)
		}
		if !errors.Is(err, cause) {
			t.Error("ExitError should unwrap to its cause")
		}
	})
}

func TestExitError_SurvivesWrapping(t *testing.T) {
	t.Parallel()

	inner := &ExitError{Code: 7}
	wrapped := errors.Join(errors.New("context"), inner)

	var exitErr *ExitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("errors.As failed to find ExitError")
	}
	if exitErr.Code != 7 {
		t.Errorf("Code = %d, want 7", exitErr.Code)
	}
}
