// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    ExitCode
		wantErr bool
	}{
		{name: "success", code: 0, wantErr: false},
		{name: "generic failure", code: 1, wantErr: false},
		{name: "upper bound", code: 255, wantErr: false},
		{name: "negative", code: -1, wantErr: true},
		{name: "above range", code: 256, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error %v should wrap ErrInvalidExitCode", err)
			}
		})
	}
}

func TestExitCode_Classification(t *testing.T) {
	t.Parallel()

	if !ExitCode(0).IsSuccess() {
		t.Error("0 should be success")
	}
	if ExitCode(1).IsSuccess() {
		t.Error("1 should not be success")
	}

	// Engine-reserved codes indicating the container failed to start.
	if !ExitCode(125).IsTransient() || !ExitCode(126).IsTransient() {
		t.Error("125 and 126 should classify as transient")
	}
	// The application's own failure codes are never transient.
	if ExitCode(1).IsTransient() || ExitCode(137).IsTransient() {
		t.Error("application exit codes should not classify as transient")
	}
}

func TestExitCode_String(t *testing.T) {
	t.Parallel()

	if got := ExitCode(137).String(); got != "137" {
		t.Errorf("String() = %q, want 137", got)
	}
}
