// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestAppRef_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     AppRef
		wantErr bool
	}{
		{"default uvicorn form", AppRef("app:app"), false},
		{"nested module", AppRef("server.main:application"), false},
		{"empty is valid (zero value)", AppRef(""), false},
		{"missing separator", AppRef("app"), true},
		{"empty module part", AppRef(":app"), true},
		{"empty attribute part", AppRef("app:"), true},
		{"embedded whitespace", AppRef("app :app"), true},
		{"two separators", AppRef("app:app:app"), true},
		{"command separator in attribute", AppRef("app:app;id"), true},
		{"quote in module", AppRef("app'x:app"), true},
		{"shell expansion chars", AppRef("app:$(app)"), true},
		{"hyphenated module", AppRef("my-app:app"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.ref.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("AppRef(%q).Validate() error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidAppRef) {
					t.Errorf("error should wrap ErrInvalidAppRef, got: %v", err)
				}
				var refErr *InvalidAppRefError
				if !errors.As(err, &refErr) {
					t.Errorf("error should be *InvalidAppRefError, got: %T", err)
				}
			}
		})
	}
}

func TestAppRef_Parts(t *testing.T) {
	t.Parallel()

	ref := AppRef("server.main:application")
	if got := ref.Module(); got != "server.main" {
		t.Errorf("Module() = %q, want %q", got, "server.main")
	}
	if got := ref.Attribute(); got != "application" {
		t.Errorf("Attribute() = %q, want %q", got, "application")
	}
}
