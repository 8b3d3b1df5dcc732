// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "config.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "config.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "config.cue") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !strings.Contains(err.Error(), "some error") {
			t.Errorf("error should contain original message, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: []string{}, expected: ""},
		{name: "single element", path: []string{"port"}, expected: "port"},
		{name: "nested path", path: []string{"ui", "verbose"}, expected: "ui.verbose"},
		{name: "array index", path: []string{"env_files", "0"}, expected: "env_files[0]"},
		{name: "nested arrays", path: []string{"items", "0", "values", "1"}, expected: "items[0].values[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	t.Run("with path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{FilePath: "config.cue", CUEPath: "port", Message: "out of range"}
		want := "config.cue: port: out of range"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("without path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{FilePath: "config.cue", Message: "syntax error"}
		want := "config.cue: syntax error"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 100, "config.cue"); err != nil {
		t.Errorf("unexpected error under limit: %v", err)
	}
	if err := CheckFileSize(make([]byte, 101), 100, "config.cue"); err == nil {
		t.Error("expected error over limit")
	}
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	type sample struct {
		Name string `json:"name"`
		Port int    `json:"port"`
	}

	schema := `#Sample: {
	name: string
	port: int & >=1 & <=65535
}`

	t.Run("valid input decodes", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecodeString[sample](schema, []byte(`name: "webapp"
port: 7860`), "#Sample", WithFilename("sample.cue"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Value.Name != "webapp" || result.Value.Port != 7860 {
			t.Errorf("decoded = %+v", *result.Value)
		}
	})

	t.Run("schema violation fails with path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[sample](schema, []byte(`name: "webapp"
port: 70000`), "#Sample", WithFilename("sample.cue"))
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "sample.cue") {
			t.Errorf("error should reference the filename, got: %v", err)
		}
	})

	t.Run("oversized input rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[sample](schema, make([]byte, 32), "#Sample", WithMaxFileSize(16))
		if err == nil {
			t.Fatal("expected size error")
		}
	})
}
