// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAppRef is the sentinel error wrapped by InvalidAppRefError.
var ErrInvalidAppRef = errors.New("invalid application reference")

type (
	// AppRef identifies the ASGI application object to serve, in the
	// "module:attribute" form understood by uvicorn (e.g. "app:app").
	// The zero value ("") is valid and means "use the default reference".
	AppRef string

	// InvalidAppRefError is returned when an AppRef is not in
	// "module:attribute" form or either part is empty.
	InvalidAppRefError struct {
		Value  AppRef
		Reason string
	}
)

// String returns the string representation of the AppRef.
func (r AppRef) String() string { return string(r) }

// Module returns the importable module part of the reference
// (the text before the colon).
func (r AppRef) Module() string {
	mod, _, _ := strings.Cut(string(r), ":")
	return mod
}

// Attribute returns the application object part of the reference
// (the text after the colon).
func (r AppRef) Attribute() string {
	_, attr, _ := strings.Cut(string(r), ":")
	return attr
}

// Validate returns an error if the AppRef is not in "module:attribute" form.
// The zero value ("") is valid and means "use the default reference".
// Both parts must be dotted Python identifier paths: ASCII letters, digits,
// '_' and '.'. The reference is spliced verbatim into the generated launch
// script, so the charset is a hard gate against shell metacharacters, not a
// style preference.
func (r AppRef) Validate() error {
	if r == "" {
		return nil
	}

	mod, attr, found := strings.Cut(string(r), ":")
	if !found {
		return &InvalidAppRefError{Value: r, Reason: "missing ':' separator"}
	}
	if mod == "" {
		return &InvalidAppRefError{Value: r, Reason: "module part is empty"}
	}
	if attr == "" {
		return &InvalidAppRefError{Value: r, Reason: "attribute part is empty"}
	}
	if !isIdentifierPath(mod) {
		return &InvalidAppRefError{Value: r, Reason: "module part must contain only letters, digits, '_' and '.'"}
	}
	if !isIdentifierPath(attr) {
		return &InvalidAppRefError{Value: r, Reason: "attribute part must contain only letters, digits, '_' and '.'"}
	}
	return nil
}

// isIdentifierPath reports whether s consists solely of ASCII letters,
// digits, underscores, and dots. A second ':' or any whitespace fails here
// too, so no separate checks are needed.
func isIdentifierPath(s string) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// Error implements the error interface for InvalidAppRefError.
func (e *InvalidAppRefError) Error() string {
	return fmt.Sprintf("invalid application reference %q: %s (expected \"module:attribute\")", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidAppRef for errors.Is() compatibility.
func (e *InvalidAppRefError) Unwrap() error { return ErrInvalidAppRef }
