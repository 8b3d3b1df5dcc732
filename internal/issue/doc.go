// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error types. ActionableError carries the
// failed operation, the resource involved, and concrete suggestions, so that
// build and run failures surface as something the user can act on rather than
// a bare error chain.
package issue
