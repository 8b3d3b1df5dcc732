// SPDX-License-Identifier: MPL-2.0

// Package runner launches packaged application images in the foreground. It
// publishes the recipe's port on the host, merges environment from dotenv
// files and explicit overrides, wires the caller's stdio through, and passes
// the server's exit code back unchanged.
package runner
