// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package centralizes OS name constants and application sandbox
// detection (Flatpak, Snap). Sandbox detection matters because container
// engines run on the host, outside the sandbox's filesystem namespace, and
// commands must be spawned on the host for paths to resolve correctly.
package platform
