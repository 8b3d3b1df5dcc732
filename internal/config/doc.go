// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/uvipack/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/uvipack/config.cue on macOS, %APPDATA%\uvipack\config.cue
// on Windows), falling back to a config.cue in the current directory. The package
// provides type-safe access to container engine selection, image build defaults
// (base image, system packages), run defaults (port, app reference, env files),
// and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to
// ensure type safety and provide clear error messages for invalid configurations.
package config
