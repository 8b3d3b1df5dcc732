// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for uvipack.
//
// The command tree is:
//
//	uvipack build [dir]    assemble the container image for an ASGI app
//	uvipack run [dir]      build if needed, then launch the server container
//	uvipack render [dir]   print the generated Dockerfile and launch script
//	uvipack config ...     manage configuration
//
// Recipe values resolve in precedence order: explicit flags, then the
// project's pyproject.toml, then the user config file, then built-in
// defaults.
package cmd
