// SPDX-License-Identifier: MPL-2.0

// Package recipe models the container build recipe for an ASGI application:
// the base environment to provision, the dependency manifest to install, the
// network contract (one exposed TCP port), and the generated launch script
// that starts the server.
//
// A Recipe renders into two artifacts: the Dockerfile consumed by the
// container engine (Dockerfile method) and the launch script the container
// executes on start (LaunchScript method). Both derive their port from the
// single Port field, so the exposed port and the port the server binds can
// never disagree.
package recipe
