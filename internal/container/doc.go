// SPDX-License-Identifier: MPL-2.0

// Package container provides an abstraction layer over CLI container engines
// (Docker and Podman). The Engine interface covers the operations uvipack
// needs: building images from a generated Dockerfile, running the built image
// in the foreground with its exit code passed through, and housekeeping
// (container/image removal, existence checks).
//
// Engine selection is preference-with-fallback: NewEngine tries the preferred
// engine and falls back to the other, while AutoDetectEngine probes both.
package container
