// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// SandboxType identifies the application sandbox the current process runs
// in. Sandboxes matter to uvipack because the docker/podman CLI lives on
// the host: inside a sandbox every engine invocation has to be forwarded
// through the sandbox's host-spawn mechanism.
type SandboxType string

const (
	// SandboxNone means the process is not sandboxed.
	SandboxNone SandboxType = ""
	// SandboxFlatpak means the process runs inside a Flatpak sandbox.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap means the process runs inside a Snap sandbox.
	SandboxSnap SandboxType = "snap"
)

// The sandbox cannot change while the process is alive, so detection runs
// once and the result is cached process-wide.
//
// INVARIANT: detectSandboxFrom must not panic. sync.OnceValue re-raises a
// panic on every subsequent call, which would turn a single detection
// failure into a persistent crash.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// DetectSandbox reports which sandbox, if any, the current process runs in.
// Flatpak is recognized by the /.flatpak-info file, Snap by the SNAP_NAME
// environment variable. The first call probes the OS; later calls return
// the cached result.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsInSandbox reports whether the current process is sandboxed.
func IsInSandbox() bool {
	return DetectSandbox() != SandboxNone
}

// HostSpawnPrefix returns the argv prefix that forwards a command to the
// host for the given sandbox type: ["flatpak-spawn", "--host"] under
// Flatpak, ["snap", "run", "--shell"] under Snap, nil otherwise. It is a
// pure function of its argument, so callers holding a SandboxType can be
// tested without touching the cached detection state.
func HostSpawnPrefix(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"flatpak-spawn", "--host"}
	case SandboxSnap:
		return []string{"snap", "run", "--shell"}
	default:
		return nil
	}
}

// detectSandboxFrom holds the detection logic behind injectable lookups so
// tests can simulate sandbox environments without process-wide state.
// Flatpak takes precedence: /.flatpak-info is present in every Flatpak
// sandbox, while SNAP_NAME can leak into child environments.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

// statFile adapts os.Stat to the func(string) error shape detectSandboxFrom
// expects.
func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
