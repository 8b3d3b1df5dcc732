// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	noEnv := func(string) string { return "" }
	noFile := func(string) error { return os.ErrNotExist }
	flatpakInfo := func(path string) error {
		if path == "/.flatpak-info" {
			return nil
		}
		return os.ErrNotExist
	}
	snapEnv := func(key string) string {
		if key == "SNAP_NAME" {
			return "uvipack"
		}
		return ""
	}

	tests := []struct {
		name      string
		lookupEnv func(string) string
		statFile  func(string) error
		want      SandboxType
	}{
		{"no sandbox", noEnv, noFile, SandboxNone},
		{"flatpak", noEnv, flatpakInfo, SandboxFlatpak},
		{"snap", snapEnv, noFile, SandboxSnap},
		{"flatpak takes precedence over snap", snapEnv, flatpakInfo, SandboxFlatpak},
		{"stat failure treated as absent", noEnv, func(string) error { return errors.New("permission denied") }, SandboxNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := detectSandboxFrom(tt.lookupEnv, tt.statFile); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostSpawnPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sandbox SandboxType
		want    []string
	}{
		{"no sandbox", SandboxNone, nil},
		{"flatpak", SandboxFlatpak, []string{"flatpak-spawn", "--host"}},
		{"snap", SandboxSnap, []string{"snap", "run", "--shell"}},
		{"unknown type", SandboxType("firejail"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HostSpawnPrefix(tt.sandbox); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HostSpawnPrefix(%q) = %v, want %v", tt.sandbox, got, tt.want)
			}
		})
	}
}

func TestDetectSandbox_CachesResult(t *testing.T) {
	first := DetectSandbox()
	t.Setenv("SNAP_NAME", "uvipack")
	if second := DetectSandbox(); second != first {
		t.Errorf("DetectSandbox() changed between calls: first=%q, second=%q", first, second)
	}
}

func TestIsInSandbox_ConsistentWithDetect(t *testing.T) {
	if got, want := IsInSandbox(), DetectSandbox() != SandboxNone; got != want {
		t.Errorf("IsInSandbox() = %v, want %v", got, want)
	}
}
