// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"reflect"
	"testing"

	"uvipack/pkg/platform"
)

// passthroughEngine is a minimal Engine used to verify that the sandbox
// wrapper falls back to the wrapped engine when it cannot extract CLI args.
type passthroughEngine struct {
	buildCalls int
	runCalls   int
}

func (p *passthroughEngine) Name() string    { return "passthrough" }
func (p *passthroughEngine) Available() bool { return true }
func (p *passthroughEngine) Version(_ context.Context) (string, error) {
	return "0.0.0", nil
}
func (p *passthroughEngine) Build(_ context.Context, _ BuildOptions) error {
	p.buildCalls++
	return nil
}
func (p *passthroughEngine) Run(_ context.Context, _ RunOptions) (*RunResult, error) {
	p.runCalls++
	return &RunResult{}, nil
}
func (p *passthroughEngine) Remove(_ context.Context, _ ContainerID, _ bool) error { return nil }
func (p *passthroughEngine) ImageExists(_ context.Context, _ ImageTag) (bool, error) {
	return false, nil
}
func (p *passthroughEngine) RemoveImage(_ context.Context, _ ImageTag, _ bool) error { return nil }

func TestSandboxAwareEngine_BuildSpawnArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sandboxType platform.SandboxType
		want        []string
	}{
		{
			name:        "flatpak",
			sandboxType: platform.SandboxFlatpak,
			want:        []string{"flatpak-spawn", "--host", "/usr/bin/docker", "run", "img"},
		},
		{
			name:        "snap",
			sandboxType: platform.SandboxSnap,
			want:        []string{"snap", "run", "--shell", "/usr/bin/docker", "run", "img"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newSandboxAwareEngineForTesting(&passthroughEngine{}, tt.sandboxType)
			got := e.buildSpawnArgs("/usr/bin/docker", []string{"run", "img"})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildSpawnArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSandboxAwareEngine_FallsBackWithoutBaseEngine(t *testing.T) {
	t.Parallel()

	wrapped := &passthroughEngine{}
	e := newSandboxAwareEngineForTesting(wrapped, platform.SandboxFlatpak)

	if err := e.Build(context.Background(), BuildOptions{ContextDir: "."}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if wrapped.buildCalls != 1 {
		t.Errorf("expected wrapped build call, got %d", wrapped.buildCalls)
	}

	if _, err := e.Run(context.Background(), RunOptions{Image: "img"}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if wrapped.runCalls != 1 {
		t.Errorf("expected wrapped run call, got %d", wrapped.runCalls)
	}
}

func TestNewSandboxAwareEngine_NoSandboxPassthrough(t *testing.T) {
	// Not parallel: depends on the process-wide sandbox detection cache.
	if platform.IsInSandbox() {
		t.Skip("running inside a sandbox")
	}

	wrapped := &passthroughEngine{}
	if got := NewSandboxAwareEngine(wrapped); got != Engine(wrapped) {
		t.Error("expected the engine to be returned unwrapped outside sandboxes")
	}
}
