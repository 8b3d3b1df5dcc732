// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"os/exec"

	"uvipack/pkg/platform"
	"uvipack/pkg/types"
)

// SandboxAwareEngine wraps a container Engine to handle execution from within
// application sandboxes (Flatpak, Snap).
//
// When running inside a sandbox, container engines like Docker/Podman run on
// the host system, not inside the sandbox. This causes path mismatches when
// the engine reads build contexts - the sandbox has its own filesystem
// namespace, so paths inside the sandbox don't correspond to paths on the host.
//
// This wrapper solves the problem by executing engine commands via the
// sandbox's host spawn mechanism (e.g., flatpak-spawn --host), running the
// entire command on the host where paths resolve correctly.
//
// When not in a sandbox, this wrapper passes through to the underlying engine
// without modification.
type SandboxAwareEngine struct {
	wrapped     Engine
	sandboxType platform.SandboxType
}

// NewSandboxAwareEngine wraps an Engine with sandbox awareness.
// If not running in a sandbox, the engine is returned unwrapped.
func NewSandboxAwareEngine(engine Engine) Engine {
	sandboxType := platform.DetectSandbox()
	if sandboxType == platform.SandboxNone {
		return engine
	}
	return &SandboxAwareEngine{
		wrapped:     engine,
		sandboxType: sandboxType,
	}
}

// newSandboxAwareEngineForTesting creates a SandboxAwareEngine with a specific
// sandbox type for testing purposes.
func newSandboxAwareEngineForTesting(engine Engine, sandboxType platform.SandboxType) *SandboxAwareEngine {
	return &SandboxAwareEngine{
		wrapped:     engine,
		sandboxType: sandboxType,
	}
}

// Name returns the wrapped engine name.
func (e *SandboxAwareEngine) Name() string {
	return e.wrapped.Name()
}

// Available checks if the wrapped engine is available.
func (e *SandboxAwareEngine) Available() bool {
	// The spawn command overhead doesn't affect availability status.
	return e.wrapped.Available()
}

// Version returns the wrapped engine version.
func (e *SandboxAwareEngine) Version(ctx context.Context) (string, error) {
	return e.wrapped.Version(ctx)
}

// Build builds an image from a Dockerfile.
// In sandbox mode, the build command is executed via the host spawn mechanism.
func (e *SandboxAwareEngine) Build(ctx context.Context, opts BuildOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	baseEngine, ok := e.getBaseCLIEngine()
	if !ok {
		return e.wrapped.Build(ctx, opts)
	}

	buildArgs := baseEngine.BuildArgs(opts)
	fullArgs := e.buildSpawnArgs(baseEngine.BinaryPath(), buildArgs)

	cmd := exec.CommandContext(ctx, fullArgs[0], fullArgs[1:]...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return buildContainerError(e.wrapped.Name(), opts, err)
	}

	return nil
}

// Run runs a container in the foreground.
// In sandbox mode, the run command is executed via the host spawn mechanism.
func (e *SandboxAwareEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	baseEngine, ok := e.getBaseCLIEngine()
	if !ok {
		return e.wrapped.Run(ctx, opts)
	}

	runArgs := baseEngine.RunArgs(opts)
	fullArgs := e.buildSpawnArgs(baseEngine.BinaryPath(), runArgs)

	cmd := exec.CommandContext(ctx, fullArgs[0], fullArgs[1:]...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()

	result := &RunResult{}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = types.ExitCode(exitErr.ExitCode())
		} else {
			result.ExitCode = 1
			result.Error = runContainerError(e.wrapped.Name(), opts, err)
		}
	}

	return result, nil
}

// Remove removes a container.
func (e *SandboxAwareEngine) Remove(ctx context.Context, containerID ContainerID, force bool) error {
	baseEngine, ok := e.getBaseCLIEngine()
	if !ok {
		return e.wrapped.Remove(ctx, containerID, force)
	}

	removeArgs := baseEngine.RemoveArgs(containerID, force)
	fullArgs := e.buildSpawnArgs(baseEngine.BinaryPath(), removeArgs)

	return exec.CommandContext(ctx, fullArgs[0], fullArgs[1:]...).Run()
}

// ImageExists checks if an image exists.
func (e *SandboxAwareEngine) ImageExists(ctx context.Context, image ImageTag) (bool, error) {
	baseEngine, ok := e.getBaseCLIEngine()
	if !ok {
		return e.wrapped.ImageExists(ctx, image)
	}

	// Podman: "image exists <image>", Docker: "image inspect <image>"
	var checkArgs []string
	if e.wrapped.Name() == string(EngineTypePodman) {
		checkArgs = []string{"image", "exists", string(image)}
	} else {
		checkArgs = []string{"image", "inspect", string(image)}
	}

	fullArgs := e.buildSpawnArgs(baseEngine.BinaryPath(), checkArgs)
	err := exec.CommandContext(ctx, fullArgs[0], fullArgs[1:]...).Run()
	return err == nil, nil
}

// RemoveImage removes an image.
func (e *SandboxAwareEngine) RemoveImage(ctx context.Context, image ImageTag, force bool) error {
	baseEngine, ok := e.getBaseCLIEngine()
	if !ok {
		return e.wrapped.RemoveImage(ctx, image, force)
	}

	removeArgs := baseEngine.RemoveImageArgs(image, force)
	fullArgs := e.buildSpawnArgs(baseEngine.BinaryPath(), removeArgs)

	return exec.CommandContext(ctx, fullArgs[0], fullArgs[1:]...).Run()
}

// buildSpawnArgs constructs the full argument list for spawning a command on the host.
// For Flatpak: ["flatpak-spawn", "--host", <binary>, <args...>]
// For Snap: ["snap", "run", "--shell", <binary>, <args...>]
func (e *SandboxAwareEngine) buildSpawnArgs(binary string, args []string) []string {
	prefix := platform.HostSpawnPrefix(e.sandboxType)

	result := make([]string, 0, len(prefix)+1+len(args))
	result = append(result, prefix...)
	result = append(result, binary)
	result = append(result, args...)

	return result
}

// getBaseCLIEngine attempts to extract the BaseCLIEngine from the wrapped
// engine. This is needed to access argument building methods.
func (e *SandboxAwareEngine) getBaseCLIEngine() (*BaseCLIEngine, bool) {
	switch engine := e.wrapped.(type) {
	case *PodmanEngine:
		return engine.BaseCLIEngine, true
	case *DockerEngine:
		return engine.BaseCLIEngine, true
	default:
		return nil, false
	}
}
