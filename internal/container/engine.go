// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"uvipack/pkg/types"
)

const (
	// EngineTypeDocker selects the Docker CLI engine.
	EngineTypeDocker EngineType = "docker"
	// EngineTypePodman selects the Podman CLI engine.
	EngineTypePodman EngineType = "podman"
	// EngineTypeAuto tries Docker first, then Podman.
	EngineTypeAuto EngineType = "auto"
)

var (
	// ErrInvalidImageTag is the sentinel error wrapped by InvalidImageTagError.
	ErrInvalidImageTag = errors.New("invalid image tag")
	// ErrInvalidBuildOptions is the sentinel error wrapped by InvalidBuildOptionsError.
	ErrInvalidBuildOptions = errors.New("invalid build options")
	// ErrInvalidRunOptions is the sentinel error wrapped by InvalidRunOptionsError.
	ErrInvalidRunOptions = errors.New("invalid run options")
)

type (
	// Engine defines the interface for container operations. Docker and
	// Podman implementations shell out to their respective CLIs.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks if the engine is usable on this system.
		Available() bool
		// Version returns the engine version.
		Version(ctx context.Context) (string, error)

		// Build builds an image from a Dockerfile.
		Build(ctx context.Context, opts BuildOptions) error
		// Run runs a container in the foreground.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
		// Remove removes a container.
		Remove(ctx context.Context, containerID ContainerID, force bool) error
		// ImageExists checks if an image exists locally.
		ImageExists(ctx context.Context, image ImageTag) (bool, error)
		// RemoveImage removes an image.
		RemoveImage(ctx context.Context, image ImageTag, force bool) error
	}

	// EngineType identifies the container engine type.
	EngineType string

	// ImageTag is a container image reference (e.g. "uvipack/app:3f2a9c").
	// A valid tag must be non-empty and not whitespace-only.
	ImageTag string

	// InvalidImageTagError is returned when an ImageTag is empty or whitespace-only.
	InvalidImageTagError struct {
		Value ImageTag
	}

	// ContainerID identifies a container instance.
	ContainerID string

	// ContainerName is a user-assigned container name.
	ContainerName string

	// BuildOptions contains options for building an image.
	BuildOptions struct {
		// ContextDir is the build context directory.
		ContextDir string
		// Dockerfile is the Dockerfile path, relative to ContextDir.
		Dockerfile string
		// Tag is the image tag to apply.
		Tag ImageTag
		// BuildArgs are build-time variables.
		BuildArgs map[string]string
		// NoCache disables the build cache.
		NoCache bool
		// Stdout is where build output is written.
		Stdout io.Writer
		// Stderr is where build errors are written.
		Stderr io.Writer
	}

	// InvalidBuildOptionsError is returned when BuildOptions fail validation.
	InvalidBuildOptionsError struct {
		FieldErrs []error
	}

	// RunOptions contains options for running a container.
	RunOptions struct {
		// Image is the image to run.
		Image ImageTag
		// Command overrides the image's default command when non-empty.
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		// Env contains environment variables.
		Env map[string]string
		// Volumes are volume mounts.
		Volumes []VolumeMount
		// Ports are port mappings published on the host.
		Ports []PortMapping
		// Remove automatically removes the container after exit.
		Remove bool
		// Name is the container name.
		Name ContainerName
		// Stdin is the standard input.
		Stdin io.Reader
		// Stdout is where standard output is written.
		Stdout io.Writer
		// Stderr is where standard error is written.
		Stderr io.Writer
		// Interactive keeps stdin open.
		Interactive bool
	}

	// InvalidRunOptionsError is returned when RunOptions fail validation.
	InvalidRunOptionsError struct {
		FieldErrs []error
	}

	// RunResult contains the result of running a container. The exit code is
	// the contained process's own exit status, passed through unchanged.
	RunResult struct {
		// ContainerID is the container ID, when known.
		ContainerID ContainerID
		// ExitCode is the contained process's exit code.
		ExitCode types.ExitCode
		// Error holds infrastructure failures (engine missing, exec failure).
		// A non-zero exit code of the contained process is not an Error.
		Error error
	}

	// ErrEngineNotAvailable is returned when a container engine is not available.
	ErrEngineNotAvailable struct {
		Engine string
		Reason string
	}
)

// String returns the string representation of the ImageTag.
func (t ImageTag) String() string { return string(t) }

// Validate returns an error if the ImageTag is empty or whitespace-only.
func (t ImageTag) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return &InvalidImageTagError{Value: t}
	}
	return nil
}

// Error implements the error interface for InvalidImageTagError.
func (e *InvalidImageTagError) Error() string {
	return fmt.Sprintf("invalid image tag %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidImageTag for errors.Is() compatibility.
func (e *InvalidImageTagError) Unwrap() error { return ErrInvalidImageTag }

// Validate returns an error if any typed BuildOptions field is invalid.
func (o BuildOptions) Validate() error {
	var errs []error
	if o.Tag != "" {
		if err := o.Tag.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidBuildOptionsError{FieldErrs: errs}
	}
	return nil
}

// Error implements the error interface for InvalidBuildOptionsError.
func (e *InvalidBuildOptionsError) Error() string {
	return fmt.Sprintf("invalid build options: %d field error(s)", len(e.FieldErrs))
}

// Unwrap returns ErrInvalidBuildOptions for errors.Is() compatibility.
func (e *InvalidBuildOptionsError) Unwrap() error { return ErrInvalidBuildOptions }

// Validate returns an error if any typed RunOptions field is invalid.
func (o RunOptions) Validate() error {
	var errs []error
	if err := o.Image.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, v := range o.Volumes {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range o.Ports {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidRunOptionsError{FieldErrs: errs}
	}
	return nil
}

// Error implements the error interface for InvalidRunOptionsError.
func (e *InvalidRunOptionsError) Error() string {
	return fmt.Sprintf("invalid run options: %d field error(s)", len(e.FieldErrs))
}

// Unwrap returns ErrInvalidRunOptions for errors.Is() compatibility.
func (e *InvalidRunOptionsError) Unwrap() error { return ErrInvalidRunOptions }

// Error implements the error interface for ErrEngineNotAvailable.
func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a container engine based on preference, falling back to
// the other engine when the preferred one is unavailable.
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypeDocker:
		engine := NewDockerEngine()
		if engine.Available() {
			return NewSandboxAwareEngine(engine), nil
		}
		podman := NewPodmanEngine()
		if podman.Available() {
			return NewSandboxAwareEngine(podman), nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	case EngineTypePodman:
		engine := NewPodmanEngine()
		if engine.Available() {
			return NewSandboxAwareEngine(engine), nil
		}
		docker := NewDockerEngine()
		if docker.Available() {
			return NewSandboxAwareEngine(docker), nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	case EngineTypeAuto, "":
		return AutoDetectEngine()

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine,
// preferring Docker.
func AutoDetectEngine() (Engine, error) {
	docker := NewDockerEngine()
	if docker.Available() {
		return NewSandboxAwareEngine(docker), nil
	}

	podman := NewPodmanEngine()
	if podman.Available() {
		return NewSandboxAwareEngine(podman), nil
	}

	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (docker or podman) is available on this system",
	}
}
