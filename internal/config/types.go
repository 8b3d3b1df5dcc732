// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"uvipack/internal/recipe"
	"uvipack/pkg/types"
)

const (
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineAuto picks whichever engine is available, preferring Docker.
	ContainerEngineAuto ContainerEngine = "auto"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBuildConfig is the sentinel error wrapped by InvalidBuildConfigError.
	ErrInvalidBuildConfig = errors.New("invalid build config")
	// ErrInvalidRunConfig is the sentinel error wrapped by InvalidRunConfigError.
	ErrInvalidRunConfig = errors.New("invalid run config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine specifies whether to use "docker", "podman", or "auto"
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// Build configures image assembly defaults
		Build BuildConfig `json:"build" mapstructure:"build"`
		// Run configures launch defaults
		Run RunConfig `json:"run" mapstructure:"run"`
		// UI configures terminal output
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// BuildConfig configures image assembly defaults.
	BuildConfig struct {
		// BaseImage is the image the runtime environment is built on
		BaseImage string `json:"base_image" mapstructure:"base_image"`
		// SystemPackages are OS-level packages installed via apt-get
		SystemPackages []string `json:"system_packages" mapstructure:"system_packages"`
	}

	// RunConfig configures launch defaults.
	RunConfig struct {
		// Port is the TCP port the server binds and the image exposes
		Port types.ListenPort `json:"port" mapstructure:"port"`
		// App is the ASGI application reference ("module:attribute")
		App types.AppRef `json:"app" mapstructure:"app"`
		// EnvFiles are dotenv files merged into the container environment
		EnvFiles []string `json:"env_files" mapstructure:"env_files"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidBuildConfigError is returned when a BuildConfig has invalid fields.
	InvalidBuildConfigError struct {
		FieldErrors []error
	}

	// InvalidRunConfigError is returned when a RunConfig has invalid fields.
	InvalidRunConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEngineDocker, ContainerEnginePodman, ContainerEngineAuto:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman, auto)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the BuildConfig has valid fields.
// The zero value is valid (empty fields fall back to recipe defaults).
func (c BuildConfig) IsValid() (bool, []error) {
	var errs []error
	if c.BaseImage != "" && strings.TrimSpace(c.BaseImage) == "" {
		errs = append(errs, fmt.Errorf("base_image must not be whitespace-only"))
	}
	for _, pkg := range c.SystemPackages {
		if strings.TrimSpace(pkg) == "" {
			errs = append(errs, fmt.Errorf("system_packages entries must not be empty"))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBuildConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBuildConfigError.
func (e *InvalidBuildConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBuildConfig for errors.Is() compatibility.
func (e *InvalidBuildConfigError) Unwrap() error { return ErrInvalidBuildConfig }

// IsValid returns whether the RunConfig has valid fields.
// It delegates to Port.Validate() and App.Validate(); zero values are valid.
func (c RunConfig) IsValid() (bool, []error) {
	var errs []error
	if err := c.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.App.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, file := range c.EnvFiles {
		if err := types.FilesystemPath(file).Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidRunConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRunConfigError.
func (e *InvalidRunConfigError) Error() string {
	return fmt.Sprintf("invalid run config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidRunConfig for errors.Is() compatibility.
func (e *InvalidRunConfigError) Unwrap() error { return ErrInvalidRunConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ContainerEngine.IsValid(), Build.IsValid(), Run.IsValid(),
// and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Run.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Recipe derives the build recipe implied by the configuration. Empty config
// fields stay empty in the recipe and resolve to defaults at render time.
func (c *Config) Recipe() recipe.Recipe {
	return recipe.Recipe{
		BaseImage:      c.Build.BaseImage,
		SystemPackages: c.Build.SystemPackages,
		App:            c.Run.App,
		Port:           c.Run.Port,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineAuto,
		Build: BuildConfig{
			BaseImage: recipe.DefaultBaseImage,
		},
		Run: RunConfig{
			Port: recipe.DefaultPort,
			App:  recipe.DefaultApp,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
