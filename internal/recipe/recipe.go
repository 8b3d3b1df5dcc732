// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"

	"uvipack/pkg/types"
)

const (
	// DefaultBaseImage is the Python base image used when none is configured.
	DefaultBaseImage = "python:3.11-slim"
	// DefaultManifest is the dependency manifest consumed at build time.
	DefaultManifest = "requirements.txt"
	// DefaultWorkDir is the working directory inside the image.
	DefaultWorkDir = "/code"
	// DefaultScriptName is the generated launch script file name.
	DefaultScriptName = "run.sh"
	// DefaultPort is the TCP port the server binds and the image exposes.
	DefaultPort types.ListenPort = 7860
	// DefaultApp is the ASGI application reference loaded by uvicorn.
	DefaultApp types.AppRef = "app:app"

	// ListenHost is the interface the server binds inside the container.
	// Always all interfaces: the container is the unit of isolation.
	ListenHost = "0.0.0.0"
)

// defaultSystemPackages are the OS-level packages installed into the base
// image: a compiler toolchain for native extension builds, a network utility,
// and a repository-metadata tool for VCS-pinned manifest entries.
var defaultSystemPackages = []string{"gcc", "curl", "git"}

var (
	// ErrInvalidRecipe is the sentinel error wrapped by InvalidRecipeError.
	ErrInvalidRecipe = errors.New("invalid recipe")
)

type (
	// Recipe describes how to assemble the runtime image for an ASGI
	// application: base environment, dependency manifest, source placement,
	// network contract, and the launch script that starts the server.
	//
	// The zero value is usable: every empty field resolves to the default
	// that reproduces the canonical recipe (python slim base, requirements.txt,
	// app:app on port 7860).
	Recipe struct {
		// Name is the application name, used for image tagging.
		Name string

		// BaseImage is the image the runtime environment is built on.
		BaseImage string

		// SystemPackages are OS-level packages installed via apt-get.
		SystemPackages []string

		// Manifest is the dependency manifest path, relative to the source root.
		Manifest string

		// WorkDir is the working directory inside the image.
		WorkDir string

		// App is the ASGI application reference in "module:attribute" form.
		App types.AppRef

		// Port is the TCP port the server binds and the image exposes.
		// A single field feeds both occurrences, so they cannot diverge.
		Port types.ListenPort

		// ScriptName is the file name of the generated launch script.
		ScriptName string
	}

	// InvalidRecipeError is returned when one or more Recipe fields fail
	// validation. It wraps the individual field errors for inspection.
	InvalidRecipeError struct {
		FieldErrs []error
	}
)

// Error implements the error interface for InvalidRecipeError.
func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("invalid recipe: %d field error(s)", len(e.FieldErrs))
}

// Unwrap returns ErrInvalidRecipe for errors.Is() compatibility.
func (e *InvalidRecipeError) Unwrap() error { return ErrInvalidRecipe }

// Default returns the recipe that reproduces the canonical build:
// python slim base with gcc/curl/git, requirements.txt install, verbatim
// source copy, EXPOSE 7860, and a run.sh that execs
// "uvicorn app:app --host 0.0.0.0 --port 7860".
func Default() Recipe {
	return Recipe{
		BaseImage:      DefaultBaseImage,
		SystemPackages: append([]string(nil), defaultSystemPackages...),
		Manifest:       DefaultManifest,
		WorkDir:        DefaultWorkDir,
		App:            DefaultApp,
		Port:           DefaultPort,
		ScriptName:     DefaultScriptName,
	}
}

// Validate returns an error if any Recipe field is invalid.
// Empty fields are valid (they resolve to defaults).
func (r Recipe) Validate() error {
	var errs []error
	if err := r.App.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := r.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, pkg := range r.SystemPackages {
		if !validPackageName(pkg) {
			errs = append(errs, fmt.Errorf("invalid system package name %q: must match [a-z0-9][a-z0-9+.-]*", pkg))
		}
	}
	if r.Manifest != "" && !validRenderedPath(r.Manifest) {
		errs = append(errs, fmt.Errorf("invalid manifest path %q", r.Manifest))
	}
	if r.WorkDir != "" && !validRenderedPath(r.WorkDir) {
		errs = append(errs, fmt.Errorf("invalid working directory %q", r.WorkDir))
	}
	if r.ScriptName != "" && !validRenderedPath(r.ScriptName) {
		errs = append(errs, fmt.Errorf("invalid launch script name %q", r.ScriptName))
	}
	if r.BaseImage != "" && strings.ContainsAny(r.BaseImage, " \t\n\"'\\$&;|<>`") {
		errs = append(errs, fmt.Errorf("invalid base image reference %q", r.BaseImage))
	}
	if len(errs) > 0 {
		return &InvalidRecipeError{FieldErrs: errs}
	}
	return nil
}

// validPackageName reports whether pkg is a plausible Debian package name:
// at least two characters, starting with a lowercase letter or digit,
// followed by lowercase letters, digits, '+', '-', or '.'. Package names
// are spliced into the Dockerfile's apt-get line, so anything looser would
// let shell metacharacters through.
func validPackageName(pkg string) bool {
	if len(pkg) < 2 {
		return false
	}
	for i, c := range pkg {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case i > 0 && (c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// validRenderedPath reports whether a path-like field is safe to splice into
// the Dockerfile text: non-blank and free of whitespace and shell
// metacharacters.
func validRenderedPath(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\n\"'\\$&;|<>`")
}

// resolved returns a copy of the recipe with every empty field replaced by
// its default. Rendering always goes through resolved() so that the zero
// value and Default() produce identical output.
func (r Recipe) resolved() Recipe {
	out := r
	if out.BaseImage == "" {
		out.BaseImage = DefaultBaseImage
	}
	if out.SystemPackages == nil {
		out.SystemPackages = append([]string(nil), defaultSystemPackages...)
	}
	if out.Manifest == "" {
		out.Manifest = DefaultManifest
	}
	if out.WorkDir == "" {
		out.WorkDir = DefaultWorkDir
	}
	if out.App == "" {
		out.App = DefaultApp
	}
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	if out.ScriptName == "" {
		out.ScriptName = DefaultScriptName
	}
	return out
}

// ResolvedPort returns the port the recipe exposes, with the default applied.
func (r Recipe) ResolvedPort() types.ListenPort { return r.resolved().Port }

// ResolvedApp returns the application reference, with the default applied.
func (r Recipe) ResolvedApp() types.AppRef { return r.resolved().App }

// ResolvedManifest returns the manifest path, with the default applied.
func (r Recipe) ResolvedManifest() string { return r.resolved().Manifest }

// ResolvedScriptName returns the launch script name, with the default applied.
func (r Recipe) ResolvedScriptName() string { return r.resolved().ScriptName }
