// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"uvipack/internal/config"
	"uvipack/internal/container"
	"uvipack/internal/issue"
	"uvipack/internal/recipe"
	"uvipack/pkg/types"

	"github.com/spf13/cobra"
)

// recipeFlags holds the flag values shared by build, run, and render.
type recipeFlags struct {
	baseImage      string
	systemPackages []string
	manifest       string
	app            string
	port           int
	engine         string
	tag            string
	noCache        bool
}

// addRecipeFlags registers the recipe-shaping flags on a command.
func addRecipeFlags(cmd *cobra.Command, f *recipeFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.baseImage, "base-image", "", "base image for the runtime environment")
	flags.StringArrayVar(&f.systemPackages, "system-package", nil, "OS package to install (repeatable)")
	flags.StringVar(&f.manifest, "manifest", "", "dependency manifest file (default requirements.txt)")
	flags.StringVar(&f.app, "app", "", "ASGI application reference as module:attribute")
	flags.IntVarP(&f.port, "port", "p", 0, "TCP port the server binds and the image exposes")
}

// addBuildFlags registers the flags used by commands that talk to an engine.
func addBuildFlags(cmd *cobra.Command, f *recipeFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.engine, "engine", "", "container engine to use (docker|podman|auto)")
	flags.StringVar(&f.tag, "tag", "", "extra identifier mixed into the image tag")
	flags.BoolVar(&f.noCache, "no-cache", false, "rebuild even when a cached image exists")
}

// sourceDirFromArgs resolves the optional positional source directory,
// defaulting to the current directory.
func sourceDirFromArgs(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", issue.NewErrorContext().
			WithOperation("locate application source").
			WithResource(abs).
			WithSuggestion("Pass the directory containing your application as an argument").
			WithSuggestion("Run from the project root so '.' resolves to your application").
			Wrap(fmt.Errorf("not a directory: %s", abs)).
			BuildError()
	}

	return abs, nil
}

// loadConfigOrDefaults returns the loaded configuration, falling back to
// defaults on error. Load failures were already surfaced as a warning by
// initRootConfig.
func loadConfigOrDefaults() *config.Config {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// resolveRecipe builds the effective recipe for a source directory.
// Precedence: explicit flags, then pyproject.toml, then the config file,
// then built-in defaults.
func resolveRecipe(cmd *cobra.Command, f *recipeFlags, cfg *config.Config, sourceDir string) (recipe.Recipe, error) {
	rec := cfg.Recipe()

	rec, err := recipe.FromPyproject(rec, sourceDir)
	if err != nil {
		return rec, err
	}

	if rec.Name == "" {
		rec.Name = filepath.Base(sourceDir)
	}

	flags := cmd.Flags()
	if flags.Changed("base-image") {
		rec.BaseImage = f.baseImage
	}
	if flags.Changed("system-package") {
		rec.SystemPackages = f.systemPackages
	}
	if flags.Changed("manifest") {
		rec.Manifest = f.manifest
	}
	if flags.Changed("app") {
		rec.App = types.AppRef(f.app)
	}
	if flags.Changed("port") {
		rec.Port = types.ListenPort(f.port)
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}

	return rec, nil
}

// resolveEngine creates the container engine selected by flag or config.
func resolveEngine(cmd *cobra.Command, f *recipeFlags, cfg *config.Config) (container.Engine, error) {
	engineType := container.EngineTypeAuto
	if cmd.Flags().Changed("engine") {
		engineType = container.EngineType(f.engine)
	} else if cfg.ContainerEngine != "" {
		engineType = container.EngineType(cfg.ContainerEngine)
	}

	engine, err := container.NewEngine(engineType)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("detect container engine").
			WithResource(string(engineType)).
			WithSuggestion("Install Docker or Podman and ensure it is on PATH").
			WithSuggestion("Select an engine explicitly with --engine docker|podman").
			Wrap(err).
			BuildError()
	}

	return engine, nil
}
