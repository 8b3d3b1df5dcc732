// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"uvipack/internal/builder"

	"github.com/spf13/cobra"
)

var (
	buildFlags recipeFlags

	buildCmd = &cobra.Command{
		Use:   "build [dir]",
		Short: "Assemble the container image for an ASGI application",
		Long: `Assemble the container image for an ASGI application.

The image is built from the source directory (default: current directory):
system packages are installed, the dependency manifest is pip-installed,
the source tree is copied in verbatim, and a launch script starting the
uvicorn server is generated.

Image tags are content-addressed: rebuilding unchanged sources reuses the
cached image unless --no-cache is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args)
		},
	}
)

func init() {
	addRecipeFlags(buildCmd, &buildFlags)
	addBuildFlags(buildCmd, &buildFlags)
}

func runBuild(cmd *cobra.Command, args []string) error {
	sourceDir, err := sourceDirFromArgs(args)
	if err != nil {
		return err
	}

	cfg := loadConfigOrDefaults()

	rec, err := resolveRecipe(cmd, &buildFlags, cfg, sourceDir)
	if err != nil {
		return err
	}

	engine, err := resolveEngine(cmd, &buildFlags, cfg)
	if err != nil {
		return err
	}

	logger := newLogger()
	logger.Debug("building image",
		"source", sourceDir,
		"engine", engine.Name(),
		"base_image", rec.BaseImage,
		"port", rec.ResolvedPort())

	b := builder.NewImageBuilder(engine)
	result, err := b.Build(cmd.Context(), rec, builder.BuildOptions{
		SourceDir: sourceDir,
		NoCache:   buildFlags.noCache,
		TagSuffix: buildFlags.tag,
	})
	if err != nil {
		return err
	}

	if result.Cached {
		fmt.Printf("%s Image up to date: %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(string(result.Tag)))
	} else {
		fmt.Printf("%s Built image: %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(string(result.Tag)))
	}

	return nil
}
