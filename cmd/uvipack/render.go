// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	renderFlags recipeFlags

	renderCmd = &cobra.Command{
		Use:   "render [dir]",
		Short: "Print the generated Dockerfile and launch script",
		Long: `Print the Dockerfile and launch script that a build of the source
directory would use, without touching a container engine.

Useful for inspecting what 'uvipack build' is about to do, or for
exporting the build definition to use elsewhere.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args)
		},
	}
)

func init() {
	addRecipeFlags(renderCmd, &renderFlags)
}

func runRender(cmd *cobra.Command, args []string) error {
	sourceDir, err := sourceDirFromArgs(args)
	if err != nil {
		return err
	}

	cfg := loadConfigOrDefaults()

	rec, err := resolveRecipe(cmd, &renderFlags, cfg, sourceDir)
	if err != nil {
		return err
	}

	if err := rec.ValidateLaunchScript(); err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("# Dockerfile"))
	fmt.Print(rec.Dockerfile())
	fmt.Println()
	fmt.Println(TitleStyle.Render("# " + rec.ResolvedScriptName()))
	fmt.Print(rec.LaunchScript())

	return nil
}
