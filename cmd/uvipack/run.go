// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"uvipack/internal/builder"
	"uvipack/internal/container"
	"uvipack/internal/runner"
	"uvipack/pkg/types"

	"github.com/spf13/cobra"
)

var (
	runFlags struct {
		recipeFlags
		publish  int
		envFiles []string
		envVars  []string
		name     string
	}

	runCmd = &cobra.Command{
		Use:   "run [dir]",
		Short: "Build if needed, then launch the server container",
		Long: `Build the application image if needed, then launch the server
container in the foreground.

The container's single declared TCP port is published on the host
(--publish overrides the host side; the container side always matches the
recipe port). Stdio is attached, and uvipack exits with the server
process's own exit code: a clean shutdown exits 0, a crash propagates the
crash code unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args)
		},
	}
)

func init() {
	addRecipeFlags(runCmd, &runFlags.recipeFlags)
	addBuildFlags(runCmd, &runFlags.recipeFlags)

	flags := runCmd.Flags()
	flags.IntVar(&runFlags.publish, "publish", 0, "host port to publish the server on (default: the recipe port)")
	flags.StringArrayVar(&runFlags.envFiles, "env-file", nil, "dotenv file to load into the container (repeatable, suffix with ? for optional)")
	flags.StringArrayVarP(&runFlags.envVars, "env", "e", nil, "environment variable KEY=VALUE (repeatable)")
	flags.StringVar(&runFlags.name, "name", "", "container name")
}

func runRun(cmd *cobra.Command, args []string) error {
	sourceDir, err := sourceDirFromArgs(args)
	if err != nil {
		return err
	}

	cfg := loadConfigOrDefaults()

	rec, err := resolveRecipe(cmd, &runFlags.recipeFlags, cfg, sourceDir)
	if err != nil {
		return err
	}

	engine, err := resolveEngine(cmd, &runFlags.recipeFlags, cfg)
	if err != nil {
		return err
	}

	env, err := parseEnvVars(runFlags.envVars)
	if err != nil {
		return err
	}

	envFiles := runFlags.envFiles
	if len(envFiles) == 0 {
		envFiles = cfg.Run.EnvFiles
	}

	hostPort := types.ListenPort(runFlags.publish)
	if !cmd.Flags().Changed("publish") {
		hostPort = 0 // runner defaults the host side to the recipe port
	}

	logger := newLogger()

	b := builder.NewImageBuilder(engine)
	result, err := b.Build(cmd.Context(), rec, builder.BuildOptions{
		SourceDir: sourceDir,
		NoCache:   runFlags.noCache,
		TagSuffix: runFlags.tag,
	})
	if err != nil {
		return err
	}
	if result.Cached {
		logger.Debug("reusing cached image", "tag", result.Tag)
	} else {
		logger.Debug("built image", "tag", result.Tag)
	}

	r := runner.NewRunner(engine, runner.WithStdio(os.Stdin, os.Stdout, os.Stderr))
	exitCode, err := r.Run(cmd.Context(), rec, runner.RunOptions{
		Image:    result.Tag,
		HostPort: hostPort,
		Env:      env,
		EnvFiles: envFiles,
		Name:     container.ContainerName(runFlags.name),
	})
	if err != nil {
		return err
	}

	// The server's exit code becomes uvipack's exit code unchanged.
	if exitCode != 0 {
		return &ExitError{Code: exitCode}
	}

	return nil
}

// parseEnvVars converts KEY=VALUE flag values into a map.
func parseEnvVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --env value %q: expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}
