// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"uvipack/internal/config"
	"uvipack/pkg/types"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage uvipack configuration",
	Long: `Manage uvipack configuration.

Configuration is stored in:
  - Linux: ~/.config/uvipack/config.cue
  - macOS: ~/Library/Application Support/uvipack/config.cue
  - Windows: %APPDATA%\uvipack\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil {
		cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		if fileExistsCheck(cfgPath) {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
		} else {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
		}
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(string(cfg.ContainerEngine)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("build"))
	fmt.Printf("  base_image: %s\n", valueStyle.Render(cfg.Build.BaseImage))
	if len(cfg.Build.SystemPackages) == 0 {
		fmt.Printf("  system_packages: %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		fmt.Printf("  system_packages: %s\n", valueStyle.Render(strings.Join(cfg.Build.SystemPackages, ", ")))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("run"))
	fmt.Printf("  port: %s\n", valueStyle.Render(cfg.Run.Port.String()))
	fmt.Printf("  app: %s\n", valueStyle.Render(string(cfg.Run.App)))
	if len(cfg.Run.EnvFiles) == 0 {
		fmt.Printf("  env_files: %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		fmt.Printf("  env_files: %s\n", valueStyle.Render(strings.Join(cfg.Run.EnvFiles, ", ")))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

func setConfigValue(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "container_engine":
		engine := config.ContainerEngine(value)
		if valid, errs := engine.IsValid(); !valid {
			return errs[0]
		}
		cfg.ContainerEngine = engine

	case "build.base_image":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid build.base_image: must not be empty")
		}
		cfg.Build.BaseImage = value

	case "run.port":
		port, parseErr := strconv.Atoi(value)
		if parseErr != nil {
			return fmt.Errorf("invalid run.port: %w", parseErr)
		}
		listenPort := types.ListenPort(port)
		if validateErr := listenPort.Validate(); validateErr != nil {
			return validateErr
		}
		cfg.Run.Port = listenPort

	case "run.app":
		appRef := types.AppRef(value)
		if validateErr := appRef.Validate(); validateErr != nil {
			return validateErr
		}
		cfg.Run.App = appRef

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if valid, errs := scheme.IsValid(); !valid {
			return errs[0]
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: container_engine, build.base_image, run.port, run.app, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
