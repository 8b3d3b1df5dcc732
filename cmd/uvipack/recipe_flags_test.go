// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"uvipack/internal/config"
	"uvipack/internal/recipe"

	"github.com/spf13/cobra"
)

// newRecipeTestCommand builds a throwaway command with the shared recipe
// flags registered, parsed against argv.
func newRecipeTestCommand(t *testing.T, argv ...string) (*cobra.Command, *recipeFlags) {
	t.Helper()

	f := &recipeFlags{}
	c := &cobra.Command{Use: "test"}
	addRecipeFlags(c, f)
	addBuildFlags(c, f)
	if err := c.ParseFlags(argv); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", argv, err)
	}
	return c, f
}

func TestSourceDirFromArgs(t *testing.T) {
	t.Parallel()

	t.Run("existing directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		got, err := sourceDirFromArgs([]string{dir})
		if err != nil {
			t.Fatalf("sourceDirFromArgs() error = %v", err)
		}
		if got != dir {
			t.Errorf("sourceDirFromArgs() = %q, want %q", got, dir)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := sourceDirFromArgs([]string{filepath.Join(t.TempDir(), "nope")})
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "app.py")
		if err := os.WriteFile(path, []byte("app = object()\n"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		_, err := sourceDirFromArgs([]string{path})
		if err == nil {
			t.Fatal("expected error for non-directory path")
		}
	})
}

func TestResolveRecipe_Defaults(t *testing.T) {
	t.Parallel()

	c, f := newRecipeTestCommand(t)
	dir := t.TempDir()

	rec, err := resolveRecipe(c, f, config.DefaultConfig(), dir)
	if err != nil {
		t.Fatalf("resolveRecipe() error = %v", err)
	}

	if rec.ResolvedPort() != recipe.DefaultPort {
		t.Errorf("port = %d, want %d", rec.ResolvedPort(), recipe.DefaultPort)
	}
	if rec.ResolvedApp() != recipe.DefaultApp {
		t.Errorf("app = %q, want %q", rec.ResolvedApp(), recipe.DefaultApp)
	}
	if rec.Name != filepath.Base(dir) {
		t.Errorf("name = %q, want source dir base %q", rec.Name, filepath.Base(dir))
	}
}

func TestResolveRecipe_FlagsOverridePyproject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pyproject := `
[project]
name = "demo-api"

[tool.uvipack]
app = "demo:application"
port = 9000
base_image = "python:3.10-slim"
`
	if err := os.WriteFile(filepath.Join(dir, recipe.PyprojectFileName), []byte(pyproject), 0o644); err != nil {
		t.Fatalf("failed to write pyproject: %v", err)
	}

	c, f := newRecipeTestCommand(t, "--port", "8080", "--app", "srv:app")

	rec, err := resolveRecipe(c, f, config.DefaultConfig(), dir)
	if err != nil {
		t.Fatalf("resolveRecipe() error = %v", err)
	}

	// Flags win over pyproject.
	if rec.Port != 8080 {
		t.Errorf("port = %d, want flag value 8080", rec.Port)
	}
	if rec.App != "srv:app" {
		t.Errorf("app = %q, want flag value srv:app", rec.App)
	}
	// Pyproject wins where no flag was given.
	if rec.BaseImage != "python:3.10-slim" {
		t.Errorf("base image = %q, want pyproject value", rec.BaseImage)
	}
	if rec.Name != "demo-api" {
		t.Errorf("name = %q, want pyproject project name", rec.Name)
	}
}

func TestResolveRecipe_PyprojectOverridesConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pyproject := "[tool.uvipack]\nport = 9000\n"
	if err := os.WriteFile(filepath.Join(dir, recipe.PyprojectFileName), []byte(pyproject), 0o644); err != nil {
		t.Fatalf("failed to write pyproject: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Run.Port = 8123
	cfg.Build.SystemPackages = []string{"gcc"}

	c, f := newRecipeTestCommand(t)

	rec, err := resolveRecipe(c, f, cfg, dir)
	if err != nil {
		t.Fatalf("resolveRecipe() error = %v", err)
	}

	if rec.Port != 9000 {
		t.Errorf("port = %d, want pyproject value 9000", rec.Port)
	}
	// Config values survive where pyproject is silent.
	if len(rec.SystemPackages) != 1 || rec.SystemPackages[0] != "gcc" {
		t.Errorf("system packages = %v, want config value", rec.SystemPackages)
	}
}

func TestResolveRecipe_InvalidFlagValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		argv []string
	}{
		{name: "port out of range", argv: []string{"--port", "70000"}},
		{name: "app missing separator", argv: []string{"--app", "no-separator"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, f := newRecipeTestCommand(t, tt.argv...)
			_, err := resolveRecipe(c, f, config.DefaultConfig(), t.TempDir())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, recipe.ErrInvalidRecipe) {
				t.Errorf("error %v should wrap ErrInvalidRecipe", err)
			}
		})
	}
}

func TestParseEnvVars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: nil},
		{
			name:  "simple pairs",
			pairs: []string{"FOO=bar", "BAZ=qux"},
			want:  map[string]string{"FOO": "bar", "BAZ": "qux"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"DSN=postgres://u:p@h/db?sslmode=disable"},
			want:  map[string]string{"DSN": "postgres://u:p@h/db?sslmode=disable"},
		},
		{
			name:  "empty value",
			pairs: []string{"EMPTY="},
			want:  map[string]string{"EMPTY": ""},
		},
		{name: "missing separator", pairs: []string{"NOVALUE"}, wantErr: true},
		{name: "empty key", pairs: []string{"=value"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseEnvVars(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEnvVars() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseEnvVars() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
