// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"strings"
	"testing"

	"uvipack/pkg/types"
)

func TestDefault_LaunchScript(t *testing.T) {
	t.Parallel()

	got := Default().LaunchScript()
	want := "uvicorn app:app --host 0.0.0.0 --port 7860\n"
	if got != want {
		t.Errorf("LaunchScript() = %q, want %q", got, want)
	}
}

func TestZeroValue_MatchesDefault(t *testing.T) {
	t.Parallel()

	var zero Recipe
	if zero.Dockerfile() != Default().Dockerfile() {
		t.Error("zero-value recipe should render the same Dockerfile as Default()")
	}
	if zero.LaunchScript() != Default().LaunchScript() {
		t.Error("zero-value recipe should render the same launch script as Default()")
	}
}

// The exposed port and the port argument in the launch command must be the
// same string, whatever port the recipe carries.
func TestDockerfile_PortConsistency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		port types.ListenPort
		want string
	}{
		{"default port", 0, "7860"},
		{"explicit canonical port", 7860, "7860"},
		{"custom port", 9000, "9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Recipe{Port: tt.port}

			df := r.Dockerfile()
			exposed := ""
			for _, line := range strings.Split(df, "\n") {
				if after, ok := strings.CutPrefix(line, "EXPOSE "); ok {
					exposed = after
				}
			}
			if exposed == "" {
				t.Fatalf("Dockerfile has no EXPOSE line:\n%s", df)
			}

			cmd := r.LaunchCommand()
			bound := cmd[len(cmd)-1]

			if exposed != tt.want {
				t.Errorf("EXPOSE port = %q, want %q", exposed, tt.want)
			}
			if exposed != bound {
				t.Errorf("exposed port %q != launch command port %q", exposed, bound)
			}
		})
	}
}

func TestDockerfile_StepOrder(t *testing.T) {
	t.Parallel()

	df := Default().Dockerfile()

	manifestCopy := strings.Index(df, "COPY requirements.txt .")
	pipInstall := strings.Index(df, "pip install")
	sourceCopy := strings.Index(df, "COPY . .")

	if manifestCopy == -1 || pipInstall == -1 || sourceCopy == -1 {
		t.Fatalf("Dockerfile missing expected steps:\n%s", df)
	}
	if !(manifestCopy < pipInstall && pipInstall < sourceCopy) {
		t.Errorf("manifest copy/install must precede source copy:\n%s", df)
	}
	if !strings.Contains(df, "apt-get install -y --no-install-recommends gcc curl git") {
		t.Errorf("Dockerfile missing system package install:\n%s", df)
	}
	if !strings.Contains(df, `CMD ["sh", "run.sh"]`) {
		t.Errorf("Dockerfile missing launch script CMD:\n%s", df)
	}
	if !strings.Contains(df, "chmod +x run.sh") {
		t.Errorf("generated launch script must be marked executable:\n%s", df)
	}
}

func TestLaunchCommand_CustomApp(t *testing.T) {
	t.Parallel()

	r := Recipe{App: "server.main:application", Port: 8080}
	got := strings.Join(r.LaunchCommand(), " ")
	want := "uvicorn server.main:application --host 0.0.0.0 --port 8080"
	if got != want {
		t.Errorf("LaunchCommand() = %q, want %q", got, want)
	}
}

func TestValidateLaunchScript(t *testing.T) {
	t.Parallel()

	if err := Default().ValidateLaunchScript(); err != nil {
		t.Errorf("default launch script should parse as POSIX shell: %v", err)
	}

	// Values that slip past field validation must still be caught when the
	// rendered script encodes anything but one plain command.
	t.Run("statement separator yields two commands", func(t *testing.T) {
		t.Parallel()

		r := Recipe{App: "app:app;id"}
		if err := r.ValidateLaunchScript(); err == nil {
			t.Error("expected error for script encoding two statements")
		}
	})

	t.Run("unbalanced quote does not parse", func(t *testing.T) {
		t.Parallel()

		r := Recipe{App: "app'x:app"}
		if err := r.ValidateLaunchScript(); err == nil {
			t.Error("expected error for unbalanced quote in script")
		}
	})

	t.Run("pipeline is not a plain command", func(t *testing.T) {
		t.Parallel()

		r := Recipe{App: "app:app|cat"}
		if err := r.ValidateLaunchScript(); err == nil {
			t.Error("expected error for script encoding a pipeline")
		}
	})
}

func TestRecipe_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		recipe  Recipe
		wantErr bool
	}{
		{"zero value", Recipe{}, false},
		{"default", Default(), false},
		{"bad app ref", Recipe{App: "noseparator"}, true},
		{"bad port", Recipe{Port: -1}, true},
		{"bad system package", Recipe{SystemPackages: []string{"gcc", "evil pkg"}}, true},
		{"command separator in package", Recipe{SystemPackages: []string{"gcc;curl"}}, true},
		{"quote in package", Recipe{SystemPackages: []string{"gcc'"}}, true},
		{"uppercase package", Recipe{SystemPackages: []string{"GCC"}}, true},
		{"plus and dot in package", Recipe{SystemPackages: []string{"g++", "libssl1.1"}}, false},
		{"command separator in app ref", Recipe{App: "app:app;id"}, true},
		{"quote in app ref", Recipe{App: "app'x:app"}, true},
		{"semicolon in manifest", Recipe{Manifest: "req.txt;id"}, true},
		{"quote in script name", Recipe{ScriptName: "run'.sh"}, true},
		{"space in base image", Recipe{BaseImage: "python:3.11 slim"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.recipe.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecipe) {
				t.Errorf("error should wrap ErrInvalidRecipe, got: %v", err)
			}
		})
	}
}
