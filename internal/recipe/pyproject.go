// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"uvipack/pkg/types"
)

// PyprojectFileName is the project metadata file consulted for recipe overrides.
const PyprojectFileName = "pyproject.toml"

type (
	// pyproject models the subset of pyproject.toml that uvipack reads:
	// the project name and the optional [tool.uvipack] override table.
	pyproject struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Uvipack pyprojectOverrides `toml:"uvipack"`
		} `toml:"tool"`
	}

	// pyprojectOverrides mirrors Recipe fields settable from [tool.uvipack].
	pyprojectOverrides struct {
		App            string   `toml:"app"`
		Port           int      `toml:"port"`
		BaseImage      string   `toml:"base_image"`
		SystemPackages []string `toml:"system_packages"`
		Manifest       string   `toml:"manifest"`
		WorkDir        string   `toml:"workdir"`
	}
)

// FromPyproject reads pyproject.toml in dir and overlays its [tool.uvipack]
// table onto the recipe. A missing file is not an error: the recipe is
// returned unchanged. A present but unparsable file is an error, matching
// the fail-fast posture of the build as a whole.
func FromPyproject(r Recipe, dir string) (Recipe, error) {
	path := filepath.Join(dir, PyprojectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, fmt.Errorf("failed to read %s: %w", PyprojectFileName, err)
	}

	var pp pyproject
	if err := toml.Unmarshal(data, &pp); err != nil {
		return r, fmt.Errorf("failed to parse %s: %w", PyprojectFileName, err)
	}

	if pp.Project.Name != "" && r.Name == "" {
		r.Name = pp.Project.Name
	}

	ov := pp.Tool.Uvipack
	if ov.App != "" {
		r.App = types.AppRef(ov.App)
	}
	if ov.Port != 0 {
		r.Port = types.ListenPort(ov.Port)
	}
	if ov.BaseImage != "" {
		r.BaseImage = ov.BaseImage
	}
	if ov.SystemPackages != nil {
		r.SystemPackages = ov.SystemPackages
	}
	if ov.Manifest != "" {
		r.Manifest = ov.Manifest
	}
	if ov.WorkDir != "" {
		r.WorkDir = ov.WorkDir
	}

	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("%s: %w", PyprojectFileName, err)
	}

	return r, nil
}
