// SPDX-License-Identifier: MPL-2.0

package config

var (
	// configDirOverride allows tests to redirect config loading to a temporary
	// directory instead of the user's real configuration directory.
	configDirOverride string

	// configFilePathOverride forces loading from a specific config file.
	// Set from the --config flag before the first Load call.
	configFilePathOverride string
)

// SetConfigDirOverride overrides the configuration directory. Tests must pair
// this with a Reset call via t.Cleanup.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride forces configuration loading from a specific file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// Reset clears all package-level overrides.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}
