// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions names the configuration sources explicitly instead of relying
// on the package-level overrides that back Load.
type LoadOptions struct {
	// ConfigFilePath, when set, loads exactly this config.cue file and
	// fails if it does not exist.
	ConfigFilePath string
	// ConfigDirPath, when set, replaces the platform config directory
	// lookup. A missing config.cue inside it falls back to defaults.
	ConfigDirPath string
}

// Provider loads uvipack configuration from explicitly named sources.
// Tests and embedding callers use it to avoid the process-wide override
// state the CLI entry points rely on.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// NewProvider returns the file-backed Provider.
func NewProvider() Provider {
	return &fileProvider{}
}

type fileProvider struct{}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
