// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cli/paths.go
// Summary: Standard paths for tilewm configuration and runtime files.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/framegrace/tilewm/config"
)

// Paths holds standard file paths for tilewm.
type Paths struct {
	ConfigDir  string `json:"config_dir" yaml:"config_dir"`
	ConfigPath string `json:"config" yaml:"config"`
	StorePath  string `json:"store" yaml:"store"`
	LogPath    string `json:"log" yaml:"log"`
}

// GetPaths resolves the paths for cfg.
func GetPaths(cfg config.Config) (*Paths, error) {
	configPath, err := config.Path()
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	storePath, err := config.StorePath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	dir := filepath.Dir(configPath)
	return &Paths{
		ConfigDir:  dir,
		ConfigPath: configPath,
		StorePath:  storePath,
		LogPath:    filepath.Join(dir, "tilewm.log"),
	}, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func (p *Paths) EnsureConfigDir() error {
	return os.MkdirAll(p.ConfigDir, 0755)
}
