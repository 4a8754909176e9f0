// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Fallback values registered on top of whatever was loaded.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"log_level": "info",
	})
	cfg.RegisterDefaults("windows", Section{
		"track_types":   []interface{}{"normal"},
		"float_classes": []interface{}{},
	})
	cfg.RegisterDefaults("border", Section{
		"style_class":     "window-clone-border",
		"switch_delay_ms": 350,
	})
	cfg.RegisterDefaults("layout", Section{
		"gap": 8,
	})
	cfg.RegisterDefaults("store", Section{
		"enabled": true,
		"path":    "",
	})
	cfg.RegisterDefaults("metrics", Section{
		"addr": "",
	})
	cfg.RegisterDefaults("commands", Section{})
}
