// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Clone helpers for config maps.

package config

// Clone returns a copy of the config with every section copied, so section
// edits on the clone never reach the original.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	clone := make(Config, len(cfg))
	for name, value := range cfg {
		if section, ok := asSection(value); ok {
			out := make(Section, len(section))
			for key, v := range section {
				out[key] = v
			}
			clone[name] = out
			continue
		}
		clone[name] = value
	}
	return clone
}

func asSection(v interface{}) (Section, bool) {
	switch s := v.(type) {
	case Section:
		return s, true
	case map[string]interface{}:
		return Section(s), true
	}
	return nil, false
}
