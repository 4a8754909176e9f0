// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/treefmt/treefmt.go
// Summary: Renders tree captures and store records as text, YAML or JSON.
// Usage: Used by the dump and sim commands and by the /tree HTTP endpoint.

package treefmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/framegrace/tilewm/tree"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts format names in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Lexer returns the chroma lexer name matching f.
func (f Format) Lexer() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return ""
	}
}

// Encode writes v in format f. Text output is only defined for captures;
// other values fall back to YAML.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatText:
		if c, ok := v.(tree.Capture); ok {
			return WriteText(w, c)
		}
		fallthrough
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
}

// WriteText writes an indented outline of the capture:
//
//	ws0
//	  mo0ws0
//	    #12 firefox TILE
func WriteText(w io.Writer, c tree.Capture) error {
	var sb strings.Builder
	for _, ws := range c.Workspaces {
		sb.WriteString(ws.Key)
		sb.WriteByte('\n')
		for _, mon := range ws.Monitors {
			fmt.Fprintf(&sb, "  %s", mon.Key)
			if len(mon.Windows) == 0 {
				sb.WriteString(" (empty)")
			}
			sb.WriteByte('\n')
			for _, win := range mon.Windows {
				class := win.Class
				if class == "" {
					class = "?"
				}
				fmt.Fprintf(&sb, "    #%d %s %s", win.Sequence, class, win.Mode)
				if win.Grab != "" {
					fmt.Fprintf(&sb, " grab=%s", win.Grab)
				}
				sb.WriteByte('\n')
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders v in format f, ignoring errors.
func String(v any, f Format) string {
	var sb strings.Builder
	_ = Encode(&sb, v, f)
	return sb.String()
}
