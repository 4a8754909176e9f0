// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/treefmt/highlight.go
// Summary: Syntax highlighting of dumps for terminal output.

package treefmt

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultStyle     = "catppuccin-mocha"
	defaultFormatter = "terminal256"
)

func chromaStyle(name string) *chroma.Style {
	if name == "" {
		name = DefaultStyle
	}
	return styles.Get(name)
}

func lexerFor(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// Highlight writes text colorized with the named lexer and style. An empty
// lexer name auto-detects. Plain text is written when tokenizing fails.
func Highlight(w io.Writer, text, lexer, style string) error {
	l := chroma.Coalesce(lexerFor(lexer, text))
	it, err := l.Tokenise(nil, text)
	if err != nil {
		_, werr := io.WriteString(w, text)
		return werr
	}
	f := formatters.Get(defaultFormatter)
	if f == nil {
		f = formatters.Fallback
	}
	if err := f.Format(w, chromaStyle(style), it); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}

// EncodeColor encodes v like Encode and highlights the result. Text
// outlines have no grammar and are written as is.
func EncodeColor(w io.Writer, v any, f Format, style string) error {
	if f == FormatText {
		return Encode(w, v, f)
	}
	return Highlight(w, String(v, f), f.Lexer(), style)
}
