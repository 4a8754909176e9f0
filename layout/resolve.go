// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/resolve.go
// Summary: Resolves loose MoveResize parameters to a frame rectangle.

package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/framegrace/tilewm/compositor"
)

// ErrBadPlacement reports a parameter that cannot be turned into a coordinate.
var ErrBadPlacement = errors.New("layout: bad placement value")

// Placement holds the raw x/y/width/height parameters of a MoveResize
// command. Each value may be nil (keep the current frame value), a number,
// a numeric string, a percentage such as "50%", or for X and Y one of the
// keywords center, left, right, top and bottom.
type Placement struct {
	X      any
	Y      any
	Width  any
	Height any
}

// Resolve computes the target rectangle for w. Numbers whose magnitude is at
// most 1 are fractions of the work area; larger numbers are pixels.
func Resolve(p Placement, w compositor.Window) (compositor.Rect, error) {
	return ResolveIn(p, w.FrameRect(), w.WorkArea())
}

// ResolveIn is Resolve against explicit frame and work-area rectangles.
func ResolveIn(p Placement, current, area compositor.Rect) (compositor.Rect, error) {
	out := current
	var err error

	if out.Width, err = resolveSize(p.Width, current.Width, area.Width); err != nil {
		return current, fmt.Errorf("width: %w", err)
	}
	if out.Height, err = resolveSize(p.Height, current.Height, area.Height); err != nil {
		return current, fmt.Errorf("height: %w", err)
	}
	if out.X, err = resolveOffset(p.X, current.X, area.X, area.Width, out.Width, "left", "right"); err != nil {
		return current, fmt.Errorf("x: %w", err)
	}
	if out.Y, err = resolveOffset(p.Y, current.Y, area.Y, area.Height, out.Height, "top", "bottom"); err != nil {
		return current, fmt.Errorf("y: %w", err)
	}
	return out, nil
}

func resolveSize(v any, current, span int) (int, error) {
	if v == nil {
		return current, nil
	}
	f, ok, err := number(v)
	if err != nil {
		return current, err
	}
	if !ok {
		return current, fmt.Errorf("%w: %v", ErrBadPlacement, v)
	}
	if math.Abs(f) <= 1 {
		return int(math.Round(f * float64(span))), nil
	}
	return int(math.Round(f)), nil
}

func resolveOffset(v any, current, origin, span, size int, start, end string) (int, error) {
	if v == nil {
		return current, nil
	}
	if s, isString := v.(string); isString {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "center":
			return origin + (span-size)/2, nil
		case start:
			return origin, nil
		case end:
			return origin + span - size, nil
		}
	}
	f, ok, err := number(v)
	if err != nil {
		return current, err
	}
	if !ok {
		return current, fmt.Errorf("%w: %v", ErrBadPlacement, v)
	}
	if math.Abs(f) <= 1 {
		return origin + int(math.Round(f*float64(span))), nil
	}
	return int(math.Round(f)), nil
}

// number converts v to a float. Percent strings are returned as fractions.
func number(v any) (float64, bool, error) {
	switch n := v.(type) {
	case int:
		return float64(n), true, nil
	case int32:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case uint:
		return float64(n), true, nil
	case uint32:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case float32:
		return float64(n), true, nil
	case float64:
		return n, true, nil
	case string:
		s := strings.TrimSpace(n)
		if strings.HasSuffix(s, "%") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return 0, false, fmt.Errorf("%w: %q", ErrBadPlacement, n)
			}
			return f / 100, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", ErrBadPlacement, n)
		}
		return f, true, nil
	}
	return 0, false, nil
}
