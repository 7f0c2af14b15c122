// Package colorutil provides shared color utilities for the card editor.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Editor palette.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// EmptyViewport fills a viewport that has no photo yet.
	EmptyViewport = color.RGBA{R: 0xED, G: 0xF7, B: 0xF8, A: 255}
	// EmptyViewportSelected fills an empty viewport while it is selected.
	EmptyViewportSelected = color.RGBA{R: 0xDB, G: 0xEE, B: 0xF1, A: 255}
	// SelectionBorder strokes the selected viewport.
	SelectionBorder = color.RGBA{R: 0x37, G: 0xB1, B: 0xBF, A: 255}
	// StickerHighlight is laid over a selected sticker (black at 10%).
	StickerHighlight = color.NRGBA{R: 0, G: 0, B: 0, A: 26}
	// UploadPlus is the badge drawn in an empty viewport.
	UploadPlus = color.RGBA{R: 0x32, G: 0xA1, B: 0xAE, A: 255}
	// DropTarget darkens a viewport that a dragged photo would swap into (black at 20%).
	DropTarget = color.NRGBA{R: 0, G: 0, B: 0, A: 51}
)

// ParseHex parses a CSS-style hex color: #rgb, #rgba, #rrggbb or #rrggbbaa.
// The leading '#' is optional.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, c := range h {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		h = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ParseHexOr parses s and returns fallback when it is not a valid hex color.
func ParseHexOr(s string, fallback color.Color) color.Color {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}
