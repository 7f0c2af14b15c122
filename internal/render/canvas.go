// Package render draws a card scene onto a raster backend.
package render

import (
	"image"
	"image/color"

	"card-editor/pkg/geometry"
)

// Align is the horizontal alignment of text in its box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how DrawText lays text out.
type TextStyle struct {
	Color color.Color
	Align Align

	// Size is the font size in canvas units.
	Size        float64
	// LineSpacing is a multiple of the font height. Zero means 1.2.
	LineSpacing float64
	// VCenter centers the text block vertically in its box; otherwise it
	// starts at the top.
	VCenter     bool
}

// Canvas is the drawing backend. Coordinates are canvas units; the backend
// maps them to pixels.
type Canvas interface {
	// FillRect fills r rotated by rotation degrees about its center.
	FillRect(r geometry.Rect, rotation float64, c color.Color)
	// StrokeRoundedRect strokes r with rounded corners.
	StrokeRoundedRect(r geometry.Rect, radius, width float64, c color.Color)
	// FillRoundedRect fills r with rounded corners.
	FillRoundedRect(r geometry.Rect, radius float64, c color.Color)
	// FillCircle fills a circle.
	FillCircle(center geometry.Point2D, radius float64, c color.Color)
	// DrawImage scales img to size, centers it on center and rotates it by
	// rotation degrees about that center.
	DrawImage(img image.Image, center geometry.Point2D, size geometry.Size, rotation float64)
	// DrawText wraps text inside box.
	DrawText(text string, box geometry.Rect, style TextStyle)
	// Clear fills the whole raster ignoring any clip.
	Clear(c color.Color)
	// PushClip restricts drawing to r until the matching PopClip.
	PushClip(r geometry.Rect)
	PopClip()
	// Image returns the flattened raster.
	Image() image.Image
}
