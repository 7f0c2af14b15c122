// Package placement holds the geometry for positioning photos inside
// viewports: coordinate conversion, cover-fit sizing, drag clamping and
// hit testing.
package placement

import (
	"math"

	"card-editor/pkg/geometry"
)

// Zoom limits for a photo inside its viewport.
const (
	MinZoom = 1.0
	MaxZoom = 2.5
)

// RelativeToAbsolute converts a relative anchor position (0 puts the element's
// near edge on the container origin, 1 puts its far edge on the container's
// far edge) into the pixel position of the element's center.
func RelativeToAbsolute(relPos, relLength, containerLength float64) float64 {
	element := containerLength * relLength
	return relPos*(containerLength-element) + element/2
}

// AbsoluteToRelative is the inverse of RelativeToAbsolute. When the element
// fills the container exactly the position is undefined and 0.5 is returned.
func AbsoluteToRelative(pixelPos, elementLength, containerLength float64) float64 {
	rel := (pixelPos - elementLength/2) / (containerLength - elementLength)
	if math.IsNaN(rel) || math.IsInf(rel, 0) {
		return 0.5
	}
	return rel
}

// NormalizeRotation maps any whole-degree rotation into [0, 360).
func NormalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// IsSwapped reports whether a rotation exchanges the image's width and height.
func IsSwapped(deg int) bool {
	return deg%180 != 0
}

// ClampZoom limits a zoom factor to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Transform is the placement of a photo inside a viewport. Width and Height
// are fractions of the viewport size before zoom.
type Transform struct {
	X, Y          float64
	Width, Height float64
	Zoom          float64
	Rotate        int
}

// DisplaySize returns the unrotated on-canvas size of the photo.
func (t Transform) DisplaySize(viewport geometry.Size) geometry.Size {
	return geometry.Size{
		Width:  t.Width * t.Zoom * viewport.Width,
		Height: t.Height * t.Zoom * viewport.Height,
	}
}

// BoundsSize returns the axis-aligned footprint of the rotated photo.
func (t Transform) BoundsSize(viewport geometry.Size) geometry.Size {
	s := t.DisplaySize(viewport)
	if IsSwapped(t.Rotate) {
		return s.Swap()
	}
	return s
}

// Center returns the photo's center in viewport-local pixels.
func (t Transform) Center(viewport geometry.Size) geometry.Point2D {
	return geometry.Point2D{
		X: RelativeToAbsolute(t.X, t.Width*t.Zoom, viewport.Width),
		Y: RelativeToAbsolute(t.Y, t.Height*t.Zoom, viewport.Height),
	}
}

// RelativePosition converts a viewport-local center back into relative
// coordinates, using the unrotated display size.
func (t Transform) RelativePosition(center geometry.Point2D, viewport geometry.Size) (x, y float64) {
	s := t.DisplaySize(viewport)
	return AbsoluteToRelative(center.X, s.Width, viewport.Width),
		AbsoluteToRelative(center.Y, s.Height, viewport.Height)
}
