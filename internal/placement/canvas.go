package placement

import (
	"math"

	"card-editor/pkg/geometry"
)

// SizingMode selects how the canvas is fitted to its container.
type SizingMode string

const (
	// Contain fits both axes inside the container.
	Contain SizingMode = "contain"
	// Expand fills the container width.
	Expand SizingMode = "expand"
)

// Selection border styling.
const (
	SelectionBorderWidth  = 10
	SelectionBorderRadius = 25
)

// CanvasScale returns the on-screen scale for a canvas whose visible area
// (size minus bleed on every edge) is fitted into container. It returns
// false when no scale can be established.
func CanvasScale(size geometry.Size, bleed geometry.Point2D, container geometry.Size, mode SizingMode) (float64, bool) {
	innerW := size.Width - bleed.X*2
	innerH := size.Height - bleed.Y*2
	if innerW <= 0 || innerH <= 0 || container.Width <= 0 {
		return 0, false
	}

	widthScale := container.Width / innerW
	heightScale := container.Height / innerH

	var scale float64
	switch mode {
	case Expand:
		scale = widthScale
	case Contain, "":
		if container.Height <= 0 {
			return 0, false
		}
		scale = math.Min(widthScale, heightScale)
	default:
		return 0, false
	}
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return 0, false
	}
	return scale, true
}

// VisibleBorder returns the part of a viewport that is not hidden by bleed.
func VisibleBorder(viewport geometry.Rect, canvas geometry.Size, bleed geometry.Point2D) geometry.Rect {
	x := math.Max(viewport.X, bleed.X)
	y := math.Max(viewport.Y, bleed.Y)
	x2 := math.Min(viewport.X+viewport.Width, canvas.Width-bleed.X)
	y2 := math.Min(viewport.Y+viewport.Height, canvas.Height-bleed.Y)
	return geometry.Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// SelectionStroke returns the rectangle along which a border of the given
// width is stroked so that it stays inside the visible border.
func SelectionStroke(border geometry.Rect, width float64) geometry.Rect {
	return border.Inset(width/2, width/2)
}

// DecorationScale sizes per-viewport decorations so they look the same on
// every product and shrink as the viewport count grows.
func DecorationScale(canvas geometry.Size, viewportCount int) float64 {
	return math.Min(canvas.Width, canvas.Height) / 15600 *
		float64(max(10-viewportCount, viewportCount))
}
