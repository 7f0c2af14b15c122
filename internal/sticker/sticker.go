// Package sticker implements the interactive transform rules for stickers:
// canvas-bounded dragging, clamped scaling, rotation and hit testing.
package sticker

import (
	"math"

	"card-editor/internal/draft"
	"card-editor/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// Scale limits applied while a sticker is being transformed.
const (
	MinScale = 0.5
	MaxScale = 3.0
)

// DefaultFootprint returns the unscaled size of a sticker bitmap on a
// canvas: a third of the shorter canvas side wide, keeping the bitmap
// aspect.
func DefaultFootprint(canvas geometry.Size, bitmapW, bitmapH float64) (w, h float64) {
	if bitmapW <= 0 || bitmapH <= 0 {
		return 0, 0
	}
	w = math.Min(canvas.Width, canvas.Height) / 3
	return w, w * (bitmapH / bitmapW)
}

// MeasureAction returns the action that records a sticker's footprint, or
// false when the stored footprint is already current.
func MeasureAction(s draft.Sticker, canvas geometry.Size, bitmapW, bitmapH float64) (draft.Action, bool) {
	w, h := DefaultFootprint(canvas, bitmapW, bitmapH)
	if w == 0 {
		return nil, false
	}
	if cw, ch := s.Size(); s.Measured() && cw == w && ch == h {
		return nil, false
	}
	return draft.SetStickerSize{ID: s.ID, Width: &w, Height: &h}, true
}

// Center returns the sticker center in canvas pixels.
func Center(s draft.Sticker, canvas geometry.Size) geometry.Point2D {
	return geometry.Point2D{X: s.X * canvas.Width, Y: s.Y * canvas.Height}
}

// ClampCenter keeps a center point on the canvas.
func ClampCenter(p geometry.Point2D, canvas geometry.Size) geometry.Point2D {
	return geometry.Point2D{
		X: math.Min(math.Max(0, p.X), canvas.Width),
		Y: math.Min(math.Max(0, p.Y), canvas.Height),
	}
}

// ClampScale limits a live scale factor to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// Corners returns the four corners of the scaled, rotated footprint.
func Corners(s draft.Sticker, canvas geometry.Size) []geometry.Point2D {
	w, h := s.Size()
	return corners(Center(s, canvas), w*s.Scale, h*s.Scale, s.Rotation)
}

func corners(c geometry.Point2D, w, h, rotation float64) []geometry.Point2D {
	center := r2.Vec{X: c.X, Y: c.Y}
	box := r2.NewBox(c.X-w/2, c.Y-h/2, c.X+w/2, c.Y+h/2)
	rot := r2.NewRotation(rotation*math.Pi/180, center)

	verts := box.Vertices()
	out := make([]geometry.Point2D, len(verts))
	for i, v := range verts {
		p := rot.Rotate(v)
		out[i] = geometry.Point2D{X: p.X, Y: p.Y}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the rotated sticker.
func Bounds(s draft.Sticker, canvas geometry.Size) geometry.Rect {
	return geometry.BoundingBox(Corners(s, canvas))
}

// Contains reports whether p falls on the rotated footprint.
func Contains(s draft.Sticker, canvas geometry.Size, p geometry.Point2D) bool {
	if !s.Measured() {
		return false
	}
	c := Center(s, canvas)
	w, h := s.Size()
	w, h = w*s.Scale, h*s.Scale

	// Undo the rotation so the test is against an axis-aligned box.
	local := r2.Rotate(r2.Vec{X: p.X, Y: p.Y}, -s.Rotation*math.Pi/180, r2.Vec{X: c.X, Y: c.Y})
	box := r2.NewBox(c.X-w/2, c.Y-h/2, c.X+w/2, c.Y+h/2)
	return box.Contains(local)
}

// HitTest returns the id of the top-most sticker under p.
func HitTest(stickers []draft.Sticker, canvas geometry.Size, p geometry.Point2D) (string, bool) {
	for i := len(stickers) - 1; i >= 0; i-- {
		if Contains(stickers[i], canvas, p) {
			return stickers[i].ID, true
		}
	}
	return "", false
}

// Select returns the actions for selecting a sticker. A selected sticker is
// always raised to the top.
func Select(id string) []draft.Action {
	return []draft.Action{draft.BringStickerToTop{ID: id}}
}
