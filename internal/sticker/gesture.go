package sticker

import (
	"card-editor/internal/draft"
	"card-editor/pkg/geometry"
)

// Gesture tracks one drag or transform of a sticker. Intermediate updates
// stay inside the gesture; End returns the actions to commit.
type Gesture struct {
	id     string
	canvas geometry.Size

	start    geometry.Point2D
	center   geometry.Point2D
	scale    float64
	rotation float64

	transformed bool
	done        bool
}

// BeginGesture starts manipulating s on a canvas of the given size.
func BeginGesture(s draft.Sticker, canvas geometry.Size) *Gesture {
	c := Center(s, canvas)
	return &Gesture{
		id:       s.ID,
		canvas:   canvas,
		start:    c,
		center:   c,
		scale:    s.Scale,
		rotation: s.Rotation,
	}
}

// Drag moves the sticker by delta from where the gesture started. The
// center stays on the canvas.
func (g *Gesture) Drag(delta geometry.Point2D) geometry.Point2D {
	if g.done {
		return g.center
	}
	g.center = ClampCenter(g.start.Add(delta), g.canvas)
	return g.center
}

// Transform applies a live scale and rotation. The returned scale is the
// clamped value actually shown.
func (g *Gesture) Transform(scale, rotation float64) float64 {
	if g.done {
		return g.scale
	}
	g.transformed = true
	g.scale = ClampScale(scale)
	g.rotation = rotation
	return g.scale
}

// Center returns the live center in canvas pixels.
func (g *Gesture) Center() geometry.Point2D { return g.center }

// Scale returns the live scale.
func (g *Gesture) Scale() float64 { return g.scale }

// Rotation returns the live rotation in degrees.
func (g *Gesture) Rotation() float64 { return g.rotation }

// End finishes the gesture. A drag commits the position; a transform
// commits rotation, scale and position, in that order.
func (g *Gesture) End() []draft.Action {
	if g.done {
		return nil
	}
	g.done = true

	pos := draft.SetStickerPosition{
		ID: g.id,
		X:  g.center.X / g.canvas.Width,
		Y:  g.center.Y / g.canvas.Height,
	}
	if !g.transformed {
		return []draft.Action{pos}
	}
	return []draft.Action{
		draft.SetStickerRotation{ID: g.id, Rotation: g.rotation},
		draft.SetStickerScale{ID: g.id, Scale: g.scale},
		pos,
	}
}

// Cancel abandons the gesture without committing anything.
func (g *Gesture) Cancel() {
	g.done = true
}
