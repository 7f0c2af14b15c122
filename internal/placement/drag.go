package placement

import (
	"card-editor/pkg/geometry"
)

// DragClamp limits the center of a dragged photo so it cannot be pulled past
// the viewport edges. imageW and imageH are the unrotated display size; they
// are swapped for quarter-turn rotations.
//
// When the photo is larger than the viewport the valid range is
// [viewport-image/2, image/2]. When it is smaller the bounds cross and the
// photo snaps to the lower bound.
func DragClamp(pointer geometry.Point2D, imageW, imageH float64, viewport geometry.Size, rotation int) geometry.Point2D {
	if IsSwapped(rotation) {
		imageW, imageH = imageH, imageW
	}

	leftBound := viewport.Width - imageW/2
	rightBound := imageW / 2
	topBound := viewport.Height - imageH/2
	bottomBound := imageH / 2

	p := pointer
	if p.X < leftBound {
		p.X = leftBound
	} else if p.X > rightBound {
		p.X = rightBound
	}
	if p.Y < topBound {
		p.Y = topBound
	} else if p.Y > bottomBound {
		p.Y = bottomBound
	}
	return p
}

// ImageDrag tracks one drag gesture of a photo inside its viewport. Moves only
// update the transient position; nothing is committed until End.
type ImageDrag struct {
	transform Transform
	viewport  geometry.Size
	start     geometry.Point2D
	current   geometry.Point2D
	done      bool
}

// BeginImageDrag starts dragging a photo placed with t.
func BeginImageDrag(t Transform, viewport geometry.Size) *ImageDrag {
	c := t.Center(viewport)
	return &ImageDrag{transform: t, viewport: viewport, start: c, current: c}
}

// Move applies a pointer displacement measured from the gesture start and
// returns the clamped center.
func (d *ImageDrag) Move(delta geometry.Point2D) geometry.Point2D {
	if d.done {
		return d.current
	}
	s := d.transform.DisplaySize(d.viewport)
	d.current = DragClamp(d.start.Add(delta), s.Width, s.Height, d.viewport, d.transform.Rotate)
	return d.current
}

// Position returns the transient center in viewport-local pixels.
func (d *ImageDrag) Position() geometry.Point2D {
	return d.current
}

// End finishes the gesture and returns the relative position to commit.
func (d *ImageDrag) End() (x, y float64) {
	d.done = true
	return d.transform.RelativePosition(d.current, d.viewport)
}

// Cancel abandons the gesture. The caller commits nothing.
func (d *ImageDrag) Cancel() {
	d.done = true
	d.current = d.start
}
