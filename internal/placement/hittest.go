package placement

import (
	"card-editor/pkg/geometry"
)

// HitTestViewport returns the index of the first viewport containing p.
// Edges count as inside.
func HitTestViewport(p geometry.Point2D, viewports []geometry.Rect) (int, bool) {
	for i, vp := range viewports {
		if vp.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// SwapDrag tracks dragging a photo from one viewport onto another. The state
// only lives for one gesture.
type SwapDrag struct {
	viewports []geometry.Rect

	source    int
	hasSource bool
	target    int
	hasTarget bool
}

// NewSwapDrag creates a tracker over the given viewport rects.
func NewSwapDrag(viewports []geometry.Rect) *SwapDrag {
	return &SwapDrag{viewports: viewports, source: -1, target: -1}
}

// Start records the viewport under the pointer as the drag source.
func (s *SwapDrag) Start(p geometry.Point2D) (int, bool) {
	s.source, s.hasSource = HitTestViewport(p, s.viewports)
	s.target, s.hasTarget = -1, false
	return s.source, s.hasSource
}

// Move updates the highlighted drop target. Hovering the source, or having no
// source, clears it. Hovering outside every viewport keeps the last target.
func (s *SwapDrag) Move(p geometry.Point2D) {
	hovered, ok := HitTestViewport(p, s.viewports)
	if !s.hasSource || (ok && hovered == s.source) {
		s.target, s.hasTarget = -1, false
		return
	}
	if !ok {
		return
	}
	s.target, s.hasTarget = hovered, true
}

// DropTarget returns the viewport currently highlighted as a drop target.
func (s *SwapDrag) DropTarget() (int, bool) {
	return s.target, s.hasTarget
}

// Source returns the viewport the drag started in.
func (s *SwapDrag) Source() (int, bool) {
	return s.source, s.hasSource
}

// End clears the gesture state and reports the pair to swap, if any.
func (s *SwapDrag) End() (from, to int, ok bool) {
	from, to = s.source, s.target
	ok = s.hasSource && s.hasTarget && from != to
	s.source, s.hasSource = -1, false
	s.target, s.hasTarget = -1, false
	if !ok {
		return -1, -1, false
	}
	return from, to, true
}
