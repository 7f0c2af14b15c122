package app

import (
	"context"

	"card-editor/internal/draft"
	"card-editor/internal/placement"
	"card-editor/internal/sticker"
	"card-editor/pkg/geometry"
)

// BeginImageDrag starts dragging the photo in viewport i. It reports false
// when the viewport is empty or not yet cover-fitted.
func (s *Session) BeginImageDrag(i int) bool {
	rt := s.Template()
	vp, ok := rt.Viewport(i)
	if !ok {
		return false
	}
	p, ok := s.store.Draft().ImageData.Get(i)
	if !ok || !p.Sized() {
		return false
	}
	s.mu.Lock()
	s.imageDrags[i] = placement.BeginImageDrag(p.Transform(), vp.Size())
	s.mu.Unlock()
	return true
}

// MoveImageDrag moves the photo by delta from the drag start and returns
// its clamped viewport-local center.
func (s *Session) MoveImageDrag(i int, delta geometry.Point2D) (geometry.Point2D, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.imageDrags[i]
	if !ok {
		return geometry.Point2D{}, false
	}
	return d.Move(delta), true
}

// EndImageDrag commits the dragged position.
func (s *Session) EndImageDrag(ctx context.Context, i int) error {
	s.mu.Lock()
	d, ok := s.imageDrags[i]
	delete(s.imageDrags, i)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	x, y := d.End()
	_, err := s.Dispatch(ctx, draft.SetViewportImagePosition{Index: i, X: x, Y: y})
	return err
}

// CancelImageDrag drops the drag without touching the draft.
func (s *Session) CancelImageDrag(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.imageDrags[i]; ok {
		d.Cancel()
		delete(s.imageDrags, i)
	}
}

// BeginStickerGesture starts moving or transforming a sticker.
func (s *Session) BeginStickerGesture(id string) bool {
	rt := s.Template()
	if rt == nil {
		return false
	}
	st, ok := s.store.Draft().Sticker(id)
	if !ok || !st.Measured() {
		return false
	}
	s.mu.Lock()
	s.stickerGestures[id] = sticker.BeginGesture(st, rt.Size)
	s.mu.Unlock()
	return true
}

// DragSticker moves the sticker by delta from where the gesture began.
func (s *Session) DragSticker(id string, delta geometry.Point2D) (geometry.Point2D, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.stickerGestures[id]
	if !ok {
		return geometry.Point2D{}, false
	}
	return g.Drag(delta), true
}

// TransformSticker applies a live scale and rotation.
func (s *Session) TransformSticker(id string, scale, rotation float64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.stickerGestures[id]
	if !ok {
		return 0, false
	}
	return g.Transform(scale, rotation), true
}

// EndStickerGesture commits the gesture.
func (s *Session) EndStickerGesture(ctx context.Context, id string) error {
	s.mu.Lock()
	g, ok := s.stickerGestures[id]
	delete(s.stickerGestures, id)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	for _, a := range g.End() {
		if _, err := s.Dispatch(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// CancelStickerGesture drops the gesture without touching the draft.
func (s *Session) CancelStickerGesture(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.stickerGestures[id]; ok {
		g.Cancel()
		delete(s.stickerGestures, id)
	}
}

// BeginSwap starts dragging a photo towards another viewport.
func (s *Session) BeginSwap(p geometry.Point2D) bool {
	rt := s.Template()
	if rt == nil {
		return false
	}
	sw := placement.NewSwapDrag(rt.Viewports)
	if _, ok := sw.Start(p); !ok {
		return false
	}
	s.mu.Lock()
	s.swap = sw
	s.mu.Unlock()
	return true
}

// MoveSwap updates the highlighted drop target.
func (s *Session) MoveSwap(p geometry.Point2D) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.swap == nil {
		return -1, false
	}
	s.swap.Move(p)
	return s.swap.DropTarget()
}

// EndSwap clears the swap state and swaps the two viewports if the pointer
// was released over another one.
func (s *Session) EndSwap(ctx context.Context) error {
	s.mu.Lock()
	sw := s.swap
	s.swap = nil
	s.mu.Unlock()
	if sw == nil {
		return nil
	}
	from, to, ok := sw.End()
	if !ok {
		return nil
	}
	_, err := s.Dispatch(ctx, draft.SwapViewports{A: from, B: to})
	return err
}
