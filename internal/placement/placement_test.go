package placement

import (
	"math"
	"testing"

	"card-editor/pkg/geometry"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func TestRelativeToAbsoluteCenter(t *testing.T) {
	for _, r := range []float64{0, 0.1, 0.5, 1, 1.7} {
		for _, l := range []float64{1, 100, 1234.5} {
			if got := RelativeToAbsolute(0.5, r, l); !scalar.EqualWithinAbs(got, l/2, tol) {
				t.Errorf("RelativeToAbsolute(0.5, %v, %v) = %v, want %v", r, l, got, l/2)
			}
		}
	}
}

func TestRelativeToAbsoluteEdges(t *testing.T) {
	// A 40px element in a 100px container.
	if got := RelativeToAbsolute(0, 0.4, 100); got != 20 {
		t.Errorf("rel 0 = %v, want 20", got)
	}
	if got := RelativeToAbsolute(1, 0.4, 100); got != 80 {
		t.Errorf("rel 1 = %v, want 80", got)
	}
}

func TestAbsoluteToRelative(t *testing.T) {
	if got := AbsoluteToRelative(80, 40, 100); !scalar.EqualWithinAbs(got, 1, tol) {
		t.Errorf("AbsoluteToRelative(80, 40, 100) = %v, want 1", got)
	}
	for _, pos := range []float64{-50, 0, 12.5, 100, 1e6} {
		if got := AbsoluteToRelative(pos, 100, 100); got != 0.5 {
			t.Errorf("AbsoluteToRelative(%v, 100, 100) = %v, want 0.5", pos, got)
		}
	}
	// Round trip.
	for _, rel := range []float64{-0.2, 0, 0.3, 1, 1.4} {
		abs := RelativeToAbsolute(rel, 2, 300)
		if back := AbsoluteToRelative(abs, 600, 300); !scalar.EqualWithinAbs(back, rel, tol) {
			t.Errorf("round trip %v -> %v -> %v", rel, abs, back)
		}
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {90, 90}, {360, 0}, {450, 90}, {-90, 270}, {-360, 0}, {-450, 270}, {719, 359},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); got != tt.want {
			t.Errorf("NormalizeRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	r := 0
	for _, d := range []int{-90, -90, -90, -90, -90, 90, 270, -45} {
		r = NormalizeRotation(r + d)
		if r < 0 || r >= 360 {
			t.Fatalf("rotation left range: %d", r)
		}
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.5, 1}, {1, 1}, {1.15, 1.15}, {2.5, 2.5}, {3, 2.5}, {-10, 1},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.want {
			t.Errorf("ClampZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoverFit(t *testing.T) {
	tests := []struct {
		name           string
		iw, ih, vw, vh float64
		rot            int
		wantW, wantH   float64
	}{
		{"wide image square viewport", 200, 100, 100, 100, 0, 2, 1},
		{"tall image square viewport", 100, 200, 100, 100, 0, 1, 2},
		{"same aspect", 300, 200, 150, 100, 180, 1, 1},
		// Rotated 90: effective aspect 0.5, so the tall branch; heightRatio
		// 0.5 then both scaled by 2.
		{"wide image rotated", 200, 100, 100, 100, 90, 2, 1},
		// Rotated 270: effective aspect 2, so the wide branch; widthRatio
		// 0.5 then both scaled by 0.5.
		{"tall image rotated", 100, 200, 100, 100, 270, 0.25, 0.5},
	}
	for _, tt := range tests {
		w, h := CoverFit(tt.iw, tt.ih, tt.vw, tt.vh, tt.rot)
		if !scalar.EqualWithinAbs(w, tt.wantW, tol) || !scalar.EqualWithinAbs(h, tt.wantH, tol) {
			t.Errorf("%s: CoverFit = (%v, %v), want (%v, %v)", tt.name, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestCoverFitCoversViewport(t *testing.T) {
	vp := geometry.Size{Width: 300, Height: 200}
	for _, img := range []geometry.Size{{Width: 4000, Height: 3000}, {Width: 1000, Height: 3000}, {Width: 300, Height: 200}} {
		w, h := CoverFit(img.Width, img.Height, vp.Width, vp.Height, 0)
		if w < 1-tol || h < 1-tol {
			t.Errorf("image %+v: ratios (%v, %v) leave a gap", img, w, h)
		}
		// Aspect of the drawn photo matches the source.
		drawn := geometry.Size{Width: w * vp.Width, Height: h * vp.Height}
		if !scalar.EqualWithinAbs(drawn.Aspect(), img.Aspect(), 1e-6) {
			t.Errorf("image %+v: drawn aspect %v", img, drawn.Aspect())
		}
	}
}

func TestDragClamp(t *testing.T) {
	vp := geometry.Size{Width: 100, Height: 100}

	// 200x150 photo: x in [0, 100], y in [25, 75].
	got := DragClamp(geometry.Point2D{X: 150, Y: 10}, 200, 150, vp, 0)
	if got != (geometry.Point2D{X: 100, Y: 25}) {
		t.Errorf("clamp = %+v", got)
	}
	got = DragClamp(geometry.Point2D{X: -20, Y: 90}, 200, 150, vp, 0)
	if got != (geometry.Point2D{X: 0, Y: 75}) {
		t.Errorf("clamp = %+v", got)
	}
	got = DragClamp(geometry.Point2D{X: 40, Y: 60}, 200, 150, vp, 0)
	if got != (geometry.Point2D{X: 40, Y: 60}) {
		t.Errorf("inside point moved: %+v", got)
	}

	// Rotated 90 the footprint is 150x200: x in [25, 75].
	got = DragClamp(geometry.Point2D{X: 90, Y: 50}, 200, 150, vp, 90)
	if got != (geometry.Point2D{X: 75, Y: 50}) {
		t.Errorf("rotated clamp = %+v", got)
	}
}

func TestImageDragCommitsRelative(t *testing.T) {
	vp := geometry.Size{Width: 100, Height: 100}
	tr := Transform{X: 0.5, Y: 0.5, Width: 2, Height: 1, Zoom: 1}

	d := BeginImageDrag(tr, vp)
	if d.Position() != (geometry.Point2D{X: 50, Y: 50}) {
		t.Fatalf("start = %+v", d.Position())
	}
	p := d.Move(geometry.Point2D{X: 500, Y: 30})
	if p != (geometry.Point2D{X: 100, Y: 50}) {
		t.Errorf("clamped = %+v", p)
	}
	x, y := d.End()
	if !scalar.EqualWithinAbs(x, 0, tol) || y != 0.5 {
		t.Errorf("End = (%v, %v), want (0, 0.5)", x, y)
	}
	if after := d.Move(geometry.Point2D{X: -10}); after != p {
		t.Error("Move after End should be ignored")
	}
}

func TestImageDragCancel(t *testing.T) {
	vp := geometry.Size{Width: 100, Height: 100}
	d := BeginImageDrag(Transform{X: 0.5, Y: 0.5, Width: 1.5, Height: 1.5, Zoom: 1}, vp)
	d.Move(geometry.Point2D{X: 10, Y: 10})
	d.Cancel()
	if d.Position() != (geometry.Point2D{X: 50, Y: 50}) {
		t.Errorf("Cancel left position %+v", d.Position())
	}
}

func TestHitTestViewport(t *testing.T) {
	vps := []geometry.Rect{
		{X: 0, Y: 0, Width: 50, Height: 50},
		{X: 50, Y: 0, Width: 50, Height: 50},
	}
	tests := []struct {
		p    geometry.Point2D
		want int
		ok   bool
	}{
		{geometry.Point2D{X: 10, Y: 10}, 0, true},
		{geometry.Point2D{X: 50, Y: 10}, 0, true}, // shared edge goes to the first
		{geometry.Point2D{X: 75, Y: 50}, 1, true},
		{geometry.Point2D{X: 75, Y: 51}, -1, false},
	}
	for _, tt := range tests {
		got, ok := HitTestViewport(tt.p, vps)
		if got != tt.want || ok != tt.ok {
			t.Errorf("HitTestViewport(%+v) = %d, %v; want %d, %v", tt.p, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSwapDrag(t *testing.T) {
	vps := []geometry.Rect{
		{X: 0, Y: 0, Width: 50, Height: 50},
		{X: 60, Y: 0, Width: 50, Height: 50},
	}
	s := NewSwapDrag(vps)
	if i, ok := s.Start(geometry.Point2D{X: 10, Y: 10}); !ok || i != 0 {
		t.Fatalf("Start = %d, %v", i, ok)
	}

	s.Move(geometry.Point2D{X: 20, Y: 20})
	if _, ok := s.DropTarget(); ok {
		t.Error("hovering the source should not highlight")
	}
	s.Move(geometry.Point2D{X: 70, Y: 20})
	if i, ok := s.DropTarget(); !ok || i != 1 {
		t.Errorf("DropTarget = %d, %v", i, ok)
	}
	// The gap between viewports keeps the last target.
	s.Move(geometry.Point2D{X: 55, Y: 20})
	if i, ok := s.DropTarget(); !ok || i != 1 {
		t.Errorf("DropTarget after gap = %d, %v", i, ok)
	}

	from, to, ok := s.End()
	if !ok || from != 0 || to != 1 {
		t.Errorf("End = %d, %d, %v", from, to, ok)
	}
	if _, ok := s.DropTarget(); ok {
		t.Error("state not cleared after End")
	}
	if _, _, ok := s.End(); ok {
		t.Error("second End should not swap")
	}
}

func TestSwapDragWithoutSource(t *testing.T) {
	s := NewSwapDrag([]geometry.Rect{{X: 0, Y: 0, Width: 10, Height: 10}})
	s.Start(geometry.Point2D{X: 50, Y: 50})
	s.Move(geometry.Point2D{X: 5, Y: 5})
	if _, ok := s.DropTarget(); ok {
		t.Error("no source must mean no target")
	}
	if _, _, ok := s.End(); ok {
		t.Error("End without source should not swap")
	}
}

func TestCanvasScale(t *testing.T) {
	size := geometry.Size{Width: 1100, Height: 700}
	bleed := geometry.Point2D{X: 50, Y: 50}
	container := geometry.Size{Width: 500, Height: 200}

	got, ok := CanvasScale(size, bleed, container, Contain)
	if !ok || !scalar.EqualWithinAbs(got, 1.0/3, tol) {
		t.Errorf("contain = %v, %v", got, ok)
	}
	got, ok = CanvasScale(size, bleed, container, Expand)
	if !ok || !scalar.EqualWithinAbs(got, 0.5, tol) {
		t.Errorf("expand = %v, %v", got, ok)
	}
	if _, ok := CanvasScale(size, bleed, geometry.Size{}, Contain); ok {
		t.Error("empty container should not produce a scale")
	}
}

func TestVisibleBorder(t *testing.T) {
	canvas := geometry.Size{Width: 1000, Height: 500}
	bleed := geometry.Point2D{X: 20, Y: 10}
	got := VisibleBorder(geometry.Rect{X: 0, Y: 0, Width: 500, Height: 500}, canvas, bleed)
	want := geometry.Rect{X: 20, Y: 10, Width: 480, Height: 480}
	if got != want {
		t.Errorf("VisibleBorder = %+v, want %+v", got, want)
	}
	stroke := SelectionStroke(got, SelectionBorderWidth)
	if stroke != (geometry.Rect{X: 25, Y: 15, Width: 470, Height: 470}) {
		t.Errorf("SelectionStroke = %+v", stroke)
	}
}

func TestDecorationScale(t *testing.T) {
	got := DecorationScale(geometry.Size{Width: 1800, Height: 1200}, 4)
	want := 1200.0 / 15600 * 6
	if math.Abs(got-want) > tol {
		t.Errorf("DecorationScale = %v, want %v", got, want)
	}
}
