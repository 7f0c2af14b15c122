package template

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"card-editor/internal/product"
	"card-editor/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats/scalar"
)

func quadDefinition() Definition {
	quad := []Frame{{0, 0, 0.5, 0.5}, {0.5, 0, 0.5, 0.5}, {0, 0.5, 0.5, 0.5}, {0.5, 0.5, 0.5, 0.5}}
	return Definition{
		ID:               "tpl-1",
		Handle:           "quad",
		Viewports:        Viewports{Landscape: quad, Portrait: quad},
		BleedLargerSide:  0.02,
		BleedSmallerSide: 0.03,
		FrameLandscape:   "/frames/quad-l.png",
		FramePortrait:    "/frames/quad-p.png",
	}
}

func TestApplyLandscapeQuad(t *testing.T) {
	rt, err := Apply(quadDefinition(), product.Dimensions{LongSide: 1800, ShortSide: 1200}, product.Landscape)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rt.Size != (geometry.Size{Width: 1800, Height: 1200}) {
		t.Errorf("Size = %+v", rt.Size)
	}
	if diff := cmp.Diff(geometry.Rect{X: 0, Y: 0, Width: 900, Height: 600}, rt.Viewports[0]); diff != "" {
		t.Errorf("viewport 0 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.Rect{X: 900, Y: 600, Width: 900, Height: 600}, rt.Viewports[3]); diff != "" {
		t.Errorf("viewport 3 mismatch (-want +got):\n%s", diff)
	}
	if !scalar.EqualWithinAbs(rt.Bleed.X, 36, 1e-9) || !scalar.EqualWithinAbs(rt.Bleed.Y, 36, 1e-9) {
		t.Errorf("Bleed = %+v, want {36 36}", rt.Bleed)
	}
	if rt.Frame != "/frames/quad-l.png" {
		t.Errorf("Frame = %q", rt.Frame)
	}
	if rt.Caption != nil {
		t.Error("unexpected caption")
	}
}

func TestApplyPortraitSwapsBleedAxes(t *testing.T) {
	def := quadDefinition()
	def.BleedLargerSide = 0.1
	def.BleedSmallerSide = 0.05
	rt, err := Apply(def, product.Dimensions{LongSide: 2000, ShortSide: 1000}, product.Portrait)
	if err != nil {
		t.Fatal(err)
	}
	want := geometry.Point2D{X: 50, Y: 200}
	if rt.Bleed != want {
		t.Errorf("Bleed = %+v, want %+v", rt.Bleed, want)
	}
	if rt.Size != (geometry.Size{Width: 1000, Height: 2000}) {
		t.Errorf("Size = %+v", rt.Size)
	}
	if rt.Frame != "/frames/quad-p.png" {
		t.Errorf("Frame = %q", rt.Frame)
	}
	if got := rt.VisibleArea(); got != (geometry.Rect{X: 50, Y: 200, Width: 900, Height: 1600}) {
		t.Errorf("VisibleArea = %+v", got)
	}
}

func TestApplyCaption(t *testing.T) {
	def := quadDefinition()
	def.Captions = []CaptionDefinition{{
		OutsideFrame:   Frames{Landscape: Frame{0.1, 0.8, 0.5, 0.1}, Portrait: Frame{0, 0, 1, 1}},
		TextFrame:      Frames{Landscape: Frame{0.1, 0.2, 0.8, 0.6}, Portrait: Frame{0, 0, 1, 1}},
		ImageLandscape: "/captions/l.png",
		ImagePortrait:  "/captions/p.png",
		Color:          "#333333",
		FontSize:       12,
	}}
	rt, err := Apply(def, product.Dimensions{LongSide: 1000, ShortSide: 500}, product.Landscape)
	if err != nil {
		t.Fatal(err)
	}
	if rt.Caption == nil {
		t.Fatal("caption missing")
	}
	img := rt.Caption.Image
	if img.URL != "/captions/l.png" || img.Rect != (geometry.Rect{X: 100, Y: 400, Width: 500, Height: 50}) {
		t.Errorf("caption image = %+v", img)
	}
	txt := rt.Caption.Text
	wantText := geometry.Rect{X: 150, Y: 410, Width: 400, Height: 30}
	for _, pair := range [][2]float64{{txt.X, wantText.X}, {txt.Y, wantText.Y}, {txt.Width, wantText.Width}, {txt.Height, wantText.Height}} {
		if !scalar.EqualWithinAbs(pair[0], pair[1], 1e-9) {
			t.Errorf("caption text rect = %+v, want %+v", txt.Rect, wantText)
			break
		}
	}
	if txt.FontSize != 60 || txt.Color != "#333333" {
		t.Errorf("caption text style = %v %q", txt.FontSize, txt.Color)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"no handle", func(d *Definition) { d.Handle = "" }},
		{"no viewports", func(d *Definition) { d.Viewports.Landscape = nil }},
		{"zero width", func(d *Definition) { d.Viewports.Landscape[0] = Frame{0, 0, 0, 0.5} }},
		{"huge bleed", func(d *Definition) { d.BleedLargerSide = 0.6 }},
		{"caption without frame", func(d *Definition) {
			d.Captions = []CaptionDefinition{{FontSize: 10}}
		}},
	}
	for _, tt := range tests {
		def := quadDefinition()
		def.Viewports.Landscape = append([]Frame(nil), def.Viewports.Landscape...)
		tt.mutate(&def)
		_, err := Apply(def, product.Dimensions{LongSide: 10, ShortSide: 5}, product.Landscape)
		if !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("%s: err = %v, want ErrInvalidTemplate", tt.name, err)
		}
	}
}

func TestDirSourceAndCache(t *testing.T) {
	dir := t.TempDir()
	data := `templateId: t-2
viewports:
  landscape: [[0, 0, 1, 1]]
  portrait: [[0, 0, 1, 0.5], [0, 0.5, 1, 0.5]]
bleedLargerSide: 0
bleedSmallerSide: 0
`
	if err := os.WriteFile(filepath.Join(dir, "single.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	src := DirSource{Dir: dir}
	handles, err := src.Handles()
	if err != nil || len(handles) != 1 || handles[0] != "single" {
		t.Fatalf("Handles = %v, %v", handles, err)
	}

	cache := NewCache(src)
	ctx := context.Background()
	dims := product.Dimensions{LongSide: 300, ShortSide: 200}

	land, err := cache.Get(ctx, "single", dims, product.Landscape)
	if err != nil {
		t.Fatalf("Get landscape: %v", err)
	}
	if land.Handle != "single" || len(land.Viewports) != 1 {
		t.Errorf("landscape = %+v", land)
	}
	port, err := cache.Get(ctx, "single", dims, product.Portrait)
	if err != nil {
		t.Fatalf("Get portrait: %v", err)
	}
	if len(port.Viewports) != 2 || port.Viewports[1] != (geometry.Rect{X: 0, Y: 150, Width: 200, Height: 150}) {
		t.Errorf("portrait viewports = %+v", port.Viewports)
	}

	if _, err := cache.Get(ctx, "missing", dims, product.Landscape); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing template err = %v", err)
	}
}

func TestCacheServesFromMemoryAfterLoad(t *testing.T) {
	src := MemorySource{"quad": quadDefinition()}
	cache := NewCache(src)
	dims := product.Dimensions{LongSide: 100, ShortSide: 50}
	first, err := cache.Get(context.Background(), "quad", dims, product.Landscape)
	if err != nil {
		t.Fatal(err)
	}
	delete(src, "quad")
	second, err := cache.Get(context.Background(), "quad", dims, product.Landscape)
	if err != nil {
		t.Fatalf("cached Get: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached template differs:\n%s", diff)
	}

	cache.Invalidate("quad")
	if _, err := cache.Get(context.Background(), "quad", dims, product.Landscape); err == nil {
		t.Error("expected error after invalidation")
	}
}

type slowSource struct {
	calls atomic.Int32
	delay time.Duration
}

func (s *slowSource) Load(_ context.Context, handle string) (Definition, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return quadDefinition(), nil
}

func TestCacheSharesConcurrentLoads(t *testing.T) {
	src := &slowSource{delay: 100 * time.Millisecond}
	cache := NewCache(src)
	dims := product.Dimensions{LongSide: 100, ShortSide: 50}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background(), "quad", dims, product.Landscape); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := src.calls.Load(); n != 1 {
		t.Errorf("source loaded %d times, want 1", n)
	}

	cache.Invalidate("quad")
	if _, err := cache.Get(context.Background(), "quad", dims, product.Landscape); err != nil {
		t.Fatal(err)
	}
	if n := src.calls.Load(); n != 2 {
		t.Errorf("source loaded %d times after invalidation, want 2", n)
	}
}
