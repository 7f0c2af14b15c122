package template

import (
	"card-editor/internal/product"
	"card-editor/pkg/geometry"
)

// CaptionFontScale converts template design units to canvas font units.
const CaptionFontScale = 5

// CaptionImage is the caption background asset placed on the canvas.
type CaptionImage struct {
	URL string `json:"imageUrl"`
	geometry.Rect
}

// CaptionText is the caption text box, in canvas pixels.
type CaptionText struct {
	geometry.Rect
	Color    string  `json:"color"`
	FontSize float64 `json:"fontSize"`
}

// CaptionLayout is a caption resolved to canvas pixels.
type CaptionLayout struct {
	Image CaptionImage `json:"image"`
	Text  CaptionText  `json:"text"`
}

// RenderTemplate is a template resolved for one product and orientation.
// It is never mutated after Apply returns it.
type RenderTemplate struct {
	ID          string              `json:"id"`
	Handle      string              `json:"handle"`
	Orientation product.Orientation `json:"orientation"`
	Viewports   []geometry.Rect     `json:"viewports"`
	// Bleed is the number of pixels hidden per edge after trimming.
	Bleed   geometry.Point2D `json:"bleed"`
	Frame   string           `json:"frame,omitempty"`
	Size    geometry.Size    `json:"size"`
	Caption *CaptionLayout   `json:"caption,omitempty"`
}

// Viewport returns the viewport at index i.
func (t *RenderTemplate) Viewport(i int) (geometry.Rect, bool) {
	if t == nil || i < 0 || i >= len(t.Viewports) {
		return geometry.Rect{}, false
	}
	return t.Viewports[i], true
}

// VisibleArea returns the part of the canvas that survives trimming.
func (t *RenderTemplate) VisibleArea() geometry.Rect {
	return t.Size.Rect().Inset(t.Bleed.X, t.Bleed.Y)
}

// Apply resolves def against physical dimensions and an orientation.
func Apply(def Definition, dims product.Dimensions, o product.Orientation) (RenderTemplate, error) {
	if err := def.Validate(o); err != nil {
		return RenderTemplate{}, err
	}

	size := dims.Oriented(o)

	// Larger/smaller side is a property of the physical card, so the axes
	// swap with orientation.
	var bleed geometry.Point2D
	if o == product.Landscape {
		bleed = geometry.Point2D{X: def.BleedLargerSide * dims.LongSide, Y: def.BleedSmallerSide * dims.ShortSide}
	} else {
		bleed = geometry.Point2D{X: def.BleedSmallerSide * dims.ShortSide, Y: def.BleedLargerSide * dims.LongSide}
	}

	rt := RenderTemplate{
		ID:          def.ID,
		Handle:      def.Handle,
		Orientation: o,
		Viewports:   AbsoluteViewports(def.Viewports.For(o), size),
		Bleed:       bleed,
		Frame:       def.Frame(o),
		Size:        size,
	}

	if c := def.Caption(); c != nil {
		rt.Caption = captionLayout(c, size, o)
	}
	return rt, nil
}

// AbsoluteViewports scales each relative frame by the canvas size.
func AbsoluteViewports(frames []Frame, size geometry.Size) []geometry.Rect {
	out := make([]geometry.Rect, len(frames))
	for i, f := range frames {
		out[i] = geometry.Rect{
			X:      f.X() * size.Width,
			Y:      f.Y() * size.Height,
			Width:  f.W() * size.Width,
			Height: f.H() * size.Height,
		}
	}
	return out
}

func captionLayout(c *CaptionDefinition, size geometry.Size, o product.Orientation) *CaptionLayout {
	outer := c.OutsideFrame.For(o)
	inner := c.TextFrame.For(o)

	img := geometry.Rect{
		X:      outer.X() * size.Width,
		Y:      outer.Y() * size.Height,
		Width:  outer.W() * size.Width,
		Height: outer.H() * size.Height,
	}

	// Text is nested inside the caption image.
	text := geometry.Rect{
		X:      inner.X()*img.Width + img.X,
		Y:      inner.Y()*img.Height + img.Y,
		Width:  inner.W() * img.Width,
		Height: inner.H() * img.Height,
	}

	return &CaptionLayout{
		Image: CaptionImage{URL: c.Image(o), Rect: img},
		Text: CaptionText{
			Rect:     text,
			Color:    c.Color,
			FontSize: c.FontSize * CaptionFontScale,
		},
	}
}
