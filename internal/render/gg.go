package render

import (
	"image"
	"image/color"
	"log"
	"math"

	"card-editor/pkg/geometry"

	"github.com/fogleman/gg"
)

// GGCanvas renders onto a gg context. Canvas units are multiplied by the
// factor passed to NewGGCanvas to obtain pixels.
type GGCanvas struct {
	dc     *gg.Context
	factor float64
	fonts  *Fonts
	clips  []geometry.Rect
}

// NewGGCanvas allocates a raster of size*factor pixels. fonts may be nil, in
// which case text is drawn with the default typeface.
func NewGGCanvas(size geometry.Size, factor float64, fonts *Fonts) *GGCanvas {
	w := max(1, int(math.Round(size.Width*factor)))
	h := max(1, int(math.Round(size.Height*factor)))
	dc := gg.NewContext(w, h)
	dc.Scale(factor, factor)
	if fonts == nil {
		var err error
		if fonts, err = DefaultFonts(); err != nil {
			log.Printf("render: %v", err)
		}
	}
	return &GGCanvas{dc: dc, factor: factor, fonts: fonts}
}

// Factor returns the canvas-to-pixel scale.
func (c *GGCanvas) Factor() float64 { return c.factor }

func (c *GGCanvas) FillRect(r geometry.Rect, rotation float64, col color.Color) {
	center := r.Center()
	c.dc.Push()
	c.dc.Translate(center.X, center.Y)
	c.dc.Rotate(gg.Radians(rotation))
	c.dc.DrawRectangle(-r.Width/2, -r.Height/2, r.Width, r.Height)
	c.dc.SetColor(col)
	c.dc.Fill()
	c.dc.Pop()
}

func (c *GGCanvas) StrokeRoundedRect(r geometry.Rect, radius, width float64, col color.Color) {
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width * c.factor)
	c.dc.Stroke()
}

func (c *GGCanvas) FillRoundedRect(r geometry.Rect, radius float64, col color.Color) {
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	c.dc.SetColor(col)
	c.dc.Fill()
}

func (c *GGCanvas) FillCircle(center geometry.Point2D, radius float64, col color.Color) {
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.dc.SetColor(col)
	c.dc.Fill()
}

func (c *GGCanvas) DrawImage(img image.Image, center geometry.Point2D, size geometry.Size, rotation float64) {
	b := img.Bounds()
	if b.Empty() || size.Width <= 0 || size.Height <= 0 {
		return
	}
	c.dc.Push()
	c.dc.Translate(center.X, center.Y)
	c.dc.Rotate(gg.Radians(rotation))
	c.dc.Scale(size.Width/float64(b.Dx()), size.Height/float64(b.Dy()))
	c.dc.DrawImageAnchored(img, 0, 0, 0.5, 0.5)
	c.dc.Pop()
}

// DrawText lays text out in pixel space so glyphs are rasterized at their
// final size rather than scaled afterwards.
func (c *GGCanvas) DrawText(text string, box geometry.Rect, style TextStyle) {
	if text == "" || c.fonts == nil {
		return
	}
	face, err := c.fonts.Face(style.Size * c.factor)
	if err != nil {
		log.Printf("render: font face %.1f: %v", style.Size, err)
		return
	}
	spacing := style.LineSpacing
	if spacing == 0 {
		spacing = 1.2
	}
	col := style.Color
	if col == nil {
		col = color.Black
	}

	c.dc.Push()
	c.dc.Identity()
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	x, w := box.X*c.factor, box.Width*c.factor
	y, ay := box.Y*c.factor, 0.0
	if style.VCenter {
		y, ay = box.Center().Y*c.factor, 0.5
	}
	c.dc.DrawStringWrapped(text, x, y, 0, ay, w, spacing, ggAlign(style.Align))
	c.dc.Pop()
}

func ggAlign(a Align) gg.Align {
	switch a {
	case AlignCenter:
		return gg.AlignCenter
	case AlignRight:
		return gg.AlignRight
	default:
		return gg.AlignLeft
	}
}

// PushClip intersects the clip region with r. gg keeps the mask across
// Pop, so the stack of clip rectangles is tracked here.
func (c *GGCanvas) PushClip(r geometry.Rect) {
	c.clips = append(c.clips, r)
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.dc.Clip()
}

func (c *GGCanvas) PopClip() {
	if len(c.clips) == 0 {
		return
	}
	c.clips = c.clips[:len(c.clips)-1]
	c.dc.ResetClip()
	for _, r := range c.clips {
		c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		c.dc.Clip()
	}
}

func (c *GGCanvas) Image() image.Image {
	return c.dc.Image()
}

// Clear fills the whole raster ignoring any clip.
func (c *GGCanvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}
