package render

import (
	"image/color"
	"log"

	"card-editor/internal/draft"
	cardimage "card-editor/internal/image"
	"card-editor/internal/placement"
	"card-editor/internal/sticker"
	"card-editor/internal/template"
	"card-editor/pkg/colorutil"
	"card-editor/pkg/geometry"
)

// SelectionKind says what, if anything, is selected.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectViewport
	SelectSticker
)

// Selection is the editor's current selection. It is drawn as decoration
// and never exported.
type Selection struct {
	Kind      SelectionKind
	Viewport  int
	StickerID string
}

// ViewportSelection selects viewport i.
func ViewportSelection(i int) Selection {
	return Selection{Kind: SelectViewport, Viewport: i}
}

// StickerSelection selects the sticker with the given id.
func StickerSelection(id string) Selection {
	return Selection{Kind: SelectSticker, StickerID: id}
}

// IsViewport reports whether viewport i is selected.
func (s Selection) IsViewport(i int) bool {
	return s.Kind == SelectViewport && s.Viewport == i
}

// IsSticker reports whether the sticker with id is selected.
func (s Selection) IsSticker(id string) bool {
	return s.Kind == SelectSticker && s.StickerID == id
}

// BitmapSource resolves asset URLs to decoded bitmaps. *image.Cache
// satisfies it.
type BitmapSource interface {
	Bitmap(url string) (*cardimage.Bitmap, error)
}

// StickerPose is where a sticker is drawn while a gesture moves it.
type StickerPose struct {
	Center   geometry.Point2D
	Scale    float64
	Rotation float64
}

// Scene is everything needed to draw one card face. The gesture fields are
// copies of transient state that is drawn but not yet committed to the
// draft.
type Scene struct {
	Template  *template.RenderTemplate
	Draft     draft.EditorDraft
	Selection Selection
	Bitmaps   BitmapSource

	// ImageDrags holds the live viewport-local center of dragged photos.
	ImageDrags   map[int]geometry.Point2D
	StickerPoses map[string]StickerPose
	// DropTarget is the viewport a swap would land in when Dropping is set.
	DropTarget int
	Dropping   bool
}

// Upload badge proportions in canvas units before DecorationScale.
const (
	badgeDiameter  = 300
	crossThickness = 17
	crossLength    = 170
)

// Draw paints the scene. Missing bitmaps are skipped; they are drawn once
// they resolve.
func Draw(c Canvas, s Scene) {
	c.Clear(colorutil.White)
	rt := s.Template
	if rt == nil {
		return
	}

	drawViewports(c, s)

	if rt.Frame != "" {
		if bm := bitmap(s.Bitmaps, rt.Frame); bm != nil {
			c.DrawImage(bm.Image, rt.Size.Rect().Center(), rt.Size, 0)
		}
	}

	if s.Selection.Kind == SelectViewport && len(rt.Viewports) >= 2 {
		if vp, ok := rt.Viewport(s.Selection.Viewport); ok {
			border := placement.VisibleBorder(vp, rt.Size, rt.Bleed)
			stroke := placement.SelectionStroke(border, placement.SelectionBorderWidth)
			c.StrokeRoundedRect(stroke, placement.SelectionBorderRadius,
				placement.SelectionBorderWidth, colorutil.SelectionBorder)
		}
	}

	drawCaption(c, s)
	drawStickers(c, s)
}

func drawViewports(c Canvas, s Scene) {
	rt := s.Template
	scale := placement.DecorationScale(rt.Size, len(rt.Viewports))

	for i, vp := range rt.Viewports {
		p, filled := s.Draft.ImageData.Get(i)
		if !filled {
			fill := colorutil.EmptyViewport
			if s.Selection.IsViewport(i) {
				fill = colorutil.EmptyViewportSelected
			}
			c.FillRect(vp, 0, fill)
			drawUploadBadge(c, vp.Center(), scale)
		} else {
			drawPhoto(c, s, i, vp, p)
		}
		if s.Dropping && s.DropTarget == i {
			c.FillRect(vp, 0, colorutil.DropTarget)
		}
	}
}

func drawUploadBadge(c Canvas, center geometry.Point2D, scale float64) {
	c.FillCircle(center, badgeDiameter*scale/2, colorutil.UploadPlus)
	length, thick := crossLength*scale, crossThickness*scale
	c.FillRect(geometry.NewRect(center.X-length/2, center.Y-thick/2, length, thick), 0, colorutil.White)
	c.FillRect(geometry.NewRect(center.X-thick/2, center.Y-length/2, thick, length), 0, colorutil.White)
}

func drawPhoto(c Canvas, s Scene, i int, vp geometry.Rect, p draft.ImagePlacement) {
	if !p.Sized() {
		return
	}
	bm := bitmap(s.Bitmaps, p.ImageURL)
	if bm == nil {
		return
	}
	t := p.Transform()
	size := vp.Size()
	center := t.Center(size)
	if live, ok := s.ImageDrags[i]; ok {
		center = live
	}

	c.PushClip(vp)
	c.DrawImage(bm.Image, vp.TopLeft().Add(center), t.DisplaySize(size), float64(t.Rotate))
	c.PopClip()
}

func drawCaption(c Canvas, s Scene) {
	rt := s.Template
	if rt.Caption == nil || s.Draft.CaptionText == nil {
		return
	}
	img := rt.Caption.Image
	if img.URL != "" {
		if bm := bitmap(s.Bitmaps, img.URL); bm != nil {
			c.DrawImage(bm.Image, img.Center(), img.Size(), 0)
		}
	}
	text := rt.Caption.Text
	c.DrawText(*s.Draft.CaptionText, text.Rect, TextStyle{
		Color:   colorutil.ParseHexOr(text.Color, colorutil.Black),
		Size:    text.FontSize,
		Align:   AlignCenter,
		VCenter: true,
	})
}

func drawStickers(c Canvas, s Scene) {
	size := s.Template.Size
	for _, st := range s.Draft.Stickers {
		if !st.Measured() {
			continue
		}
		center := sticker.Center(st, size)
		scale, rotation := st.Scale, st.Rotation
		if pose, ok := s.StickerPoses[st.ID]; ok {
			center, scale, rotation = pose.Center, pose.Scale, pose.Rotation
		}
		w, h := st.Size()
		footprint := geometry.Size{Width: w * scale, Height: h * scale}

		switch st.Kind {
		case draft.KindImage:
			if bm := bitmap(s.Bitmaps, st.StickerURL); bm != nil {
				c.DrawImage(bm.Image, center, footprint, rotation)
			}
		case draft.KindText:
			drawTextSticker(c, st.Text, center, footprint, rotation)
		}

		if s.Selection.IsSticker(st.ID) {
			box := geometry.NewRect(center.X-footprint.Width/2, center.Y-footprint.Height/2,
				footprint.Width, footprint.Height)
			c.FillRect(box, rotation, colorutil.StickerHighlight)
		}
	}
}

// drawTextSticker rasterizes the text on its own canvas so it can be rotated
// like an image sticker.
func drawTextSticker(c Canvas, text string, center geometry.Point2D, footprint geometry.Size, rotation float64) {
	if text == "" || footprint.Width <= 0 || footprint.Height <= 0 {
		return
	}
	factor, fonts := 1.0, (*Fonts)(nil)
	if gc, ok := c.(*GGCanvas); ok {
		factor, fonts = gc.Factor(), gc.fonts
	}
	layer := NewGGCanvas(footprint, factor, fonts)
	layer.Clear(color.Transparent)
	layer.DrawText(text, footprint.Rect(), TextStyle{
		Color:   colorutil.Black,
		Size:    footprint.Height / 2,
		Align:   AlignCenter,
		VCenter: true,
	})
	c.DrawImage(layer.Image(), center, footprint, rotation)
}

func bitmap(src BitmapSource, url string) *cardimage.Bitmap {
	if src == nil || url == "" {
		return nil
	}
	bm, err := src.Bitmap(url)
	if err != nil {
		return nil
	}
	if bm == nil || bm.Image == nil {
		log.Printf("render: empty bitmap for %s", url)
		return nil
	}
	return bm
}
