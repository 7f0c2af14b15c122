package draft

// StickerKind discriminates the sticker variants.
type StickerKind string

const (
	KindImage StickerKind = "image_sticker"
	KindText  StickerKind = "text_sticker"
)

// Sticker is a freely placed decoration. X and Y are the center as fractions
// of the canvas. Width and Height are the unscaled footprint in canvas pixels
// and stay nil until the sticker is first measured.
type Sticker struct {
	ID       string      `json:"id"`
	Kind     StickerKind `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Scale    float64     `json:"scale"`
	Rotation float64     `json:"rotation"`
	Width    *float64    `json:"width"`
	Height   *float64    `json:"height"`

	// StickerURL is set for image stickers.
	StickerURL string `json:"stickerUrl,omitempty"`
	// Text is set for text stickers.
	Text string `json:"text,omitempty"`
}

// Measured reports whether the sticker footprint is known.
func (s Sticker) Measured() bool {
	return s.Width != nil && s.Height != nil
}

// Size returns the unscaled footprint, or zeros when unmeasured.
func (s Sticker) Size() (w, h float64) {
	if !s.Measured() {
		return 0, 0
	}
	return *s.Width, *s.Height
}

// NewImageSticker returns a centered image sticker at scale 1.
func NewImageSticker(id, url string) Sticker {
	return Sticker{ID: id, Kind: KindImage, X: 0.5, Y: 0.5, Scale: 1, StickerURL: url}
}

// NewTextSticker returns a centered text sticker at scale 1.
func NewTextSticker(id, text string) Sticker {
	return Sticker{ID: id, Kind: KindText, X: 0.5, Y: 0.5, Scale: 1, Text: text}
}

func floatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
