// Package draft holds the editable state of a card and the transition
// function that applies user actions to it.
package draft

import (
	"card-editor/internal/placement"
	"card-editor/internal/product"
)

// TextAlign is the alignment of the inside message.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// DefaultFontID is the message font for new drafts.
const DefaultFontID = "Montserrat_Medium"

// ImagePlacement positions a photo inside a viewport.
type ImagePlacement struct {
	ImageURL       string  `json:"imageURL"`
	IllustrationID string  `json:"illustrationID,omitempty"`
	// X and Y are in [0,1] relative to the free travel inside the viewport.
	// They may leave that range after a rotation.
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	// Width and Height are fractions of the viewport size.
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Zoom           float64 `json:"zoom"`
	Rotate         int     `json:"rotate"`
}

// NewImagePlacement returns a centered, unzoomed placement for url. Its size
// is zero until the bitmap is measured.
func NewImagePlacement(url string) ImagePlacement {
	return ImagePlacement{ImageURL: url, X: 0.5, Y: 0.5, Zoom: 1}
}

// Transform returns the geometry of the placement.
func (p ImagePlacement) Transform() placement.Transform {
	return placement.Transform{
		X: p.X, Y: p.Y,
		Width: p.Width, Height: p.Height,
		Zoom:   p.Zoom,
		Rotate: p.Rotate,
	}
}

// Sized reports whether the placement has been cover-fitted.
func (p ImagePlacement) Sized() bool {
	return p.Width > 0 && p.Height > 0
}

// MapInfo is the optional map image shown on the back of a card.
type MapInfo struct {
	MapURL    string  `json:"mapUrl"`
	Place     string  `json:"place"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Date      string  `json:"date,omitempty"`
	Type      string  `json:"type"`
}

// FlowMetadata records progress through the purchase flow.
type FlowMetadata struct {
	MembershipIntroViewedForFeatures []string `json:"membershipIntroViewedForFeatures"`
}

// DefaultFlowMetadata returns empty flow metadata.
func DefaultFlowMetadata() FlowMetadata {
	return FlowMetadata{MembershipIntroViewedForFeatures: []string{}}
}

// EditorDraft is the serializable state of one card being personalized.
// Values are treated as immutable: Reduce returns a new draft and never
// writes through shared slices or pointers.
type EditorDraft struct {
	ProductHandle  product.Handle `json:"productHandle"`
	DraftID        string         `json:"draftID"`
	InitialThemeID string         `json:"initialThemeId"`
	TemplateHandle string         `json:"templateHandle"`

	ImageData   ImageSlots          `json:"imageData"`
	Orientation product.Orientation `json:"orientation"`

	OrderMessage  string    `json:"orderMessage"`
	FontID        string    `json:"fontId"`
	FontAlignment TextAlign `json:"fontAlignment"`

	// CaptionText is nil when no caption was added. An empty string still
	// shows the caption box.
	CaptionText *string  `json:"captionText,omitempty"`
	StampURL    string   `json:"stampUrl,omitempty"`
	Map         *MapInfo `json:"map,omitempty"`

	RenderedImageURL   string `json:"renderedImageURL,omitempty"`
	RenderedMessageURL string `json:"renderedMessageURL,omitempty"`

	FlowMetadata FlowMetadata `json:"flowMetadata"`

	// Stickers are in z-order; the last one is drawn on top.
	Stickers []Sticker `json:"stickers"`
}

// Sticker returns the sticker with the given id.
func (d EditorDraft) Sticker(id string) (Sticker, bool) {
	if i := d.stickerIndex(id); i >= 0 {
		return d.Stickers[i], true
	}
	return Sticker{}, false
}

func (d EditorDraft) stickerIndex(id string) int {
	for i := range d.Stickers {
		if d.Stickers[i].ID == id {
			return i
		}
	}
	return -1
}

// AllViewportsFilled reports whether every one of n viewports holds a photo.
func (d EditorDraft) AllViewportsFilled(n int) bool {
	if n <= 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if _, ok := d.ImageData.Get(i); !ok {
			return false
		}
	}
	return true
}
