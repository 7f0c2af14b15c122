package draft

import (
	"card-editor/internal/product"
	"card-editor/internal/template"
)

// Action is one user intent applied by Reduce. The set is closed: only types
// in this package implement it.
type Action interface {
	// Type returns the wire name of the action.
	Type() string
	action()
}

// Wire names of every action.
const (
	TypeSetViewportImage           = "set_viewport_image"
	TypeRemoveViewportImage        = "remove_viewport_image"
	TypeSwapViewports              = "swap_viewports"
	TypeSetViewportImagePosition   = "set_viewport_image_position"
	TypeSetViewportImageSize       = "set_viewport_image_size"
	TypeIncrementViewportImageZoom = "increment_viewport_image_zoom"
	TypeRotateImage                = "rotate_image"
	TypeToggleOrientation          = "toggle_orientation"
	TypeSetOrderMessage            = "set_order_message"
	TypeAddImageSticker            = "add_image_sticker"
	TypeSetStickerSize             = "set_sticker_size"
	TypeSetStickerPosition         = "set_sticker_position"
	TypeSetStickerRotation         = "set_sticker_rotation"
	TypeSetStickerScale            = "set_sticker_scale"
	TypeRemoveSticker              = "remove_sticker"
	TypeBringStickerToTop          = "bring_sticker_to_top"
	TypeSetRenderedImage           = "set_rendered_image"
	TypeSetStamp                   = "set_stamp"
	TypeSetMap                     = "set_map"
	TypeSetFontID                  = "set_font_id"
	TypeSetFontAlignment           = "set_font_alignment"
	TypeSetEditorTemplate          = "set_editor_template"
	TypeSetMessageImage            = "set_message_image"
	TypeSetCaptionText             = "set_caption_text"
	TypeSetFlowMetadata            = "set_flow_metadata"
	TypeSwitchProductType          = "switch_product_type"
)

// Viewport photo actions.

type SetViewportImage struct {
	Index    int    `json:"index"`
	ImageURL string `json:"imageUrl"`
}

type RemoveViewportImage struct {
	Index int `json:"index"`
}

type SwapViewports struct {
	A int `json:"viewportAIndex"`
	B int `json:"viewportBIndex"`
}

type SetViewportImagePosition struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type SetViewportImageSize struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IncrementViewportImageZoom only applies when Template has a viewport at
// Index.
type IncrementViewportImageZoom struct {
	Index     int                      `json:"index"`
	Increment float64                  `json:"zoomIncrement"`
	Template  *template.RenderTemplate `json:"template,omitempty"`
}

// RotateImage only applies when Template has a viewport at Index.
type RotateImage struct {
	Index    int                      `json:"index"`
	Degrees  int                      `json:"rotate"`
	Template *template.RenderTemplate `json:"template,omitempty"`
}

// Card-level actions.

type ToggleOrientation struct{}

// SetOrderMessage also discards any rendered message image.
type SetOrderMessage struct {
	Message string `json:"orderMessage"`
}

// Sticker actions.

// AddImageSticker appends a sticker. ID is generated when empty and Created,
// if set, receives it once the draft holds the sticker.
type AddImageSticker struct {
	StickerURL string          `json:"stickerImageUrl"`
	ID         string          `json:"id,omitempty"`
	Created    func(id string) `json:"-"`
}

type SetStickerSize struct {
	ID     string   `json:"id"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type SetStickerPosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type SetStickerRotation struct {
	ID       string  `json:"id"`
	Rotation float64 `json:"rotation"`
}

type SetStickerScale struct {
	ID    string  `json:"id"`
	Scale float64 `json:"scale"`
}

type RemoveSticker struct {
	ID string `json:"id"`
}

type BringStickerToTop struct {
	ID string `json:"id"`
}

// Field replacements.

type SetRenderedImage struct {
	ImageURL string `json:"imageUrl"`
}

type SetStamp struct {
	StampURL string `json:"stampUrl,omitempty"`
}

type SetMap struct {
	Map *MapInfo `json:"map"`
}

type SetFontID struct {
	FontID string `json:"fontId"`
}

type SetFontAlignment struct {
	Alignment TextAlign `json:"fontAlignment"`
}

type SetEditorTemplate struct {
	Handle string `json:"template"`
}

type SetMessageImage struct {
	ImageURL string `json:"messageImageUrl"`
}

// SetCaptionText with a nil Text removes the caption.
type SetCaptionText struct {
	Text *string `json:"captionText"`
}

type SetFlowMetadata struct {
	Metadata FlowMetadata `json:"metadata"`
}

type SwitchProductType struct {
	Product product.Handle `json:"productType"`
}

func (SetViewportImage) Type() string           { return TypeSetViewportImage }
func (RemoveViewportImage) Type() string        { return TypeRemoveViewportImage }
func (SwapViewports) Type() string              { return TypeSwapViewports }
func (SetViewportImagePosition) Type() string   { return TypeSetViewportImagePosition }
func (SetViewportImageSize) Type() string       { return TypeSetViewportImageSize }
func (IncrementViewportImageZoom) Type() string { return TypeIncrementViewportImageZoom }
func (RotateImage) Type() string                { return TypeRotateImage }
func (ToggleOrientation) Type() string          { return TypeToggleOrientation }
func (SetOrderMessage) Type() string            { return TypeSetOrderMessage }
func (AddImageSticker) Type() string            { return TypeAddImageSticker }
func (SetStickerSize) Type() string             { return TypeSetStickerSize }
func (SetStickerPosition) Type() string         { return TypeSetStickerPosition }
func (SetStickerRotation) Type() string         { return TypeSetStickerRotation }
func (SetStickerScale) Type() string            { return TypeSetStickerScale }
func (RemoveSticker) Type() string              { return TypeRemoveSticker }
func (BringStickerToTop) Type() string          { return TypeBringStickerToTop }
func (SetRenderedImage) Type() string           { return TypeSetRenderedImage }
func (SetStamp) Type() string                   { return TypeSetStamp }
func (SetMap) Type() string                     { return TypeSetMap }
func (SetFontID) Type() string                  { return TypeSetFontID }
func (SetFontAlignment) Type() string           { return TypeSetFontAlignment }
func (SetEditorTemplate) Type() string          { return TypeSetEditorTemplate }
func (SetMessageImage) Type() string            { return TypeSetMessageImage }
func (SetCaptionText) Type() string             { return TypeSetCaptionText }
func (SetFlowMetadata) Type() string            { return TypeSetFlowMetadata }
func (SwitchProductType) Type() string          { return TypeSwitchProductType }

func (SetViewportImage) action()           {}
func (RemoveViewportImage) action()        {}
func (SwapViewports) action()              {}
func (SetViewportImagePosition) action()   {}
func (SetViewportImageSize) action()       {}
func (IncrementViewportImageZoom) action() {}
func (RotateImage) action()                {}
func (ToggleOrientation) action()          {}
func (SetOrderMessage) action()            {}
func (AddImageSticker) action()            {}
func (SetStickerSize) action()             {}
func (SetStickerPosition) action()         {}
func (SetStickerRotation) action()         {}
func (SetStickerScale) action()            {}
func (RemoveSticker) action()              {}
func (BringStickerToTop) action()          {}
func (SetRenderedImage) action()           {}
func (SetStamp) action()                   {}
func (SetMap) action()                     {}
func (SetFontID) action()                  {}
func (SetFontAlignment) action()           {}
func (SetEditorTemplate) action()          {}
func (SetMessageImage) action()            {}
func (SetCaptionText) action()             {}
func (SetFlowMetadata) action()            {}
func (SwitchProductType) action()          {}

// WithTemplate fills in the template of zoom and rotate actions that were
// built without one, such as actions decoded from a job file.
func WithTemplate(a Action, rt *template.RenderTemplate) Action {
	switch a := a.(type) {
	case IncrementViewportImageZoom:
		if a.Template == nil {
			a.Template = rt
		}
		return a
	case RotateImage:
		if a.Template == nil {
			a.Template = rt
		}
		return a
	default:
		return a
	}
}
