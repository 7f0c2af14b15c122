package draft

import (
	"fmt"
	"slices"

	"card-editor/internal/placement"
	"card-editor/internal/template"

	"github.com/google/uuid"
)

// Reducer applies actions to drafts. NewID generates sticker ids.
type Reducer struct {
	NewID func() string
}

var defaultReducer = Reducer{NewID: uuid.NewString}

// Reduce applies a to d and returns the resulting draft. Actions that refer
// to a missing slot or sticker leave the draft unchanged. A nil or foreign
// action panics.
func Reduce(d EditorDraft, a Action) EditorDraft {
	next, changed := defaultReducer.Apply(d, a)
	if changed {
		reportCreated(a, next)
	}
	return next
}

// reportCreated hands the id of a freshly added sticker to the action's
// Created callback. The new sticker is always last.
func reportCreated(a Action, next EditorDraft) {
	add, ok := a.(AddImageSticker)
	if !ok || add.Created == nil || len(next.Stickers) == 0 {
		return
	}
	add.Created(next.Stickers[len(next.Stickers)-1].ID)
}

// Apply applies a to d and reports whether anything changed. Apply never
// calls back into the action; Reduce and Store report created ids.
func (r Reducer) Apply(d EditorDraft, a Action) (EditorDraft, bool) {
	if a == nil {
		panic("draft: nil action")
	}

	switch a := a.(type) {
	case SetViewportImage:
		if a.Index < 0 {
			return d, false
		}
		if cur, ok := d.ImageData.Get(a.Index); ok && cur.ImageURL == a.ImageURL {
			return d, false
		}
		d.ImageData = d.ImageData.set(a.Index, NewImagePlacement(a.ImageURL))

	case RemoveViewportImage:
		if _, ok := d.ImageData.Get(a.Index); !ok {
			return d, false
		}
		d.ImageData = d.ImageData.with(a.Index, nil)

	case SwapViewports:
		if a.A < 0 || a.B < 0 || a.A == a.B {
			return d, false
		}
		pa, okA := d.ImageData.Get(a.A)
		pb, okB := d.ImageData.Get(a.B)
		if !okA && !okB {
			return d, false
		}
		slots := d.ImageData.with(a.A, nil).with(a.B, nil)
		if okB {
			slots[a.A] = &pb
		}
		if okA {
			slots[a.B] = &pa
		}
		d.ImageData = slots

	case SetViewportImagePosition:
		p, ok := d.ImageData.Get(a.Index)
		if !ok {
			return d, false
		}
		p.X, p.Y = a.X, a.Y
		d.ImageData = d.ImageData.set(a.Index, p)

	case SetViewportImageSize:
		p, ok := d.ImageData.Get(a.Index)
		if !ok {
			return d, false
		}
		p.Width, p.Height = a.Width, a.Height
		d.ImageData = d.ImageData.set(a.Index, p)

	case IncrementViewportImageZoom:
		p, ok := placementInViewport(d, a.Index, a.Template)
		if !ok {
			return d, false
		}
		p.Zoom = placement.ClampZoom(p.Zoom + a.Increment)
		d.ImageData = d.ImageData.set(a.Index, p)

	case RotateImage:
		p, ok := placementInViewport(d, a.Index, a.Template)
		if !ok {
			return d, false
		}
		p.Rotate = placement.NormalizeRotation(p.Rotate + a.Degrees)
		d.ImageData = d.ImageData.set(a.Index, p)

	case ToggleOrientation:
		d.Orientation = d.Orientation.Toggle()

	case SetOrderMessage:
		d.OrderMessage = a.Message
		d.RenderedMessageURL = ""

	case AddImageSticker:
		id := a.ID
		if id == "" {
			id = r.newID()
		}
		d.Stickers = append(slices.Clip(d.Stickers), NewImageSticker(id, a.StickerURL))

	case SetStickerSize:
		return updateSticker(d, a.ID, func(s *Sticker) {
			s.Width, s.Height = floatPtr(a.Width), floatPtr(a.Height)
		})

	case SetStickerPosition:
		return updateSticker(d, a.ID, func(s *Sticker) {
			s.X, s.Y = a.X, a.Y
		})

	case SetStickerRotation:
		return updateSticker(d, a.ID, func(s *Sticker) {
			s.Rotation = a.Rotation
		})

	case SetStickerScale:
		return updateSticker(d, a.ID, func(s *Sticker) {
			s.Scale = a.Scale
		})

	case RemoveSticker:
		i := d.stickerIndex(a.ID)
		if i < 0 {
			return d, false
		}
		d.Stickers = slices.Delete(slices.Clone(d.Stickers), i, i+1)

	case BringStickerToTop:
		i := d.stickerIndex(a.ID)
		if i < 0 || i == len(d.Stickers)-1 {
			return d, false
		}
		s := d.Stickers[i]
		stickers := slices.Delete(slices.Clone(d.Stickers), i, i+1)
		d.Stickers = append(stickers, s)

	case SetRenderedImage:
		d.RenderedImageURL = a.ImageURL

	case SetStamp:
		d.StampURL = a.StampURL

	case SetMap:
		if a.Map == nil {
			d.Map = nil
		} else {
			m := *a.Map
			d.Map = &m
		}

	case SetFontID:
		d.FontID = a.FontID

	case SetFontAlignment:
		d.FontAlignment = a.Alignment

	case SetEditorTemplate:
		d.TemplateHandle = a.Handle

	case SetMessageImage:
		d.RenderedMessageURL = a.ImageURL

	case SetCaptionText:
		if a.Text == nil {
			d.CaptionText = nil
		} else {
			t := *a.Text
			d.CaptionText = &t
		}

	case SetFlowMetadata:
		d.FlowMetadata = FlowMetadata{
			MembershipIntroViewedForFeatures: slices.Clone(a.Metadata.MembershipIntroViewedForFeatures),
		}

	case SwitchProductType:
		d.ProductHandle = a.Product

	default:
		panic(fmt.Sprintf("draft: unknown action %T", a))
	}
	return d, true
}

func (r Reducer) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func placementInViewport(d EditorDraft, i int, rt *template.RenderTemplate) (ImagePlacement, bool) {
	p, ok := d.ImageData.Get(i)
	if !ok {
		return p, false
	}
	if _, ok := rt.Viewport(i); !ok {
		return p, false
	}
	return p, true
}

func updateSticker(d EditorDraft, id string, fn func(*Sticker)) (EditorDraft, bool) {
	i := d.stickerIndex(id)
	if i < 0 {
		return d, false
	}
	stickers := slices.Clone(d.Stickers)
	fn(&stickers[i])
	d.Stickers = stickers
	return d, true
}
