package render

import (
	"image"

	"card-editor/internal/draft"
	"card-editor/internal/message"
	"card-editor/internal/product"
	"card-editor/pkg/colorutil"
	"card-editor/pkg/geometry"
)

// Message layout as fractions of the face.
const (
	messageMargin      = 0.08
	messageLineSpacing = 1.2
)

// MessageOptions controls the back-of-card message raster.
type MessageOptions struct {
	Align draft.TextAlign

	// Handle selects the layout: postcards keep the right half free for the
	// address.
	Handle product.Handle
	Fonts  *Fonts
}

// MessageBox returns the area the message is laid out in.
func MessageBox(face geometry.Size, h product.Handle) geometry.Rect {
	box := face.Rect()
	if h == product.Postcard {
		box.Width /= 2
	}
	m := messageMargin * min(face.Width, face.Height)
	return box.Inset(m, m)
}

// MessageFontSize sizes the font so message.MaxLines lines fill box.
func MessageFontSize(box geometry.Rect) float64 {
	return box.Height / (message.MaxLines * messageLineSpacing)
}

// Message renders validated text onto a white raster of the given face size.
func Message(text string, face geometry.Size, opts MessageOptions) image.Image {
	c := NewGGCanvas(face, 1, opts.Fonts)
	c.Clear(colorutil.White)
	text = message.Validate(text)
	if text == "" {
		return c.Image()
	}
	box := MessageBox(face, opts.Handle)
	c.DrawText(text, box, TextStyle{
		Color:       colorutil.Black,
		Size:        MessageFontSize(box),
		Align:       textAlign(opts.Align),
		LineSpacing: messageLineSpacing,
	})
	return c.Image()
}

func textAlign(a draft.TextAlign) Align {
	switch a {
	case draft.AlignCenter:
		return AlignCenter
	case draft.AlignRight:
		return AlignRight
	default:
		return AlignLeft
	}
}
