// Package template resolves relative card templates into absolute canvas geometry.
package template

import (
	"errors"
	"fmt"
	"math"

	"card-editor/internal/product"
)

// ErrInvalidTemplate is returned when a template definition is missing
// fields required to lay out the requested orientation.
var ErrInvalidTemplate = errors.New("invalid template")

// Frame is a relative rectangle: x, y, width, height as fractions of the
// enclosing area.
type Frame [4]float64

// X returns the left edge fraction.
func (f Frame) X() float64 { return f[0] }

// Y returns the top edge fraction.
func (f Frame) Y() float64 { return f[1] }

// W returns the width fraction.
func (f Frame) W() float64 { return f[2] }

// H returns the height fraction.
func (f Frame) H() float64 { return f[3] }

func (f Frame) valid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return f.W() > 0 && f.H() > 0
}

// Frames holds one relative frame per orientation.
type Frames struct {
	Landscape Frame `json:"landscape" yaml:"landscape"`
	Portrait  Frame `json:"portrait" yaml:"portrait"`
}

// For returns the frame for an orientation.
func (f Frames) For(o product.Orientation) Frame {
	if o == product.Portrait {
		return f.Portrait
	}
	return f.Landscape
}

// Viewports holds the relative viewport list per orientation.
type Viewports struct {
	Landscape []Frame `json:"landscape" yaml:"landscape"`
	Portrait  []Frame `json:"portrait" yaml:"portrait"`
}

// For returns the viewports for an orientation.
func (v Viewports) For(o product.Orientation) []Frame {
	if o == product.Portrait {
		return v.Portrait
	}
	return v.Landscape
}

// CaptionDefinition describes an optional caption box.
type CaptionDefinition struct {
	// OutsideFrame positions the caption image relative to the canvas.
	OutsideFrame Frames `json:"outsideFrame" yaml:"outsideFrame"`
	// TextFrame positions the text relative to the caption image.
	TextFrame Frames `json:"textFrame" yaml:"textFrame"`

	ImageLandscape string  `json:"renderLandscape" yaml:"renderLandscape"`
	ImagePortrait  string  `json:"renderPortrait" yaml:"renderPortrait"`
	Color          string  `json:"color" yaml:"color"`
	FontSize       float64 `json:"fontSize" yaml:"fontSize"`
}

// Image returns the caption image asset for an orientation.
func (c *CaptionDefinition) Image(o product.Orientation) string {
	if o == product.Portrait {
		return c.ImagePortrait
	}
	return c.ImageLandscape
}

// Definition is a template as authored: every measurement is relative.
type Definition struct {
	ID     string `json:"templateId" yaml:"templateId"`
	Handle string `json:"handle" yaml:"handle"`

	Viewports Viewports `json:"viewports" yaml:"viewports"`

	// Bleed fractions of the physical long and short sides.
	BleedLargerSide  float64 `json:"bleedLargerSide" yaml:"bleedLargerSide"`
	BleedSmallerSide float64 `json:"bleedSmallerSide" yaml:"bleedSmallerSide"`

	FrameLandscape string `json:"frameRenderLandscape,omitempty" yaml:"frameRenderLandscape,omitempty"`
	FramePortrait  string `json:"frameRenderPortrait,omitempty" yaml:"frameRenderPortrait,omitempty"`

	Captions []CaptionDefinition `json:"captions,omitempty" yaml:"captions,omitempty"`
}

// Frame returns the frame overlay asset for an orientation, or "".
func (d *Definition) Frame(o product.Orientation) string {
	if o == product.Portrait {
		return d.FramePortrait
	}
	return d.FrameLandscape
}

// Caption returns the first caption definition, or nil.
func (d *Definition) Caption() *CaptionDefinition {
	if len(d.Captions) == 0 {
		return nil
	}
	return &d.Captions[0]
}

// Validate checks the fields needed to lay the template out in orientation o.
func (d *Definition) Validate(o product.Orientation) error {
	if d.Handle == "" {
		return fmt.Errorf("%w: handle is required", ErrInvalidTemplate)
	}
	if !o.Valid() {
		return fmt.Errorf("%w: %s: unknown orientation %q", ErrInvalidTemplate, d.Handle, o)
	}
	vps := d.Viewports.For(o)
	if len(vps) == 0 {
		return fmt.Errorf("%w: %s: no %s viewports", ErrInvalidTemplate, d.Handle, o)
	}
	for i, vp := range vps {
		if !vp.valid() {
			return fmt.Errorf("%w: %s: %s viewport %d has bad frame %v", ErrInvalidTemplate, d.Handle, o, i, vp)
		}
	}
	if d.BleedLargerSide < 0 || d.BleedSmallerSide < 0 || d.BleedLargerSide >= 0.5 || d.BleedSmallerSide >= 0.5 {
		return fmt.Errorf("%w: %s: bleed out of range", ErrInvalidTemplate, d.Handle)
	}
	if c := d.Caption(); c != nil {
		if !c.OutsideFrame.For(o).valid() || !c.TextFrame.For(o).valid() {
			return fmt.Errorf("%w: %s: caption frame missing for %s", ErrInvalidTemplate, d.Handle, o)
		}
		if c.FontSize <= 0 {
			return fmt.Errorf("%w: %s: caption font size must be positive", ErrInvalidTemplate, d.Handle)
		}
	}
	return nil
}
