package draft

import (
	"errors"
	"fmt"

	"card-editor/internal/product"

	"github.com/google/uuid"
)

// ErrMissingIllustration is returned when a theme references an
// illustration that was not supplied.
var ErrMissingIllustration = errors.New("missing illustration")

// ThemeIllustration assigns an illustration to a viewport.
type ThemeIllustration struct {
	ID            string `json:"id" yaml:"id"`
	ViewportIndex int    `json:"viewportIndex" yaml:"viewportIndex"`
}

// Theme is the seed a draft is created from.
type Theme struct {
	ThemeID        string `json:"themeId" yaml:"themeId"`
	TemplateHandle string `json:"templateHandle" yaml:"templateHandle"`
	// Illustrations may contain nil entries for unassigned positions.
	Illustrations []*ThemeIllustration `json:"illustrations" yaml:"illustrations"`
}

// Illustration is the asset data for a theme illustration.
type Illustration struct {
	ID              string `json:"id" yaml:"id"`
	ProductAssetURL string `json:"productAssetUrl" yaml:"productAssetUrl"`
}

// NewFromTheme creates a draft from a theme. illustrations[i] supplies the
// asset for theme.Illustrations[i].
func NewFromTheme(theme Theme, illustrations []*Illustration, handle product.Handle, o product.Orientation) (EditorDraft, error) {
	d := EditorDraft{
		ProductHandle:  handle,
		DraftID:        uuid.NewString(),
		InitialThemeID: theme.ThemeID,
		TemplateHandle: theme.TemplateHandle,
		FontID:         DefaultFontID,
		FontAlignment:  AlignLeft,
		Orientation:    o,
		FlowMetadata:   DefaultFlowMetadata(),
		Stickers:       []Sticker{},
	}

	for i, ti := range theme.Illustrations {
		if ti == nil {
			continue
		}
		if i >= len(illustrations) || illustrations[i] == nil {
			return EditorDraft{}, fmt.Errorf("%w: no illustration for id %s", ErrMissingIllustration, ti.ID)
		}
		if ti.ViewportIndex < 0 {
			return EditorDraft{}, fmt.Errorf("illustration %s: negative viewport index %d", ti.ID, ti.ViewportIndex)
		}
		p := NewImagePlacement(illustrations[i].ProductAssetURL)
		p.IllustrationID = ti.ID
		d.ImageData = d.ImageData.set(ti.ViewportIndex, p)
	}
	return d, nil
}
