package render

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts hands out font faces of one typeface at any size.
type Fonts struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// DefaultFonts returns Go Regular.
func DefaultFonts() (*Fonts, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse default font: %w", err)
	}
	return newFonts(f), nil
}

// LoadFonts reads a TrueType or OpenType file.
func LoadFonts(path string) (*Fonts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return newFonts(f), nil
}

func newFonts(f *opentype.Font) *Fonts {
	return &Fonts{font: f, faces: make(map[float64]font.Face)}
}

// Face returns a face of the given size in canvas units.
func (f *Fonts) Face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.faces[size] = face
	return face, nil
}
