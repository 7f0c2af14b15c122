// Package image loads card assets into bitmaps and provides the raster
// operations used by rendering and export.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"card-editor/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotLoaded is returned when a bitmap is requested before it resolved.
	ErrNotLoaded = errors.New("image not loaded")
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("image has no pixels")
)

// Bitmap is a decoded asset together with the URL it was loaded from.
type Bitmap struct {
	URL    string
	Format string
	Image  image.Image
}

// Decode reads an image in any registered format. Images with zero width
// or height are rejected with ErrEmptyImage.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("%s: %w", format, ErrEmptyImage)
	}
	return img, format, nil
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Empty reports whether the bitmap has no pixels to draw.
func (b *Bitmap) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Size returns the bitmap dimensions.
func (b *Bitmap) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(b.Width()),
		Height: float64(b.Height()),
	}
}
