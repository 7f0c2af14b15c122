// Package export flattens a card scene into the raster sent to print.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	cardimage "card-editor/internal/image"
	"card-editor/internal/product"
	"card-editor/internal/render"
)

// ErrNotReady is returned when Export runs before the on-screen scale is
// known.
var ErrNotReady = errors.New("export: canvas scale not established")

// DefaultQuality is the highest JPEG quality.
const DefaultQuality = 100

// ContentType is the MIME type of exported rasters.
const ContentType = "image/jpeg"

// Options configures a Pipeline.
type Options struct {
	// Quality is the JPEG quality, 1-100. Zero means DefaultQuality.
	Quality     int
	// DeviceScale multiplies the output resolution. Zero means 1.
	DeviceScale float64
	Fonts       *render.Fonts
}

// Raster is an exported card face.
type Raster struct {
	Image image.Image
	JPEG  []byte
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.Image.Bounds().Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.Image.Bounds().Dy() }

// Pipeline renders scenes at print resolution.
type Pipeline struct {
	mu    sync.Mutex
	scale float64
	opts  Options
}

// NewPipeline creates a pipeline with no scale; Export fails until SetScale
// is called.
func NewPipeline(opts Options) *Pipeline {
	if opts.Quality == 0 {
		opts.Quality = DefaultQuality
	}
	if opts.DeviceScale <= 0 {
		opts.DeviceScale = 1
	}
	return &Pipeline{opts: opts}
}

// SetScale records the on-screen canvas scale. Non-positive values mark the
// pipeline not ready.
func (p *Pipeline) SetScale(scale float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scale = max(scale, 0)
}

// Ready reports whether a scale has been established.
func (p *Pipeline) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scale > 0
}

// PixelRatio is the factor applied to the on-screen canvas so exported
// pixels do not depend on the screen zoom.
func (p *Pipeline) PixelRatio() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scale <= 0 {
		return 0, ErrNotReady
	}
	return 1 / p.scale, nil
}

// Export renders scene without its selection decoration and returns a
// landscape raster. The selection on scene is restored before returning.
func (p *Pipeline) Export(ctx context.Context, scene *render.Scene) (*Raster, error) {
	ratio, err := p.PixelRatio()
	if err != nil {
		return nil, err
	}
	if scene == nil || scene.Template == nil {
		return nil, fmt.Errorf("export: no template")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	factor := p.scale * ratio * p.opts.DeviceScale
	p.mu.Unlock()

	prev := scene.Selection
	scene.Selection = render.Selection{}
	canvas := render.NewGGCanvas(scene.Template.Size, factor, p.opts.Fonts)
	render.Draw(canvas, *scene)
	scene.Selection = prev

	var img image.Image = canvas.Image()
	if scene.Template.Orientation == product.Portrait {
		if img, err = cardimage.Rotate(img, 270); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := cardimage.JPEGBytes(img, p.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	b := img.Bounds()
	log.Printf("export: rendered %dx%d raster (%d bytes)", b.Dx(), b.Dy(), len(data))
	return &Raster{Image: img, JPEG: data}, nil
}
