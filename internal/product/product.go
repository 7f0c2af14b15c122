// Package product defines the physical card products and their print dimensions.
package product

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"card-editor/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// ErrUnknownProduct is returned when a handle is not in the catalog.
var ErrUnknownProduct = errors.New("unknown product")

// Handle identifies a product type.
type Handle string

const (
	Postcard     Handle = "PC"
	GreetingCard Handle = "GC"
)

// Orientation of a card face.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Portrait {
		return Landscape
	}
	return Portrait
}

// Valid reports whether o is landscape or portrait.
func (o Orientation) Valid() bool {
	return o == Landscape || o == Portrait
}

// Face is a printable side of a card.
type Face string

const (
	FaceFront   Face = "front"
	FaceBack    Face = "back"
	FaceMessage Face = "message"
)

// Dimensions are physical pixel dimensions independent of orientation.
type Dimensions struct {
	LongSide  float64 `json:"longSide" yaml:"longSide"`
	ShortSide float64 `json:"shortSide" yaml:"shortSide"`
}

// Landscape returns the canvas size with the long side horizontal.
func (d Dimensions) Landscape() geometry.Size {
	return geometry.Size{Width: d.LongSide, Height: d.ShortSide}
}

// Portrait returns the canvas size with the long side vertical.
func (d Dimensions) Portrait() geometry.Size {
	return geometry.Size{Width: d.ShortSide, Height: d.LongSide}
}

// Oriented returns the canvas size for an orientation.
func (d Dimensions) Oriented(o Orientation) geometry.Size {
	if o == Portrait {
		return d.Portrait()
	}
	return d.Landscape()
}

// Product describes one physical card product.
type Product struct {
	Handle  Handle     `json:"handle" yaml:"handle"`
	ID      string     `json:"id" yaml:"id"`
	Name    string     `json:"name" yaml:"name"`
	Front   Dimensions `json:"frontImageDimensions" yaml:"frontImageDimensions"`
	Message Dimensions `json:"messageImageDimensions" yaml:"messageImageDimensions"`
}

// Validate checks that the product is usable for layout.
func (p *Product) Validate() error {
	if p.Handle == "" {
		return fmt.Errorf("product handle is required")
	}
	if p.ID == "" {
		return fmt.Errorf("product %s: id is required", p.Handle)
	}
	for _, d := range []Dimensions{p.Front, p.Message} {
		if d.LongSide <= 0 || d.ShortSide <= 0 {
			return fmt.Errorf("product %s: dimensions must be positive", p.Handle)
		}
		if d.ShortSide > d.LongSide {
			return fmt.Errorf("product %s: short side %.0f exceeds long side %.0f", p.Handle, d.ShortSide, d.LongSide)
		}
	}
	return nil
}

// FaceSize returns the canvas size of a face. The back and message faces of a
// postcard, and of any landscape card, are always landscape.
func (p *Product) FaceSize(o Orientation, face Face) geometry.Size {
	switch face {
	case FaceBack:
		if o == Landscape || p.Handle == Postcard {
			return p.Front.Landscape()
		}
		return p.Front.Portrait()
	case FaceMessage:
		if o == Landscape || p.Handle == Postcard {
			return p.Message.Landscape()
		}
		return p.Message.Portrait()
	default:
		return p.Front.Oriented(o)
	}
}

// Catalog is a set of products keyed by handle.
type Catalog struct {
	products map[Handle]*Product
}

// NewCatalog creates a catalog from the given products.
func NewCatalog(products ...*Product) *Catalog {
	c := &Catalog{products: make(map[Handle]*Product)}
	for _, p := range products {
		c.Register(p)
	}
	return c
}

// DefaultCatalog returns the built-in postcard and greeting card products.
func DefaultCatalog() *Catalog {
	return NewCatalog(PostcardProduct(), GreetingCardProduct())
}

// Register adds or replaces a product.
func (c *Catalog) Register(p *Product) {
	c.products[p.Handle] = p
}

// Get returns the product for a handle.
func (c *Catalog) Get(h Handle) (*Product, error) {
	if p, ok := c.products[h]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, h)
}

// Handles returns all registered handles in sorted order.
func (c *Catalog) Handles() []Handle {
	handles := make([]Handle, 0, len(c.products))
	for h := range c.products {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// catalogFile is the on-disk form of a catalog.
type catalogFile struct {
	Products []*Product `json:"products" yaml:"products"`
}

// LoadCatalog reads a JSON or YAML product file on top of the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse product catalog: %w", err)
	}

	c := DefaultCatalog()
	for _, p := range f.Products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid product catalog: %w", err)
		}
		c.Register(p)
	}
	return c, nil
}
