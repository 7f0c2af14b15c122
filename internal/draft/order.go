package draft

import (
	"errors"
	"strings"

	"card-editor/internal/product"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotRendered is returned when an order is assembled before the card
// has been exported.
var ErrNotRendered = errors.New("card has not been rendered")

// Greeting card option variants.
const (
	OptionGCTextLayout      = "dbf61cb4-6453-4ab7-b5b3-85d9624e6441"
	OptionGCInsideWhite     = "88afd782-7bcb-4a4c-ac63-022bff9c1171"
	OptionUnlimitedEnvelope = "14e6c510-ded9-4eab-b908-16a299e5acf6"
)

// OrderMessage is one block of the inside message.
type OrderMessage struct {
	Text string `json:"text"`
	Font string `json:"font"`
}

// ProductOption selects a product option variant.
type ProductOption struct {
	VariantID string `json:"productOptionVariantId"`
}

// Geolocation accompanies a map image.
type Geolocation struct {
	MapCaption string  `json:"mapCaption"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// AdditionalImages are printed alongside the card face.
type AdditionalImages struct {
	StampURL string `json:"stampUrl,omitempty"`
	MapURL   string `json:"mapUrl,omitempty"`
}

// OrderedProduct is the checkout line for a finished draft.
type OrderedProduct struct {
	AdditionalImages     AdditionalImages `json:"additionalImages"`
	ThemeID              string           `json:"themeId"`
	IllustrationIDs      []string         `json:"illustrationIds"`
	ProductOptions       []ProductOption  `json:"productOptions"`
	OrderMessage         []OrderMessage   `json:"orderMessage"`
	Orientation          string           `json:"orientation"`
	ProductID            string           `json:"productId"`
	ProductImages        []string         `json:"productImages"`
	Quantity             int              `json:"quantity"`
	Sender               string           `json:"sender"`
	Geolocation          *Geolocation     `json:"geolocation,omitempty"`
	OrderMessageImageURL string           `json:"orderMessageImageUrl,omitempty"`
}

// OrderOptions are the account settings that affect an order.
type OrderOptions struct {
	UnlimitedMember bool
	RemoveStamp     bool
}

// ToProduct assembles the checkout line for d.
func ToProduct(d EditorDraft, catalog *product.Catalog, opts OrderOptions) (OrderedProduct, error) {
	if d.RenderedImageURL == "" {
		return OrderedProduct{}, ErrNotRendered
	}
	p, err := catalog.Get(d.ProductHandle)
	if err != nil {
		return OrderedProduct{}, err
	}

	op := OrderedProduct{
		ThemeID:         d.InitialThemeID,
		IllustrationIDs: []string{},
		ProductOptions:  []ProductOption{},
		OrderMessage: []OrderMessage{{
			Text: strings.TrimSpace(d.OrderMessage),
			Font: d.FontID,
		}},
		Orientation:   cases.Title(language.English).String(string(d.Orientation)),
		ProductID:     p.ID,
		ProductImages: []string{d.RenderedImageURL},
		Quantity:      1,
	}

	d.ImageData.Each(func(_ int, ip *ImagePlacement) {
		if ip != nil && ip.IllustrationID != "" {
			op.IllustrationIDs = append(op.IllustrationIDs, ip.IllustrationID)
		}
	})

	if d.ProductHandle == product.GreetingCard {
		op.ProductOptions = append(op.ProductOptions,
			ProductOption{VariantID: OptionGCTextLayout},
			ProductOption{VariantID: OptionGCInsideWhite},
		)
		if opts.UnlimitedMember {
			op.ProductOptions = append(op.ProductOptions, ProductOption{VariantID: OptionUnlimitedEnvelope})
		}
	}

	if d.StampURL != "" && !opts.RemoveStamp {
		op.AdditionalImages.StampURL = d.StampURL
	}

	if d.Map != nil {
		op.AdditionalImages.MapURL = d.Map.MapURL
		op.Geolocation = &Geolocation{
			MapCaption: MapCaption(*d.Map),
			Latitude:   d.Map.Latitude,
			Longitude:  d.Map.Longitude,
		}
	}

	op.OrderMessageImageURL = d.RenderedMessageURL
	return op, nil
}

// MapCaption describes where, and when if known, a photo was taken.
func MapCaption(m MapInfo) string {
	if m.Date == "" {
		return "This photo was taken in " + m.Place
	}
	return "This photo was taken on " + m.Date + " in " + m.Place
}
