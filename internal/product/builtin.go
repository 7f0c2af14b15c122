package product

// Built-in print dimensions, in pixels at 300 DPI including bleed.
//
// Postcard: 6" x 4" trimmed.
// Greeting card: 7" x 5" trimmed, printed flat per face.

const (
	postcardID     = "4d7c6bbd-53a4-4c8c-9a4f-2a0c0b9f3d11"
	greetingCardID = "a1f0d5e2-7c55-4f39-8d0e-6b3e2c7f9a42"
)

// PostcardProduct returns the built-in postcard definition.
func PostcardProduct() *Product {
	return &Product{
		Handle:  Postcard,
		ID:      postcardID,
		Name:    "Postcard",
		Front:   Dimensions{LongSide: 1872, ShortSide: 1272},
		Message: Dimensions{LongSide: 1800, ShortSide: 1200},
	}
}

// GreetingCardProduct returns the built-in greeting card definition.
func GreetingCardProduct() *Product {
	return &Product{
		Handle:  GreetingCard,
		ID:      greetingCardID,
		Name:    "Greeting Card",
		Front:   Dimensions{LongSide: 2172, ShortSide: 1572},
		Message: Dimensions{LongSide: 2100, ShortSide: 1500},
	}
}
