package draft_test

import (
	"errors"
	"testing"

	"card-editor/internal/draft"
	"card-editor/internal/product"

	"github.com/google/go-cmp/cmp"
)

func TestNewFromTheme(t *testing.T) {
	theme := draft.Theme{
		ThemeID:        "theme-1",
		TemplateHandle: "quad",
		Illustrations: []*draft.ThemeIllustration{
			{ID: "ill-a", ViewportIndex: 2},
			nil,
			{ID: "ill-c", ViewportIndex: 0},
		},
	}
	ills := []*draft.Illustration{
		{ID: "ill-a", ProductAssetURL: "https://cdn/a.jpg"},
		nil,
		{ID: "ill-c", ProductAssetURL: "https://cdn/c.jpg"},
	}
	d, err := draft.NewFromTheme(theme, ills, product.GreetingCard, product.Portrait)
	if err != nil {
		t.Fatalf("NewFromTheme: %v", err)
	}
	if d.DraftID == "" || d.FontID != "Montserrat_Medium" || d.FontAlignment != draft.AlignLeft {
		t.Errorf("defaults wrong: %+v", d)
	}
	if d.InitialThemeID != "theme-1" || d.TemplateHandle != "quad" || d.Orientation != product.Portrait {
		t.Errorf("theme fields wrong: %+v", d)
	}
	if d.ImageData.Len() != 3 || d.ImageData.Filled() != 2 {
		t.Errorf("slots = %d filled of %d", d.ImageData.Filled(), d.ImageData.Len())
	}
	p, ok := d.ImageData.Get(2)
	if !ok || p.ImageURL != "https://cdn/a.jpg" || p.IllustrationID != "ill-a" || p.Zoom != 1 {
		t.Errorf("slot 2 = %+v", p)
	}
}

func TestNewFromThemeMissingIllustration(t *testing.T) {
	theme := draft.Theme{Illustrations: []*draft.ThemeIllustration{{ID: "x", ViewportIndex: 0}}}
	_, err := draft.NewFromTheme(theme, nil, product.Postcard, product.Landscape)
	if !errors.Is(err, draft.ErrMissingIllustration) {
		t.Errorf("err = %v, want ErrMissingIllustration", err)
	}
}

func TestToProductRequiresRender(t *testing.T) {
	_, err := draft.ToProduct(emptyDraft(), product.DefaultCatalog(), draft.OrderOptions{})
	if !errors.Is(err, draft.ErrNotRendered) {
		t.Errorf("err = %v, want ErrNotRendered", err)
	}
}

func TestToProductGreetingCard(t *testing.T) {
	d := emptyDraft()
	d.ProductHandle = product.GreetingCard
	d.Orientation = product.Portrait
	d.InitialThemeID = "theme-9"
	d.OrderMessage = "  Happy birthday!\n "
	d.RenderedImageURL = "https://cdn/front.jpg"
	d.RenderedMessageURL = "https://cdn/msg.jpg"
	d.StampURL = "https://cdn/stamp.png"
	d.Map = &draft.MapInfo{MapURL: "https://cdn/map.png", Place: "Lisbon", Date: "12 May", Latitude: 38.7, Longitude: -9.1}
	d.ImageData = draft.ImageSlots{
		{ImageURL: "u1", IllustrationID: "ill-1"},
		nil,
		{ImageURL: "upload.jpg"},
		{ImageURL: "u3", IllustrationID: "ill-3"},
	}

	got, err := draft.ToProduct(d, product.DefaultCatalog(), draft.OrderOptions{UnlimitedMember: true, RemoveStamp: true})
	if err != nil {
		t.Fatalf("ToProduct: %v", err)
	}

	want := draft.OrderedProduct{
		ThemeID:         "theme-9",
		IllustrationIDs: []string{"ill-1", "ill-3"},
		ProductOptions: []draft.ProductOption{
			{VariantID: draft.OptionGCTextLayout},
			{VariantID: draft.OptionGCInsideWhite},
			{VariantID: draft.OptionUnlimitedEnvelope},
		},
		OrderMessage:  []draft.OrderMessage{{Text: "Happy birthday!", Font: "Montserrat_Medium"}},
		Orientation:   "Portrait",
		ProductID:     product.GreetingCardProduct().ID,
		ProductImages: []string{"https://cdn/front.jpg"},
		Quantity:      1,
		AdditionalImages: draft.AdditionalImages{
			MapURL: "https://cdn/map.png",
		},
		Geolocation: &draft.Geolocation{
			MapCaption: "This photo was taken on 12 May in Lisbon",
			Latitude:   38.7,
			Longitude:  -9.1,
		},
		OrderMessageImageURL: "https://cdn/msg.jpg",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToProduct mismatch (-want +got):\n%s", diff)
	}
}

func TestToProductPostcardKeepsStamp(t *testing.T) {
	d := emptyDraft()
	d.RenderedImageURL = "r.jpg"
	d.StampURL = "stamp.png"
	got, err := draft.ToProduct(d, product.DefaultCatalog(), draft.OrderOptions{UnlimitedMember: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ProductOptions) != 0 {
		t.Errorf("postcards have no options, got %+v", got.ProductOptions)
	}
	if got.AdditionalImages.StampURL != "stamp.png" || got.Orientation != "Landscape" {
		t.Errorf("got %+v", got)
	}
}

func TestMapCaption(t *testing.T) {
	if got := draft.MapCaption(draft.MapInfo{Place: "Paris"}); got != "This photo was taken in Paris" {
		t.Errorf("MapCaption = %q", got)
	}
}
