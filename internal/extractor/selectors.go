package extractor

// Selectors contains the CSS selectors for the kv.ee markup. Centralizing
// them keeps site redesigns a one-place change.
type Selectors struct {
	// Results page
	Card       string
	Link       string
	Title      string
	Price      string
	PricePerM2 string
	Area       string
	Rooms      string
	Location   string
	Excerpt    string
	Overlay    string
	Heading    string

	// Detail page
	DetailTitle    string
	DetailPrice    string
	DetailLocation string
	CanonicalLink  string
	MetaRow        string
	MetaLabel      string
	MetaValue      string

	// Attribute on a card carrying the listing identifier
	IDAttr string
}

// DefaultSelectors returns the selectors for the current kv.ee markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:       "article.object-item, div.object-item",
		Link:       "a.object-title-a, h2 a",
		Title:      "h2, .object-title",
		Price:      ".object-price, .price",
		PricePerM2: ".object-m2-price, .price-per-m2",
		Area:       ".object-m2, .area",
		Rooms:      ".object-rooms, .rooms",
		Location:   ".object-address, .address",
		Excerpt:    ".object-excerpt, .excerpt",
		Overlay:    ".object-overlay, .sold-overlay, .booked",
		Heading:    "h2.section-title, h3.section-title",

		DetailTitle:    "h1",
		DetailPrice:    ".object-price, .price",
		DetailLocation: ".object-address, .address",
		CanonicalLink:  "link[rel='canonical']",
		MetaRow:        "table.object-data-meta tr, .meta-table tr",
		MetaLabel:      "th",
		MetaValue:      "td",

		IDAttr: "data-object-id",
	}
}
