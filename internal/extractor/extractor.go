package extractor

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kvpet/listingworker/internal/listing"
	apperr "kvpet/listingworker/pkg/errors"
)

// DocumentKind tags the kind of page handed to the extractor.
type DocumentKind int

const (
	ResultsPage DocumentKind = iota
	DetailPage
)

// Result is the outcome of one extraction pass. Dropped counts cards that
// were present but lacked identifier, URL or price; Warnings carry the
// per-card reasons so the caller can surface them.
type Result struct {
	Listings []listing.Listing
	Dropped  int
	Warnings []string
}

// Config configures an Extractor.
type Config struct {
	BaseURL   string
	DealKind  listing.DealKind
	Selectors Selectors
	Lexicon   Lexicon
}

// Extractor turns one fetched kv.ee document into typed listing records.
// It holds no mutable state; every Extract call is independent.
type Extractor struct {
	cfg Config
}

// New creates an extractor. A zero Selectors or Lexicon falls back to the
// production defaults.
func New(cfg Config) *Extractor {
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}
	if cfg.Lexicon.Condition == nil && cfg.Lexicon.Material == nil {
		cfg.Lexicon = DefaultLexicon()
	}
	if cfg.DealKind == "" {
		cfg.DealKind = listing.DealSale
	}
	return &Extractor{cfg: cfg}
}

var idFromURLRe = regexp.MustCompile(`/(\d+)\.html|[?&]id=(\d+)`)

// IDFromURL extracts the stable listing identifier from a kv.ee URL,
// either the "/3366713.html" or the legacy "?id=3366713" form.
func IDFromURL(url string) string {
	m := idFromURLRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// Extract parses one document and returns the listing candidates found in
// it. It fails only when the input is not recognizably an HTML document;
// malformed cards degrade to the Dropped count and zero cards is a valid
// empty result.
func (e *Extractor) Extract(r io.Reader, kind DocumentKind) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.NewParsing("extractor", "reading document", err)
	}
	if !looksLikeHTML(data) {
		return nil, apperr.NewParsing("extractor", "input is not an HTML document", nil)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.NewParsing("extractor", "parsing document", err)
	}

	if kind == DetailPage {
		return e.extractDetail(doc), nil
	}
	return e.extractResults(doc), nil
}

// looksLikeHTML is a cheap structural sanity check: the parser itself
// accepts any byte soup, so "not a document at all" has to be caught
// before it collapses into "zero listings found".
func looksLikeHTML(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	i := bytes.IndexByte(trimmed, '<')
	return i >= 0 && i+1 < len(trimmed)
}

// extractResults walks the results page. Cards and recommended-section
// headings are visited in one document-order pass that yields a cut
// index; everything from the first matching heading onward belongs to the
// recommended block and is excluded. Without such a heading the cut never
// triggers and the output is identical to a page with no section at all.
func (e *Extractor) extractResults(doc *goquery.Document) *Result {
	sel := e.cfg.Selectors

	var cards []*goquery.Selection
	cut := -1
	doc.Find(sel.Card + ", " + sel.Heading).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Is(sel.Card) {
			cards = append(cards, s)
			return true
		}
		if e.cfg.Lexicon.IsRecommendedHeading(s.Text()) {
			cut = len(cards)
			return false
		}
		return true
	})
	if cut >= 0 {
		cards = cards[:cut]
	}

	res := &Result{}
	for i, card := range cards {
		l, reason := e.processCard(card)
		if l == nil {
			res.Dropped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("card %d: %s", i, reason))
			continue
		}
		res.Listings = append(res.Listings, *l)
	}
	return res
}

// processCard extracts one listing from a results-page card. It returns
// nil with a reason when the card lacks a required field.
func (e *Extractor) processCard(s *goquery.Selection) (*listing.Listing, string) {
	sel := e.cfg.Selectors

	href := ""
	if link := s.Find(sel.Link).First(); link.Length() > 0 {
		href, _ = link.Attr("href")
		href = strings.TrimSpace(href)
	}
	id, _ := s.Attr(sel.IDAttr)
	id = strings.TrimSpace(id)

	switch {
	case id == "" && href == "":
		return nil, "no identifier and no link"
	case id == "":
		id = IDFromURL(href)
		if id == "" {
			return nil, "no identifier in link " + href
		}
	case href == "":
		href = "/" + id + ".html"
	}
	url := e.resolveURL(href)

	price, ok := ParsePrice(s.Find(sel.Price).First().Text())
	if !ok {
		return nil, "unparsable price for " + id
	}

	l := &listing.Listing{
		ID:       id,
		URL:      url,
		Title:    strings.TrimSpace(s.Find(sel.Title).First().Text()),
		DealKind: e.cfg.DealKind,
		Price:    price,
		Status:   listing.StatusActive,
	}

	if v, ok := ParseDecimal(s.Find(sel.Area).First().Text()); ok {
		l.AreaM2 = &v
	}
	if v, ok := ParseDecimal(s.Find(sel.PricePerM2).First().Text()); ok {
		l.PricePerM2 = &v
	}
	if v, ok := ParseInt(s.Find(sel.Rooms).First().Text()); ok {
		l.Rooms = &v
	}

	l.Location = strings.TrimSpace(s.Find(sel.Location).First().Text())
	l.County, l.City, l.District = SplitLocation(l.Location)

	e.scanExcerpt(l, s.Find(sel.Excerpt).Text())

	if l.PricePerM2 == nil && l.AreaM2 != nil && *l.AreaM2 > 0 {
		ppm := float64(l.Price) / *l.AreaM2
		l.PricePerM2 = &ppm
	}

	if e.cfg.Lexicon.IsReservation(s.Find(sel.Overlay).Text()) {
		l.Status = listing.StatusReserved
	}
	return l, ""
}

// scanExcerpt recovers unstructured attributes from a card's free-text
// excerpt via the bilingual lexicon. Unrecognized text leaves the field
// absent; nothing is guessed.
func (e *Extractor) scanExcerpt(l *listing.Listing, excerpt string) {
	excerpt = strings.TrimSpace(excerpt)
	if excerpt == "" {
		return
	}
	lex := e.cfg.Lexicon

	if v, ok := lex.Condition.Match(excerpt); ok && l.Condition == "" {
		l.Condition = v
	}
	if v, ok := lex.Material.Match(excerpt); ok && l.Material == "" {
		l.Material = v
	}
	if v, ok := lex.PropertyType.Match(excerpt); ok && l.PropertyType == "" {
		l.PropertyType = v
	}
	if l.BuildYear == nil && containsAny(excerpt, lex.BuildYearLabels) {
		if y, ok := ParseYear(excerpt); ok {
			l.BuildYear = &y
		}
	}
	if l.Floor == nil && containsAny(excerpt, lex.FloorLabels) {
		l.Floor, l.TotalFloors = ParseFloorPair(excerpt)
	}
}

// extractDetail extracts the single listing a detail page describes. The
// labeled meta-table is authoritative for condition and energy
// certificate and overrides anything the excerpt heuristics produced.
func (e *Extractor) extractDetail(doc *goquery.Document) *Result {
	sel := e.cfg.Selectors
	lex := e.cfg.Lexicon
	res := &Result{}

	href, _ := doc.Find(sel.CanonicalLink).Attr("href")
	if href == "" && doc.Url != nil {
		href = doc.Url.String()
	}
	id := IDFromURL(href)
	if id == "" {
		res.Dropped++
		res.Warnings = append(res.Warnings, "detail page: no identifier in "+href)
		return res
	}

	price, ok := ParsePrice(doc.Find(sel.DetailPrice).First().Text())
	if !ok {
		res.Dropped++
		res.Warnings = append(res.Warnings, "detail page: unparsable price for "+id)
		return res
	}

	l := &listing.Listing{
		ID:       id,
		URL:      e.resolveURL(href),
		Title:    strings.TrimSpace(doc.Find(sel.DetailTitle).First().Text()),
		DealKind: e.cfg.DealKind,
		Price:    price,
		Status:   listing.StatusActive,
	}
	l.Location = strings.TrimSpace(doc.Find(sel.DetailLocation).First().Text())
	l.County, l.City, l.District = SplitLocation(l.Location)

	e.scanExcerpt(l, doc.Find(sel.Excerpt).Text())

	doc.Find(sel.MetaRow).Each(func(_ int, row *goquery.Selection) {
		label := row.Find(sel.MetaLabel).Text()
		value := strings.TrimSpace(row.Find(sel.MetaValue).Text())
		if value == "" {
			return
		}
		switch {
		case lex.IsReservation(label) || lex.IsReservation(value):
			l.Status = listing.StatusReserved
			if v, ok := lex.Condition.Match(value); ok {
				l.Condition = v
			}
		case containsAny(label, lex.ConditionLabels):
			if v, ok := lex.Condition.Match(value); ok {
				l.Condition = v
			}
		case containsAny(label, lex.EnergyLabels):
			if c, ok := energyClass(value); ok {
				l.EnergyCert = c
			}
		case containsAny(label, lex.MaterialLabels):
			if v, ok := lex.Material.Match(value); ok {
				l.Material = v
			}
		case containsAny(label, lex.BuildYearLabels):
			if y, ok := ParseYear(value); ok {
				l.BuildYear = &y
			}
		case containsAny(label, lex.RoomsLabels):
			if v, ok := ParseInt(value); ok {
				l.Rooms = &v
			}
		case containsAny(label, lex.FloorLabels):
			if f, t := ParseFloorPair(value); f != nil {
				l.Floor, l.TotalFloors = f, t
			}
		}
	})

	if area, ok := ParseDecimal(doc.Find(sel.Area).First().Text()); ok {
		l.AreaM2 = &area
	}
	if l.PricePerM2 == nil && l.AreaM2 != nil && *l.AreaM2 > 0 {
		ppm := float64(l.Price) / *l.AreaM2
		l.PricePerM2 = &ppm
	}

	if e.cfg.Lexicon.IsReservation(doc.Find(sel.Overlay).Text()) {
		l.Status = listing.StatusReserved
	}

	res.Listings = append(res.Listings, *l)
	return res
}

// energyClass normalizes an energy certificate value ("C", "C-klass",
// "class C") to its single letter A-H.
func energyClass(value string) (string, bool) {
	for _, w := range tokenize(value) {
		if len(w) == 1 && w[0] >= 'a' && w[0] <= 'h' {
			return strings.ToUpper(w), true
		}
	}
	return "", false
}

// resolveURL resolves a card link against the configured base URL, the
// same way relative hrefs resolve in the browser.
func (e *Extractor) resolveURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := strings.TrimSuffix(e.cfg.BaseURL, "/")
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
