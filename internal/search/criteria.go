package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"kvpet/listingworker/internal/listing"
)

// Deal kind codes used by the kv.ee search endpoint.
var dealKindCodes = map[listing.DealKind]string{
	listing.DealSale: "1",
	listing.DealRent: "2",
}

// Criteria describes one saved search against kv.ee.
type Criteria struct {
	DealKind listing.DealKind
	County   string
	Parish   string
	City     string
	Keyword  string

	PriceMin *int
	PriceMax *int
	RoomsMin *int
	RoomsMax *int
	AreaMin  *int
	AreaMax  *int
	FloorMin *int
	FloorMax *int

	Page     int
	PageSize int
}

// Validate returns every problem with the criteria, not just the first.
func (c Criteria) Validate() []error {
	var errs []error
	if !c.DealKind.Valid() {
		errs = append(errs, fmt.Errorf("invalid deal kind %q, must be %q or %q",
			c.DealKind, listing.DealSale, listing.DealRent))
	}
	checkRange := func(name string, min, max *int) {
		if min != nil && max != nil && *min > *max {
			errs = append(errs, fmt.Errorf("%s_min cannot be greater than %s_max", name, name))
		}
	}
	checkRange("price", c.PriceMin, c.PriceMax)
	checkRange("rooms", c.RoomsMin, c.RoomsMax)
	checkRange("area", c.AreaMin, c.AreaMax)
	checkRange("floor", c.FloorMin, c.FloorMax)
	if c.Page < 0 {
		errs = append(errs, fmt.Errorf("page must be >= 1"))
	}
	return errs
}

// QueryParams converts the criteria to kv.ee query parameters.
func (c Criteria) QueryParams() url.Values {
	params := url.Values{}
	params.Set("act", "search.simple")
	code, ok := dealKindCodes[c.DealKind]
	if !ok {
		code = dealKindCodes[listing.DealSale]
	}
	params.Set("deal_type", code)

	page := c.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	setStr := func(key, v string) {
		if v != "" {
			params.Set(key, v)
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			params.Set(key, strconv.Itoa(*v))
		}
	}
	setStr("county", c.County)
	setStr("parish", c.Parish)
	setStr("city", c.City)
	setStr("keyword", c.Keyword)
	setInt("price_min", c.PriceMin)
	setInt("price_max", c.PriceMax)
	setInt("rooms_min", c.RoomsMin)
	setInt("rooms_max", c.RoomsMax)
	setInt("area_min", c.AreaMin)
	setInt("area_max", c.AreaMax)
	setInt("floor_min", c.FloorMin)
	setInt("floor_max", c.FloorMax)
	if c.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(c.PageSize))
	}
	return params
}

// BuildURL builds the full search URL for the given page.
func (c Criteria) BuildURL(baseURL string, page int) string {
	c.Page = page
	return strings.TrimSuffix(baseURL, "/") + "/?" + c.QueryParams().Encode()
}
