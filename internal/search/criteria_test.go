package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvpet/listingworker/internal/listing"
)

func TestValidate(t *testing.T) {
	ok := Criteria{DealKind: listing.DealSale}
	assert.Empty(t, ok.Validate())

	bad := Criteria{
		DealKind: "auction",
		PriceMin: listing.IntPtr(200000),
		PriceMax: listing.IntPtr(100000),
		RoomsMin: listing.IntPtr(4),
		RoomsMax: listing.IntPtr(2),
		Page:     -1,
	}
	errs := bad.Validate()
	// All problems reported at once
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "deal kind")
	assert.Contains(t, errs[1].Error(), "price_min")
	assert.Contains(t, errs[2].Error(), "rooms_min")
}

func TestQueryParams(t *testing.T) {
	c := Criteria{
		DealKind: listing.DealRent,
		County:   "Harjumaa",
		City:     "Tallinn",
		PriceMax: listing.IntPtr(1200),
		RoomsMin: listing.IntPtr(2),
		PageSize: 50,
	}
	params := c.QueryParams()

	assert.Equal(t, "search.simple", params.Get("act"))
	assert.Equal(t, "2", params.Get("deal_type"))
	assert.Equal(t, "1", params.Get("page"))
	assert.Equal(t, "Harjumaa", params.Get("county"))
	assert.Equal(t, "Tallinn", params.Get("city"))
	assert.Equal(t, "1200", params.Get("price_max"))
	assert.Equal(t, "2", params.Get("rooms_min"))
	assert.Equal(t, "50", params.Get("page_size"))

	// Unset filters stay out of the query entirely
	_, hasMin := params["price_min"]
	assert.False(t, hasMin)
	_, hasParish := params["parish"]
	assert.False(t, hasParish)
}

func TestBuildURL(t *testing.T) {
	c := Criteria{DealKind: listing.DealSale, County: "Tartumaa"}

	raw := c.BuildURL("https://www.kv.ee/", 3)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "www.kv.ee", u.Host)
	assert.Equal(t, "/", u.Path)
	q := u.Query()
	assert.Equal(t, "1", q.Get("deal_type"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "Tartumaa", q.Get("county"))

	// BuildURL takes a value receiver: the caller's page is untouched
	assert.Equal(t, 0, c.Page)
}
