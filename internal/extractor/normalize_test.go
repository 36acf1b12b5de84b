package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"165 990 €", 165990, true},
		{"165 990 €", 165990, true},
		{"165990€", 165990, true},
		{"165,990 EUR", 165990, true},
		{"150000", 150000, true},
		{"", 0, false},
		{"hinna kokkuleppel", 0, false},
	}

	for _, tc := range testCases {
		got, ok := ParsePrice(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}
}

func TestParseDecimal(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"60.5 m²", 60.5, true},
		{"60,5 m²", 60.5, true},
		{"60,5m2", 60.5, true},
		{"60.5", 60.5, true},
		{"2 750 €/m²", 2750, true},
		{"", 0, false},
		{"m²", 0, false},
	}

	for _, tc := range testCases {
		got, ok := ParseDecimal(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.InDelta(t, tc.expected, got, 1e-9, "input %q", tc.input)
	}
}

func TestParseInt(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"3", 3, true},
		{"3 tuba", 3, true},
		{"3 rooms", 3, true},
		{"", 0, false},
		{"tuba", 0, false},
	}

	for _, tc := range testCases {
		got, ok := ParseInt(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}
}

func TestParseFloorPair(t *testing.T) {
	floor, total := ParseFloorPair("5/9")
	assert.NotNil(t, floor)
	assert.NotNil(t, total)
	assert.Equal(t, 5, *floor)
	assert.Equal(t, 9, *total)

	floor, total = ParseFloorPair("Korrus 2 / 5")
	assert.NotNil(t, floor)
	assert.NotNil(t, total)
	assert.Equal(t, 2, *floor)
	assert.Equal(t, 5, *total)

	floor, total = ParseFloorPair("3")
	assert.NotNil(t, floor)
	assert.Equal(t, 3, *floor)
	assert.Nil(t, total)

	floor, total = ParseFloorPair("")
	assert.Nil(t, floor)
	assert.Nil(t, total)
}

func TestParseYear(t *testing.T) {
	y, ok := ParseYear("ehitusaasta 1938")
	assert.True(t, ok)
	assert.Equal(t, 1938, y)

	y, ok = ParseYear("built in 2021")
	assert.True(t, ok)
	assert.Equal(t, 2021, y)

	_, ok = ParseYear("ehitusaasta teadmata")
	assert.False(t, ok)

	// Out-of-range numbers are not construction years
	_, ok = ParseYear("object 123456")
	assert.False(t, ok)
}

func TestSplitLocation(t *testing.T) {
	testCases := []struct {
		location string
		county   string
		city     string
		district string
	}{
		{
			// Urban pattern: county, city, district, sub-district, street
			location: "Harjumaa, Tallinn, Põhja-Tallinn, Kalamaja, Uus-Volta 7-49",
			county:   "Harjumaa",
			city:     "Tallinn",
			district: "Põhja-Tallinn",
		},
		{
			// Rural pattern: county, parish, settlement, area, street
			location: "Harjumaa, Saku vald, Saku, Kirsiõue, Soo tee 5-20",
			county:   "Harjumaa",
			city:     "Saku vald",
			district: "Saku",
		},
		{
			location: "Tartumaa, Tartu",
			county:   "Tartumaa",
			city:     "Tartu",
			district: "",
		},
		{
			location: "Harjumaa",
			county:   "Harjumaa",
			city:     "",
			district: "",
		},
	}

	for _, tc := range testCases {
		county, city, district := SplitLocation(tc.location)
		assert.Equal(t, tc.county, county, "location %q", tc.location)
		assert.Equal(t, tc.city, city, "location %q", tc.location)
		assert.Equal(t, tc.district, district, "location %q", tc.location)
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "stone house", Canonical("  Stone  House "))
	assert.Equal(t, "kivimaja", Canonical("KIVIMAJA"))
	assert.Equal(t, "", Canonical("   "))
}
