package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Normalizers for locale-formatted text fragments. kv.ee renders numbers
// with space (or NBSP) thousands separators and comma decimal separators,
// in both the Estonian and English versions of the site.

var (
	digitsRe    = regexp.MustCompile(`\d+`)
	nonNumberRe = regexp.MustCompile(`[^\d.]`)
	floorPairRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
	yearRe      = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)
)

// ParsePrice extracts an integer EUR amount from strings like
// "165 990 €", "165 990 €" or "165990€". The reported value
// carries no minor units, so every non-digit is a separator or symbol.
func ParsePrice(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseDecimal extracts a decimal value from strings like "60.5 m²",
// "60,5m2" or "2 750 €/m²". The comma decimal separator is normalized
// before unit suffixes and grouping spaces are stripped.
func ParseDecimal(s string) (float64, bool) {
	cleaned := strings.ToLower(s)
	// Unit suffixes go first: "m2" would otherwise leak its digit.
	cleaned = strings.ReplaceAll(cleaned, "m²", "")
	cleaned = strings.ReplaceAll(cleaned, "m2", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = nonNumberRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInt extracts the first integer appearing in the string,
// e.g. "3 tuba" or "3 rooms" yield 3.
func ParseInt(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloorPair parses a floor designation like "5/9" into the floor and
// the building's total floor count. A bare number yields only the floor.
func ParseFloorPair(s string) (floor, total *int) {
	if m := floorPairRe.FindStringSubmatch(s); m != nil {
		f, _ := strconv.Atoi(m[1])
		t, _ := strconv.Atoi(m[2])
		return &f, &t
	}
	if n, ok := ParseInt(s); ok {
		return &n, nil
	}
	return nil, nil
}

// ParseYear extracts a plausible construction year (1800-2099).
func ParseYear(s string) (int, bool) {
	m := yearRe.FindString(s)
	if m == "" {
		return 0, false
	}
	y, _ := strconv.Atoi(m)
	return y, true
}

// SplitLocation splits a comma-delimited kv.ee address positionally.
// Urban listings follow county, city, district, sub-district, street;
// rural ones county, parish, settlement, area, street. Both collapse to
// the same triple: the first segment is the county, the second the city
// or parish, and the third (when present) the district.
func SplitLocation(location string) (county, city, district string) {
	parts := strings.Split(location, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	if len(parts) > 0 {
		county = parts[0]
	}
	if len(parts) > 1 {
		city = parts[1]
	}
	if len(parts) > 2 {
		district = parts[2]
	}
	return county, city, district
}

// Canonical lower-cases the text and collapses all whitespace runs
// (including NBSP variants) into single spaces, so lexicon patterns match
// regardless of the markup's formatting.
func Canonical(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
