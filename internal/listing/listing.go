package listing

import "time"

// DealKind distinguishes sale and rental listings.
type DealKind string

const (
	DealSale DealKind = "sale"
	DealRent DealKind = "rent"
)

// Valid reports whether the deal kind is one of the known values.
func (d DealKind) Valid() bool {
	return d == DealSale || d == DealRent
}

// Status is the activity state of a listing within the dataset.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusReserved Status = "reserved"
)

// Listing represents one real-estate offer scraped from kv.ee.
// Optional numeric fields are pointers; nil means the source did not
// carry the value. Optional string fields use "" as the absent marker.
type Listing struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	DealKind    DealKind `json:"deal_kind"`
	Price       int      `json:"price"`
	PricePerM2  *float64 `json:"price_per_m2,omitempty"`
	AreaM2      *float64 `json:"area_m2,omitempty"`
	Rooms       *int     `json:"rooms,omitempty"`
	Floor       *int     `json:"floor,omitempty"`
	TotalFloors *int     `json:"total_floors,omitempty"`

	Location string `json:"location,omitempty"`
	County   string `json:"county,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`

	PropertyType string `json:"property_type,omitempty"`
	BuildYear    *int   `json:"build_year,omitempty"`
	Condition    string `json:"condition,omitempty"`
	Material     string `json:"building_material,omitempty"`
	EnergyCert   string `json:"energy_certificate,omitempty"`

	Status    Status    `json:"status"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// Normalized condition values produced by the bilingual lexicon.
const (
	ConditionNew               = "new"
	ConditionRenovated         = "renovated"
	ConditionGood              = "good"
	ConditionSatisfactory      = "satisfactory"
	ConditionNeedsRenovation   = "needs_renovation"
	ConditionNeedsDecoration   = "needs_decoration"
	ConditionUnderConstruction = "under_construction"
)

// Normalized building material values.
const (
	MaterialStone = "stone"
	MaterialPanel = "panel"
	MaterialBrick = "brick"
	MaterialWood  = "wood"
	MaterialLog   = "log"
)

// Normalized property type values.
const (
	TypeApartment  = "apartment"
	TypeHouse      = "house"
	TypeLand       = "land"
	TypeCottage    = "cottage"
	TypeCommercial = "commercial"
)

// IntPtr returns a pointer to v. Convenience for building records.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }
