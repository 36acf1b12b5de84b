package store

import "kvpet/listingworker/internal/listing"

// Dataset is an ordered collection of listings keyed by identifier. Row
// order is part of the persisted contract: existing rows keep their
// position across runs and new rows append at the end.
type Dataset struct {
	order []string
	rows  map[string]listing.Listing
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{rows: make(map[string]listing.Listing)}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.order)
}

// Get returns the listing with the given identifier.
func (d *Dataset) Get(id string) (listing.Listing, bool) {
	l, ok := d.rows[id]
	return l, ok
}

// Rows returns all listings in row order.
func (d *Dataset) Rows() []listing.Listing {
	out := make([]listing.Listing, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.rows[id])
	}
	return out
}

// Put inserts or replaces a listing, appending new identifiers at the
// end of the row order.
func (d *Dataset) Put(l listing.Listing) {
	if _, ok := d.rows[l.ID]; !ok {
		d.order = append(d.order, l.ID)
	}
	d.rows[l.ID] = l
}

// clone returns an independent copy; Reconcile never mutates its inputs.
func (d *Dataset) clone() *Dataset {
	out := &Dataset{
		order: make([]string, len(d.order)),
		rows:  make(map[string]listing.Listing, len(d.rows)),
	}
	copy(out.order, d.order)
	for id, l := range d.rows {
		out.rows[id] = l
	}
	return out
}

// Stats summarizes the dataset by status.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Reserved int `json:"reserved"`
}

// Stats returns per-status row counts.
func (d *Dataset) Stats() Stats {
	s := Stats{Total: len(d.order)}
	for _, l := range d.rows {
		switch l.Status {
		case listing.StatusActive:
			s.Active++
		case listing.StatusReserved:
			s.Reserved++
		case listing.StatusInactive:
			s.Inactive++
		}
	}
	return s
}
