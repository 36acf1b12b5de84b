package store

import (
	"fmt"
	"reflect"
	"time"

	"kvpet/listingworker/internal/listing"
)

// Report describes what one reconciliation changed. The ID slices let the
// caller publish change events without diffing datasets.
type Report struct {
	Added       []string
	Updated     []string
	Deactivated []string
	Unchanged   int
	Warnings    []string
}

// Reconcile merges a freshly observed batch into the existing dataset and
// returns the merged result. It is a pure function: neither input is
// mutated, and observedAt is caller-supplied so that reapplying the same
// batch at the same timestamp changes nothing.
//
// Per record: unknown identifiers are inserted with first-seen =
// last-seen = observedAt; known identifiers get their mutable fields and
// last-seen refreshed with first-seen preserved; identifiers absent from
// the batch are flipped to inactive with last-seen left at the time they
// actually were seen. Rows are never removed.
func Reconcile(existing *Dataset, batch []listing.Listing, observedAt time.Time) (*Dataset, *Report) {
	out := existing.clone()
	rep := &Report{}

	seen := make(map[string]bool, len(batch))
	for _, nl := range batch {
		if nl.ID == "" {
			rep.Warnings = append(rep.Warnings, "record without identifier skipped")
			continue
		}
		if seen[nl.ID] {
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("duplicate identifier %s in batch, later record wins", nl.ID))
		}
		if nl.Status == "" {
			nl.Status = listing.StatusActive
		}

		old, known := out.rows[nl.ID]
		if !known {
			nl.FirstSeen = observedAt
			nl.LastSeen = observedAt
			out.Put(nl)
			if !seen[nl.ID] {
				rep.Added = append(rep.Added, nl.ID)
			}
			seen[nl.ID] = true
			continue
		}

		merged := merge(old, nl, observedAt)
		out.rows[nl.ID] = merged
		if !seen[nl.ID] {
			if reflect.DeepEqual(merged, old) {
				rep.Unchanged++
			} else {
				rep.Updated = append(rep.Updated, nl.ID)
			}
		}
		seen[nl.ID] = true
	}

	for _, id := range out.order {
		if seen[id] {
			continue
		}
		row := out.rows[id]
		if row.Status != listing.StatusInactive {
			row.Status = listing.StatusInactive
			out.rows[id] = row
			rep.Deactivated = append(rep.Deactivated, id)
		}
	}

	return out, rep
}

// merge applies a new observation onto a known row. First-seen is
// immutable; last-seen moves to the observation time; the observed status
// is authoritative for this run. Optional fields enrich rather than
// erase: an absent value in the new record keeps what an earlier run (or
// a detail-page pass) already captured.
func merge(old, nl listing.Listing, observedAt time.Time) listing.Listing {
	m := nl
	m.FirstSeen = old.FirstSeen
	m.LastSeen = observedAt

	if m.Title == "" {
		m.Title = old.Title
	}
	if m.URL == "" {
		m.URL = old.URL
	}
	if m.PricePerM2 == nil {
		m.PricePerM2 = old.PricePerM2
	}
	if m.AreaM2 == nil {
		m.AreaM2 = old.AreaM2
	}
	if m.Rooms == nil {
		m.Rooms = old.Rooms
	}
	if m.Floor == nil {
		m.Floor = old.Floor
	}
	if m.TotalFloors == nil {
		m.TotalFloors = old.TotalFloors
	}
	if m.Location == "" {
		m.Location = old.Location
		m.County = old.County
		m.City = old.City
		m.District = old.District
	}
	if m.PropertyType == "" {
		m.PropertyType = old.PropertyType
	}
	if m.BuildYear == nil {
		m.BuildYear = old.BuildYear
	}
	if m.Condition == "" {
		m.Condition = old.Condition
	}
	if m.Material == "" {
		m.Material = old.Material
	}
	if m.EnergyCert == "" {
		m.EnergyCert = old.EnergyCert
	}
	return m
}
