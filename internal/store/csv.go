package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"kvpet/listingworker/internal/listing"
	apperr "kvpet/listingworker/pkg/errors"
)

// Columns is the persisted dataset schema. The order is fixed and
// independent of which optional fields a batch happens to populate;
// absent values serialize as empty strings, never as omitted columns.
var Columns = []string{
	"id",
	"url",
	"title",
	"deal_kind",
	"price",
	"price_per_m2",
	"area_m2",
	"rooms",
	"floor",
	"total_floors",
	"location",
	"county",
	"city",
	"district",
	"property_type",
	"build_year",
	"condition",
	"building_material",
	"energy_certificate",
	"first_seen",
	"last_seen",
	"status",
}

const timeLayout = time.RFC3339

// Load reads the persisted dataset. A missing file is an empty dataset,
// not an error.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDataset(), nil
		}
		return nil, apperr.NewStorage("store", "opening dataset", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a dataset from CSV.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return NewDataset(), nil
	}
	if err != nil {
		return nil, apperr.NewStorage("store", "reading header", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	d := NewDataset()
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.NewStorage("store", fmt.Sprintf("reading row %d", line), err)
		}
		l, err := fromRecord(rec, idx)
		if err != nil {
			return nil, apperr.NewStorage("store", fmt.Sprintf("row %d", line), err)
		}
		if l.ID == "" {
			continue
		}
		d.Put(l)
	}
	return d, nil
}

// Save writes the whole dataset to path, creating parent directories as
// needed. The write goes to a temp file first and is renamed into place
// so a crash never leaves a truncated dataset behind.
func Save(path string, d *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.NewStorage("store", "creating output dir", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return apperr.NewStorage("store", "creating temp file", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, d); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return apperr.NewStorage("store", "closing temp file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperr.NewStorage("store", "replacing dataset", err)
	}
	return nil
}

// Write serializes the dataset as CSV in schema column order.
func Write(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return apperr.NewStorage("store", "writing header", err)
	}
	for _, l := range d.Rows() {
		if err := cw.Write(toRecord(l)); err != nil {
			return apperr.NewStorage("store", "writing row "+l.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperr.NewStorage("store", "flushing dataset", err)
	}
	return nil
}

func toRecord(l listing.Listing) []string {
	return []string{
		l.ID,
		l.URL,
		l.Title,
		string(l.DealKind),
		strconv.Itoa(l.Price),
		formatFloat(l.PricePerM2),
		formatFloat(l.AreaM2),
		formatInt(l.Rooms),
		formatInt(l.Floor),
		formatInt(l.TotalFloors),
		l.Location,
		l.County,
		l.City,
		l.District,
		l.PropertyType,
		formatInt(l.BuildYear),
		l.Condition,
		l.Material,
		l.EnergyCert,
		formatTime(l.FirstSeen),
		formatTime(l.LastSeen),
		string(l.Status),
	}
}

func fromRecord(rec []string, idx map[string]int) (listing.Listing, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	l := listing.Listing{
		ID:           field("id"),
		URL:          field("url"),
		Title:        field("title"),
		DealKind:     listing.DealKind(field("deal_kind")),
		Location:     field("location"),
		County:       field("county"),
		City:         field("city"),
		District:     field("district"),
		PropertyType: field("property_type"),
		Condition:    field("condition"),
		Material:     field("building_material"),
		EnergyCert:   field("energy_certificate"),
		Status:       listing.Status(field("status")),
	}
	if l.Status == "" {
		l.Status = listing.StatusActive
	}

	if s := field("price"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			return l, fmt.Errorf("price %q: %w", s, err)
		}
		l.Price = p
	}
	var err error
	if l.PricePerM2, err = parseFloat(field("price_per_m2")); err != nil {
		return l, err
	}
	if l.AreaM2, err = parseFloat(field("area_m2")); err != nil {
		return l, err
	}
	if l.Rooms, err = parseInt(field("rooms")); err != nil {
		return l, err
	}
	if l.Floor, err = parseInt(field("floor")); err != nil {
		return l, err
	}
	if l.TotalFloors, err = parseInt(field("total_floors")); err != nil {
		return l, err
	}
	if l.BuildYear, err = parseInt(field("build_year")); err != nil {
		return l, err
	}
	if l.FirstSeen, err = parseTime(field("first_seen")); err != nil {
		return l, err
	}
	if l.LastSeen, err = parseTime(field("last_seen")); err != nil {
		return l, err
	}
	return l, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("decimal %q: %w", s, err)
	}
	return &v, nil
}

func parseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("integer %q: %w", s, err)
	}
	return &v, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return t, nil
}
