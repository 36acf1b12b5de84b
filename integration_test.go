package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvpet/listingworker/config"
	"kvpet/listingworker/internal/extractor"
	"kvpet/listingworker/internal/listing"
	"kvpet/listingworker/internal/search"
	"kvpet/listingworker/internal/store"
	"kvpet/listingworker/services/worker"
)

const firstRunPage = `<html><body>
<article class="object-item" data-object-id="3366713">
	<h2><a class="object-title-a" href="/3366713.html">Müüa 3-toaline korter Kalamajas</a></h2>
	<div class="object-price">165 990 &euro;</div>
	<div class="object-m2">60,5 m&sup2;</div>
	<div class="object-rooms">3</div>
	<div class="object-address">Harjumaa, Tallinn, Põhja-Tallinn, Kalamaja, Uus-Volta 7-49</div>
	<div class="object-excerpt">Kivimaja, renoveeritud, korrus 5/9</div>
</article>
<article class="object-item" data-object-id="3400001">
	<h2><a class="object-title-a" href="/3400001.html">Müüa maja Sakus</a></h2>
	<div class="object-price">289 000 &euro;</div>
	<div class="object-address">Harjumaa, Saku vald, Saku, Kuuse 4</div>
</article>
<h2 class="section-title">Soovitatud kuulutused</h2>
<article class="object-item" data-object-id="9999999">
	<h2><a class="object-title-a" href="/9999999.html">Reklaam</a></h2>
	<div class="object-price">1 &euro;</div>
</article>
</body></html>`

const secondRunPage = `<html><body>
<article class="object-item" data-object-id="3366713">
	<h2><a class="object-title-a" href="/3366713.html">Müüa 3-toaline korter Kalamajas</a></h2>
	<div class="object-price">159 000 &euro;</div>
	<div class="object-m2">60,5 m&sup2;</div>
	<div class="object-address">Harjumaa, Tallinn, Põhja-Tallinn, Kalamaja, Uus-Volta 7-49</div>
</article>
</body></html>`

// The full pipeline over a real HTTP round trip: fetch, extract,
// reconcile, persist, and again with the dataset reloaded from disk.
func TestCrawlCycleEndToEnd(t *testing.T) {
	var run atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "search.simple", r.URL.Query().Get("act"))
		if run.Load() == 0 {
			w.Write([]byte(firstRunPage))
			return
		}
		w.Write([]byte(secondRunPage))
	}))
	defer server.Close()

	cfg := &config.Config{
		BaseURL:       server.URL,
		Criteria:      search.Criteria{DealKind: listing.DealSale},
		CrawlInterval: time.Hour,
		SearchPages:   1,
		OutputPath:    filepath.Join(t.TempDir(), "listings.csv"),
	}
	ext := extractor.New(extractor.Config{BaseURL: cfg.BaseURL, DealKind: listing.DealSale})
	w := worker.NewWorker(cfg, ext, nil, nil, nil)

	t0 := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.RunOnce(context.Background(), t0))

	d, err := store.Load(cfg.OutputPath)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	// The recommended-section card never made it in
	_, ok := d.Get("9999999")
	assert.False(t, ok)

	apt, ok := d.Get("3366713")
	require.True(t, ok)
	assert.Equal(t, "Müüa 3-toaline korter Kalamajas", apt.Title)
	assert.Equal(t, 165990, apt.Price)
	assert.Equal(t, "Harjumaa", apt.County)
	assert.Equal(t, "Tallinn", apt.City)
	assert.Equal(t, "Põhja-Tallinn", apt.District)
	assert.Equal(t, listing.MaterialStone, apt.Material)
	assert.Equal(t, listing.ConditionRenovated, apt.Condition)
	require.NotNil(t, apt.AreaM2)
	assert.InDelta(t, 60.5, *apt.AreaM2, 1e-9)
	require.NotNil(t, apt.Floor)
	assert.Equal(t, 5, *apt.Floor)
	assert.Equal(t, 9, *apt.TotalFloors)

	house, ok := d.Get("3400001")
	require.True(t, ok)
	assert.Equal(t, "Saku vald", house.City)

	// Second run: price drop on the apartment, the house disappears
	run.Store(1)
	t1 := t0.Add(time.Hour)
	require.NoError(t, w.RunOnce(context.Background(), t1))

	d, err = store.Load(cfg.OutputPath)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	apt, _ = d.Get("3366713")
	assert.Equal(t, 159000, apt.Price)
	// The excerpt vanished from the card but earlier knowledge survives
	assert.Equal(t, listing.MaterialStone, apt.Material)
	assert.Equal(t, t0, apt.FirstSeen)
	assert.Equal(t, t1, apt.LastSeen)

	house, _ = d.Get("3400001")
	assert.Equal(t, listing.StatusInactive, house.Status)
	assert.Equal(t, t0, house.LastSeen)

	// Replaying the same observation changes nothing on disk
	require.NoError(t, w.RunOnce(context.Background(), t1))
	again, err := store.Load(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, d.Rows(), again.Rows())
}
