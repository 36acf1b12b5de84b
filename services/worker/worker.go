package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"kvpet/listingworker/config"
	"kvpet/listingworker/helpers"
	"kvpet/listingworker/internal/extractor"
	"kvpet/listingworker/internal/listing"
	"kvpet/listingworker/internal/store"
	"kvpet/listingworker/logger"
	apperr "kvpet/listingworker/pkg/errors"
	"kvpet/listingworker/services/cache"
	"kvpet/listingworker/services/publisher"
)

// FetchFunc fetches one URL and returns its body as UTF-8 HTML.
type FetchFunc func(url string) (io.Reader, error)

// Worker runs the crawl cycle: fetch search pages, extract listings,
// reconcile them into the persisted dataset and publish what changed.
type Worker struct {
	cfg       *config.Config
	extractor *extractor.Extractor
	pub       publisher.Publisher
	cacheSvc  cache.CacheService
	fetch     FetchFunc
	log       *logger.Logger
}

// NewWorker creates a new worker. A nil fetch falls back to the HTTP
// helper; tests inject their own.
func NewWorker(
	cfg *config.Config,
	ext *extractor.Extractor,
	pub publisher.Publisher,
	cacheSvc cache.CacheService,
	fetch FetchFunc,
) *Worker {
	if fetch == nil {
		fetch = helpers.FetchPage
	}
	return &Worker{
		cfg:       cfg,
		extractor: ext,
		pub:       pub,
		cacheSvc:  cacheSvc,
		fetch:     fetch,
		log:       logger.ForWorker(),
	}
}

// Run executes crawl cycles at the configured interval until the context
// is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.CrawlInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		if err := w.RunOnce(ctx, start); err != nil {
			w.log.Error().Err(err).Msg("Crawl cycle failed")
		} else {
			w.log.Info().Dur("elapsed", time.Since(start)).Msg("Crawl cycle finished")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes one crawl cycle at the given observation time.
func (w *Worker) RunOnce(ctx context.Context, observedAt time.Time) error {
	batch, err := w.collect(ctx)
	if err != nil {
		return err
	}

	existing, err := store.Load(w.cfg.OutputPath)
	if err != nil {
		return err
	}

	updated, report := store.Reconcile(existing, batch, observedAt)
	for _, warning := range report.Warnings {
		w.log.Warn().Msg(warning)
	}

	if err := store.Save(w.cfg.OutputPath, updated); err != nil {
		return err
	}

	stats := updated.Stats()
	w.log.Info().
		Int("added", len(report.Added)).
		Int("updated", len(report.Updated)).
		Int("deactivated", len(report.Deactivated)).
		Int("unchanged", report.Unchanged).
		Int("total", stats.Total).
		Int("active", stats.Active).
		Int("inactive", stats.Inactive).
		Int("reserved", stats.Reserved).
		Msg("Dataset reconciled")

	w.publishChanges(updated, report)
	return nil
}

// collect fetches and extracts all configured search pages. Pagination
// stops early at the first page without listings.
func (w *Worker) collect(ctx context.Context) ([]listing.Listing, error) {
	if gated, until := w.rateLimited(); gated {
		return nil, apperr.NewRateLimit("worker", until)
	}

	var batch []listing.Listing
	for page := 1; page <= w.cfg.SearchPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url := w.cfg.Criteria.BuildURL(w.cfg.BaseURL, page)
		w.log.Debug().Str("url", url).Int("page", page).Msg("Fetching search page")

		body, err := w.fetch(url)
		if err != nil {
			if apperr.IsType(err, apperr.ErrorTypeRateLimit) {
				w.blockFetches()
			}
			if page > 1 {
				// Keep what earlier pages already produced
				w.log.Warn().Err(err).Int("page", page).Msg("Stopping pagination")
				break
			}
			return nil, err
		}

		res, err := w.extractor.Extract(body, extractor.ResultsPage)
		if err != nil {
			return nil, err
		}
		for _, warning := range res.Warnings {
			w.log.Warn().Str("page", fmt.Sprint(page)).Msg(warning)
		}
		if res.Dropped > 0 {
			w.log.Warn().Int("dropped", res.Dropped).Int("page", page).Msg("Cards dropped")
		}
		if len(res.Listings) == 0 {
			break
		}
		batch = append(batch, res.Listings...)
	}

	if w.cfg.FetchDetails {
		w.enrichFromDetails(ctx, batch)
	}
	return batch, nil
}

// enrichFromDetails fetches each listing's detail page, whose meta-table
// is authoritative for condition and energy certificate. Failures leave
// the search-page record as-is.
func (w *Worker) enrichFromDetails(ctx context.Context, batch []listing.Listing) {
	for i := range batch {
		if ctx.Err() != nil {
			return
		}
		body, err := w.fetch(batch[i].URL)
		if err != nil {
			if apperr.IsType(err, apperr.ErrorTypeRateLimit) {
				w.blockFetches()
				return
			}
			w.log.Warn().Err(err).Str("id", batch[i].ID).Msg("Detail fetch failed")
			continue
		}
		res, err := w.extractor.Extract(body, extractor.DetailPage)
		if err != nil || len(res.Listings) == 0 {
			w.log.Warn().Err(err).Str("id", batch[i].ID).Msg("Detail extraction failed")
			continue
		}
		batch[i] = applyDetail(batch[i], res.Listings[0])
	}
}

// applyDetail overlays detail-page fields onto a search-page record.
func applyDetail(card, detail listing.Listing) listing.Listing {
	if detail.Condition != "" {
		card.Condition = detail.Condition
	}
	if detail.EnergyCert != "" {
		card.EnergyCert = detail.EnergyCert
	}
	if detail.Material != "" {
		card.Material = detail.Material
	}
	if detail.BuildYear != nil {
		card.BuildYear = detail.BuildYear
	}
	if detail.Rooms != nil && card.Rooms == nil {
		card.Rooms = detail.Rooms
	}
	if detail.Floor != nil {
		card.Floor, card.TotalFloors = detail.Floor, detail.TotalFloors
	}
	if detail.Status == listing.StatusReserved {
		card.Status = listing.StatusReserved
	}
	return card
}

// rateLimited consults the cache gate set after an upstream 429.
func (w *Worker) rateLimited() (bool, time.Duration) {
	if w.cacheSvc == nil || w.cfg.RateLimitGateKey == "" {
		return false, 0
	}
	if _, err := w.cacheSvc.Get(w.cfg.RateLimitGateKey); err == nil {
		return true, w.cfg.RateLimitBlock
	}
	return false, 0
}

// blockFetches arms the rate-limit gate for the configured window.
func (w *Worker) blockFetches() {
	if w.cacheSvc == nil || w.cfg.RateLimitGateKey == "" {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(w.cfg.RateLimitBlock.Seconds())))
	if err := w.cacheSvc.Set(w.cfg.RateLimitGateKey, value, w.cfg.RateLimitBlock); err != nil {
		w.log.Warn().Err(err).Msg("Failed to arm rate-limit gate")
	}
}

// publishChanges emits one change event per added, updated and
// deactivated listing. Publish failures are logged, not fatal: the
// dataset on disk is already consistent.
func (w *Worker) publishChanges(d *store.Dataset, report *store.Report) {
	if w.pub == nil {
		return
	}
	emit := func(kind string, ids []string) {
		for _, id := range ids {
			row, ok := d.Get(id)
			if !ok {
				continue
			}
			data, err := json.Marshal(row)
			if err != nil {
				w.log.Error().Err(err).Str("id", id).Msg("Failed to encode change event")
				continue
			}
			if err := w.pub.Publish(kind, data); err != nil {
				w.log.Error().Err(err).Str("id", id).Str("event", kind).Msg("Failed to publish change event")
			}
		}
	}
	emit(publisher.EventAdded, report.Added)
	emit(publisher.EventUpdated, report.Updated)
	emit(publisher.EventDeactivated, report.Deactivated)

	if err := w.pub.TrimStream(); err != nil {
		w.log.Error().Err(err).Msg("Failed to trim change feed")
	}
}
