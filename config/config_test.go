package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kvpet/listingworker/internal/listing"
	apperr "kvpet/listingworker/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "https://www.kv.ee", cfg.BaseURL)
	assert.Equal(t, listing.DealSale, cfg.Criteria.DealKind)
	assert.Nil(t, cfg.Criteria.PriceMax)
	assert.Equal(t, time.Hour, cfg.CrawlInterval)
	assert.Equal(t, 1, cfg.SearchPages)
	assert.False(t, cfg.FetchDetails)
	assert.Equal(t, "output/listings.csv", cfg.OutputPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "listings", cfg.RedisStream)
	assert.Equal(t, 1000, cfg.RedisStreamMaxLength)
	assert.Equal(t, "localhost:11211", cfg.MemcacheAddr)
	assert.Equal(t, 10*time.Minute, cfg.RateLimitBlock)
	assert.Equal(t, "development", cfg.Environment)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("KV_BASE_URL", "https://kv.example.test")
	t.Setenv("DEAL_KIND", "rent")
	t.Setenv("SEARCH_COUNTY", "Harjumaa")
	t.Setenv("SEARCH_CITY", "Tallinn")
	t.Setenv("PRICE_MAX", "1200")
	t.Setenv("ROOMS_MIN", "2")
	t.Setenv("CRAWL_INTERVAL_SECONDS", "900")
	t.Setenv("SEARCH_PAGES", "3")
	t.Setenv("FETCH_DETAILS", "true")
	t.Setenv("OUTPUT_CSV", "/tmp/data.csv")
	t.Setenv("REDIS_STREAM", "kv-changes")
	t.Setenv("KVPET_ENVIRONMENT", "production")

	cfg := LoadConfig()

	assert.Equal(t, "https://kv.example.test", cfg.BaseURL)
	assert.Equal(t, listing.DealRent, cfg.Criteria.DealKind)
	assert.Equal(t, "Harjumaa", cfg.Criteria.County)
	assert.Equal(t, "Tallinn", cfg.Criteria.City)
	assert.Equal(t, 1200, *cfg.Criteria.PriceMax)
	assert.Equal(t, 2, *cfg.Criteria.RoomsMin)
	assert.Equal(t, 15*time.Minute, cfg.CrawlInterval)
	assert.Equal(t, 3, cfg.SearchPages)
	assert.True(t, cfg.FetchDetails)
	assert.Equal(t, "/tmp/data.csv", cfg.OutputPath)
	assert.Equal(t, "kv-changes", cfg.RedisStream)
	assert.Equal(t, "production", cfg.Environment)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMalformedInt(t *testing.T) {
	t.Setenv("PRICE_MIN", "cheap")

	cfg := LoadConfig()
	assert.Nil(t, cfg.Criteria.PriceMin)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name  string
		mod   func(*Config)
		wants string
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }, "KV_BASE_URL"},
		{"zero pages", func(c *Config) { c.SearchPages = 0 }, "SEARCH_PAGES"},
		{"zero interval", func(c *Config) { c.CrawlInterval = 0 }, "CRAWL_INTERVAL_SECONDS"},
		{"empty output", func(c *Config) { c.OutputPath = "" }, "OUTPUT_CSV"},
		{"bad deal kind", func(c *Config) { c.Criteria.DealKind = "swap" }, "deal kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := LoadConfig()
			tc.mod(cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.True(t, apperr.IsType(err, apperr.ErrorTypeConfiguration))
			assert.Contains(t, err.Error(), tc.wants)
		})
	}
}
