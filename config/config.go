package config

import (
	"os"
	"strconv"
	"time"

	"kvpet/listingworker/internal/listing"
	"kvpet/listingworker/internal/search"
	apperr "kvpet/listingworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// kv.ee endpoints
	BaseURL string

	// Search criteria for the monitored query
	Criteria search.Criteria

	// Crawl behaviour
	CrawlInterval time.Duration
	SearchPages   int
	FetchDetails  bool

	// Persisted dataset
	OutputPath string

	// Redis configuration (listing change feed)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache configuration (fetch rate-limit gate)
	MemcacheAddr     string
	RateLimitBlock   time.Duration
	RateLimitGateKey string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	searchPages, _ := strconv.Atoi(getEnv("SEARCH_PAGES", "1"))
	blockSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "600"))

	return &Config{
		BaseURL: getEnv("KV_BASE_URL", "https://www.kv.ee"),
		Criteria: search.Criteria{
			DealKind: listing.DealKind(getEnv("DEAL_KIND", "sale")),
			County:   getEnv("SEARCH_COUNTY", ""),
			Parish:   getEnv("SEARCH_PARISH", ""),
			City:     getEnv("SEARCH_CITY", ""),
			Keyword:  getEnv("SEARCH_KEYWORD", ""),
			PriceMin: getEnvInt("PRICE_MIN"),
			PriceMax: getEnvInt("PRICE_MAX"),
			RoomsMin: getEnvInt("ROOMS_MIN"),
			RoomsMax: getEnvInt("ROOMS_MAX"),
			AreaMin:  getEnvInt("AREA_MIN"),
			AreaMax:  getEnvInt("AREA_MAX"),
			FloorMin: getEnvInt("FLOOR_MIN"),
			FloorMax: getEnvInt("FLOOR_MAX"),
		},
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		SearchPages:          searchPages,
		FetchDetails:         getEnv("FETCH_DETAILS", "false") == "true",
		OutputPath:           getEnv("OUTPUT_CSV", "output/listings.csv"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "listings"),
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RateLimitBlock:       time.Duration(blockSeconds) * time.Second,
		RateLimitGateKey:     getEnv("RATE_LIMIT_GATE_KEY", "kv_rate_limited"),
		Environment:          getEnv("KVPET_ENVIRONMENT", "development"),
	}
}

// Validate checks the loaded configuration for inconsistencies
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return apperr.NewConfiguration("KV_BASE_URL must not be empty", nil)
	}
	if c.SearchPages < 1 {
		return apperr.NewConfiguration("SEARCH_PAGES must be >= 1", nil)
	}
	if c.CrawlInterval <= 0 {
		return apperr.NewConfiguration("CRAWL_INTERVAL_SECONDS must be positive", nil)
	}
	if c.OutputPath == "" {
		return apperr.NewConfiguration("OUTPUT_CSV must not be empty", nil)
	}
	if errs := c.Criteria.Validate(); len(errs) > 0 {
		return apperr.NewConfiguration("invalid search criteria: "+errs[0].Error(), nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an optional integer environment variable; unset or
// malformed values yield nil
func getEnvInt(key string) *int {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
