package helpers

import (
	"bytes"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	apperr "kvpet/listingworker/pkg/errors"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.kv.ee/",
		"https://www.neti.ee/",
	}

	// HTTP client with timeout
	client = &http.Client{
		Timeout: 30 * time.Second,
	}
)

// blockMarkers are body fragments of anti-bot challenge pages. kv.ee sits
// behind Cloudflare, so a 200 with a challenge body is still a block.
var blockMarkers = []string{
	"just a moment",
	"challenge-platform",
	"enable javascript",
	"captcha",
}

// FetchPage sends a browser-like GET request, converts the response body
// to UTF-8 (kv.ee carries õ/ä/ö/ü in both languages), and returns it as
// an io.Reader. Rate limiting, anti-bot blocking and transport failures
// come back as typed worker errors.
func FetchPage(url string) (io.Reader, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, apperr.NewNetwork("fetcher", "creating request", err)
	}

	// Browser-like headers keep the plain-HTTP path alive as long as possible
	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,et;q=0.8")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Referer", referers[rnd.Intn(len(referers))])
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperr.NewNetwork("fetcher", "fetching "+url, err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter, _ := time.ParseDuration(resp.Header.Get("Retry-After") + "s")
		return nil, apperr.NewRateLimit("fetcher", retryAfter)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewNetwork("fetcher", "reading response body", err)
	}

	if reason := blockReason(resp, bodyBytes); reason != "" {
		return nil, apperr.NewBlocked("fetcher", reason)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.NewNetwork("fetcher",
			"unexpected status code "+resp.Status+" for "+url, nil)
	}

	// Determine the encoding from the Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if strings.EqualFold(name, "utf-8") {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, apperr.NewNetwork("fetcher", "converting body to UTF-8", err)
	}
	return &buf, nil
}

// blockReason inspects the response for anti-bot blocking and returns a
// human-readable reason, or "" when the response looks genuine.
func blockReason(resp *http.Response, body []byte) string {
	if resp.StatusCode == http.StatusForbidden {
		for header := range resp.Header {
			if strings.HasPrefix(strings.ToLower(header), "cf-") {
				return "Cloudflare protection (HTTP 403)"
			}
		}
		return "HTTP 403 Forbidden"
	}

	probe := body
	if len(probe) > 5000 {
		probe = probe[:5000]
	}
	lowered := strings.ToLower(string(probe))
	for _, marker := range blockMarkers {
		if strings.Contains(lowered, marker) {
			return "challenge page detected (" + marker + ")"
		}
	}
	return ""
}
