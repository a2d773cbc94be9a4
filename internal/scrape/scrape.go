// Package scrape fetches public profile pages through a chain of fallback
// tiers: a rendering proxy when an API key is configured, a direct HTTP
// request with browser-like headers, and finally a headless browser. Each
// tier that fails contributes a reason to the failure detail so callers can
// see exactly how far the chain got.
package scrape

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/marcus/coldopen/internal/profile"
	"github.com/marcus/coldopen/internal/types"
)

const (
	scraperAPIEndpoint = "https://api.scraperapi.com"

	// MinContentLength is the smallest body that could plausibly hold a
	// rendered profile. Anything shorter is treated as a block page.
	MinContentLength = 500

	// authwallScanLen bounds how much of a proxied response is scanned for
	// authwall markers.
	authwallScanLen = 5000

	proxyTimeout   = 60 * time.Second
	directTimeout  = 15 * time.Second
	browserTimeout = 20 * time.Second
	browserSettle  = 2 * time.Second
)

// Options configure a Scraper.
type Options struct {
	// ScraperAPIKey enables the rendering-proxy tier. When empty the tier
	// is skipped.
	ScraperAPIKey string
	// RateLimitDelay is the pause enforced between scrapes. Zero disables
	// pacing.
	RateLimitDelay time.Duration
	// DisableBrowser skips the headless tier on hosts without Chrome.
	DisableBrowser bool
	// ProxyEndpoint overrides the rendering-proxy endpoint. Used by tests.
	ProxyEndpoint string
}

// Scraper resolves profile URLs into structured prospect data.
type Scraper struct {
	apiKey         string
	proxyEndpoint  string
	disableBrowser bool
	limiter        *limiter
}

func New(opts Options) *Scraper {
	endpoint := opts.ProxyEndpoint
	if endpoint == "" {
		endpoint = scraperAPIEndpoint
	}
	return &Scraper{
		apiKey:         opts.ScraperAPIKey,
		proxyEndpoint:  endpoint,
		disableBrowser: opts.DisableBrowser,
		limiter:        &limiter{delay: opts.RateLimitDelay},
	}
}

// Result is the outcome of one scrape attempt.
type Result struct {
	Profile profile.Data
	Tier    types.ScrapeTier
	// FailDetail explains why every tier failed, joined in tier order.
	// Empty unless Tier is TierFailed.
	FailDetail string
}

type tier struct {
	name string
	run  func(ctx context.Context, url string) (html, failReason string)
}

// Scrape resolves one URL into profile data. When manualText is non-empty it
// is parsed directly and no network calls are made.
func (s *Scraper) Scrape(ctx context.Context, rawURL, manualText string) Result {
	url := NormalizeURL(rawURL)

	if strings.TrimSpace(manualText) != "" {
		return Result{Profile: profile.ParseText(manualText, url), Tier: types.TierManual}
	}

	s.limiter.wait(ctx)

	tiers := []tier{
		{"ScraperAPI", s.tierProxy},
		{"Tier 1", s.tierDirect},
		{"Tier 2", s.tierBrowser},
	}

	var failures []string
	for _, t := range tiers {
		if ctx.Err() != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", t.name, ctx.Err()))
			break
		}

		html, failReason := t.run(ctx, url)
		if failReason != "" {
			log.Printf("[SCRAPE] %s for %s", failReason, url)
			failures = append(failures, failReason)
			continue
		}

		data, parsedTier := profile.Parse(html, url)
		if data.Name != "" {
			log.Printf("[SCRAPE] %s succeeded for %s (tier=%s)", t.name, url, parsedTier)
			return Result{Profile: data, Tier: parsedTier}
		}

		reason := fmt.Sprintf("%s: Got HTML but could not parse name", t.name)
		log.Printf("[SCRAPE] %s for %s", reason, url)
		failures = append(failures, reason)
	}

	detail := "All tiers failed"
	if len(failures) > 0 {
		detail = strings.Join(failures, " → ")
	}
	return Result{
		Profile:    profile.Data{URL: url, RawText: detail},
		Tier:       types.TierFailed,
		FailDetail: detail,
	}
}
