package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// browserHeaders make direct requests look like a desktop Chrome session.
// Accept-Encoding is left unset so the transport negotiates and transparently
// decompresses gzip itself.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/125.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
}

// tierProxy fetches the page through the rendering proxy, which renders
// JavaScript and exits through a residential IP. Returns the HTML or the
// reason the tier failed.
func (s *Scraper) tierProxy(ctx context.Context, pageURL string) (string, string) {
	if s.apiKey == "" {
		return "", "ScraperAPI: No API key configured"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.proxyEndpoint, nil)
	if err != nil {
		return "", fmt.Sprintf("ScraperAPI: %v", err)
	}
	q := url.Values{}
	q.Set("api_key", s.apiKey)
	q.Set("url", pageURL)
	q.Set("render", "true")
	q.Set("country_code", "us")
	req.URL.RawQuery = q.Encode()

	client := &http.Client{Timeout: proxyTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Sprintf("ScraperAPI: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Sprintf("ScraperAPI: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Sprintf("ScraperAPI: %v", err)
	}
	html := string(body)

	head := html
	if len(head) > authwallScanLen {
		head = head[:authwallScanLen]
	}
	if strings.Contains(head, "authwall") && strings.Contains(head, "login") {
		return "", "ScraperAPI: LinkedIn authwall in response"
	}
	if len(html) < MinContentLength {
		return "", "ScraperAPI: Response too short"
	}
	return html, ""
}

// tierDirect fetches the page with a plain GET and desktop browser headers.
func (s *Scraper) tierDirect(ctx context.Context, pageURL string) (string, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Sprintf("Tier 1: %v", err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: directTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Sprintf("Tier 1: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Sprintf("Tier 1: HTTP %d", resp.StatusCode)
	}

	// The client follows redirects, so resp.Request holds the final URL.
	// An authwall or login path means the profile is gated for this IP.
	finalPath := resp.Request.URL.Path
	if strings.Contains(finalPath, "authwall") || strings.Contains(finalPath, "login") {
		return "", "Tier 1: LinkedIn authwall redirect (cloud IP blocked)"
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Sprintf("Tier 1: %v", err)
	}
	html := string(body)
	if len(html) < MinContentLength {
		return "", "Tier 1: Response too short (likely blocked)"
	}
	return html, ""
}
