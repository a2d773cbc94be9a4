package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// tierBrowser renders the page in headless Chrome and reads the DOM after
// client-side rendering settles. Images are disabled for speed. Requires
// Chrome or Chromium on the host.
func (s *Scraper) tierBrowser(ctx context.Context, pageURL string) (string, string) {
	if s.disableBrowser {
		return "", "Tier 2: Browser disabled"
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("blink-settings", "imagesEnabled=false"),
			chromedp.UserAgent(browserHeaders["User-Agent"]),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, browserTimeout)
	defer cancel()

	var html, currentURL string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(browserSettle),
		chromedp.Location(&currentURL),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Sprintf("Tier 2: %v", err)
	}

	if strings.Contains(currentURL, "authwall") || strings.Contains(currentURL, "login") {
		return "", "Tier 2: LinkedIn authwall redirect"
	}
	if len(html) < MinContentLength {
		return "", "Tier 2: Response too short"
	}
	return html, ""
}
