package scrape

import (
	"regexp"
	"strings"
)

var linkedinHostPattern = regexp.MustCompile(`https?://(www\.)?linkedin\.com`)

// NormalizeURL canonicalizes a profile URL: trims whitespace and trailing
// slashes, forces an https scheme, and collapses linkedin.com hosts to the
// www form so the same profile always scrapes under one URL.
func NormalizeURL(raw string) string {
	url := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	return linkedinHostPattern.ReplaceAllString(url, "https://www.linkedin.com")
}
