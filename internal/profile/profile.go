// Package profile parses scraped or pasted profile pages into structured
// prospect data. Parsing tries structured strategies before text heuristics:
// JSON-LD Person scripts, then OpenGraph meta tags, then the readable main
// text of the page.
package profile

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/marcus/coldopen/internal/types"
)

// Data is the structured prospect information recovered from one page.
type Data struct {
	URL        string
	Name       string
	Headline   string
	Summary    string
	Experience string
	Education  string
	Skills     string
	RawText    string
}

// Field caps keep prompt sizes bounded.
const (
	maxExperienceLen = 500
	maxEducationLen  = 300
	maxRawTextLen    = 2000
)

var (
	experiencePattern = regexp.MustCompile(`(?i)(?:Experience|Work Experience)\s*\n([\s\S]*?)\n(?:Education|Skills|$)`)
	educationPattern  = regexp.MustCompile(`(?i)Education\s*\n([\s\S]*?)\n(?:Skills|Interests|$)`)
)

// Parse extracts prospect data from profile HTML. The returned tier grades
// the parse: TierFull when a structured strategy produced a name, TierPartial
// when only the text heuristics did, TierFailed when no name was found.
func Parse(html, pageURL string) (Data, types.ScrapeTier) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return grade(ParseText(html, pageURL))
	}

	if d, ok := parseJSONLD(doc, pageURL); ok {
		return d, types.TierFull
	}
	if d, ok := parseOpenGraph(doc, pageURL); ok {
		return d, types.TierFull
	}

	return grade(ParseText(mainText(doc, html, pageURL), pageURL))
}

// ParseText applies the plain-text line heuristics: first line is the name,
// second the headline, lines three through six the summary, with
// regex-delimited Experience and Education sections.
func ParseText(text, pageURL string) Data {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	d := Data{URL: pageURL}
	if len(lines) > 0 {
		d.Name = lines[0]
	}
	if len(lines) > 1 {
		d.Headline = lines[1]
	}
	if len(lines) > 2 {
		end := min(len(lines), 6)
		d.Summary = strings.Join(lines[2:end], "\n")
	}

	fullText := strings.Join(lines, "\n")
	if m := experiencePattern.FindStringSubmatch(fullText); m != nil {
		d.Experience = truncateRunes(strings.TrimSpace(m[1]), maxExperienceLen)
	}
	if m := educationPattern.FindStringSubmatch(fullText); m != nil {
		d.Education = truncateRunes(strings.TrimSpace(m[1]), maxEducationLen)
	}
	d.RawText = truncateRunes(fullText, maxRawTextLen)

	return d
}

// parseJSONLD scans application/ld+json scripts for a Person node.
func parseJSONLD(doc *goquery.Document, pageURL string) (Data, bool) {
	var data Data
	found := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}

		person, ok := personNode(raw)
		if !ok {
			return true
		}

		name, _ := person["name"].(string)
		if name == "" {
			return true
		}

		headline, _ := person["jobTitle"].(string)
		summary, _ := person["description"].(string)
		if headline == "" {
			headline = summary
		}

		// interactionStatistic entries carry activity counts; keep them as
		// compact JSON so the generator can cite them.
		var stats []string
		if list, ok := person["interactionStatistic"].([]any); ok {
			for _, entry := range list {
				if b, err := json.Marshal(entry); err == nil {
					stats = append(stats, string(b))
				}
			}
		}

		data = Data{
			URL:        pageURL,
			Name:       name,
			Headline:   headline,
			Summary:    summary,
			Experience: strings.Join(stats, "; "),
		}
		found = true
		return false
	})

	return data, found
}

// personNode finds a Person object in a JSON-LD document, which may be a
// single object or a list of them.
func personNode(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		if v["@type"] == "Person" {
			return v, true
		}
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok && m["@type"] == "Person" {
				return m, true
			}
		}
	}
	return nil, false
}

// parseOpenGraph reads og:title and og:description. LinkedIn titles are
// typically "Name - Title - Company | LinkedIn".
func parseOpenGraph(doc *goquery.Document, pageURL string) (Data, bool) {
	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	summary, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	if title == "" {
		return Data{}, false
	}

	name := strings.TrimSpace(strings.ReplaceAll(title, " | LinkedIn", ""))
	headline := ""
	if strings.Contains(title, " - ") {
		parts := strings.Split(title, " - ")
		name = strings.TrimSpace(parts[0])
		headline = strings.TrimSpace(strings.ReplaceAll(strings.Join(parts[1:], " - "), " | LinkedIn", ""))
	}
	if name == "" {
		return Data{}, false
	}

	return Data{
		URL:      pageURL,
		Name:     name,
		Headline: headline,
		Summary:  summary,
	}, true
}

// mainText extracts the readable text of the page, preferring readability's
// article extraction and falling back to the stripped document body.
func mainText(doc *goquery.Document, html, pageURL string) string {
	if parsed, err := url.Parse(pageURL); err == nil {
		parser := readability.NewParser()
		article, err := parser.Parse(strings.NewReader(html), parsed)
		if err == nil && strings.TrimSpace(article.TextContent) != "" {
			return article.TextContent
		}
	}

	doc.Find("script, style, noscript").Remove()
	return doc.Find("body").Text()
}

// grade assigns the parse tier for text-heuristic results.
func grade(d Data) (Data, types.ScrapeTier) {
	if d.Name == "" {
		return d, types.TierFailed
	}
	return d, types.TierPartial
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
