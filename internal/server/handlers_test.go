package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/coldopen/internal/config"
	"github.com/marcus/coldopen/internal/profile"
	"github.com/marcus/coldopen/internal/research"
	"github.com/marcus/coldopen/internal/scrape"
	"github.com/marcus/coldopen/internal/types"
)

type scrapeCall struct {
	URL    string
	Manual string
}

type fakeScraper struct {
	mu    sync.Mutex
	calls []scrapeCall
	fn    func(url, manual string) scrape.Result
}

func (f *fakeScraper) Scrape(_ context.Context, url, manualText string) scrape.Result {
	f.mu.Lock()
	f.calls = append(f.calls, scrapeCall{URL: url, Manual: manualText})
	f.mu.Unlock()
	return f.fn(url, manualText)
}

type fakeResearcher struct {
	fn func(name, headline, depth string) []research.Result
}

func (f *fakeResearcher) Research(_ context.Context, name, headline, depth string) []research.Result {
	if f.fn == nil {
		return nil
	}
	return f.fn(name, headline, depth)
}

type fakeGenerator struct {
	mu   sync.Mutex
	opts []types.BatchOptions
	fn   func(prof profile.Data) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, prof profile.Data, _ []research.Result, opts types.BatchOptions) (string, error) {
	f.mu.Lock()
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	if f.fn == nil {
		return "Opener for " + prof.Name, nil
	}
	return f.fn(prof)
}

func testSettings() config.Settings {
	return config.Settings{
		LLMProvider:     "openai",
		OpenAIAPIKey:    "sk-test",
		MaxURLsPerBatch: 10,
		Port:            8080,
	}
}

func fullResult(url, name string) scrape.Result {
	return scrape.Result{
		Profile: profile.Data{URL: scrape.NormalizeURL(url), Name: name, Headline: name + " headline"},
		Tier:    types.TierFull,
	}
}

func doGenerate(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResults(t *testing.T, rec *httptest.ResponseRecorder) []types.GenerationResult {
	t.Helper()
	var resp types.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Results
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func TestHealthReportsLLMKey(t *testing.T) {
	s := New(testSettings(), &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var health types.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.LLMConfigured)
}

func TestGenerateHappyPath(t *testing.T) {
	scraper := &fakeScraper{fn: func(url, _ string) scrape.Result {
		return fullResult(url, "Jane Smith")
	}}
	researcher := &fakeResearcher{fn: func(name, headline, depth string) []research.Result {
		assert.Equal(t, "Jane Smith", name)
		assert.Equal(t, types.DepthMedium, depth)
		return []research.Result{
			{Query: "q1", Snippets: []string{"s1", "s2", "s3"}},
			{Query: "q2", Snippets: []string{"s4", "s5", "s6"}},
		}
	}}
	generator := &fakeGenerator{}
	s := New(testSettings(), scraper, researcher, generator)

	rec := doGenerate(t, s, types.GenerationRequest{
		URLs: []string{"https://www.linkedin.com/in/jane", "https://www.linkedin.com/in/alex"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeResults(t, rec)
	require.Len(t, results, 2)

	assert.Equal(t, "https://www.linkedin.com/in/jane", results[0].URL)
	assert.Equal(t, "Jane Smith", results[0].Name)
	assert.Equal(t, "Opener for Jane Smith", results[0].Opener)
	assert.Equal(t, types.TierFull, results[0].ScrapeTier)
	assert.Empty(t, results[0].Error)
	// Six snippets across two queries, capped at five.
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, results[0].ResearchSnippets)

	assert.Equal(t, "https://www.linkedin.com/in/alex", results[1].URL)
}

func TestGenerateAppliesRequestDefaults(t *testing.T) {
	scraper := &fakeScraper{fn: func(url, _ string) scrape.Result {
		return fullResult(url, "Jane")
	}}
	generator := &fakeGenerator{}
	s := New(testSettings(), scraper, &fakeResearcher{}, generator)

	rec := doGenerate(t, s, map[string]any{"urls": []string{"https://www.linkedin.com/in/jane"}})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, generator.opts, 1)
	assert.Equal(t, types.DefaultCharLimit, generator.opts[0].CharLimit)
	assert.Equal(t, types.DefaultTone, generator.opts[0].Tone)
	assert.Equal(t, types.DefaultResearchDepth, generator.opts[0].ResearchDepth)
}

func TestGenerateFailedScrapeRow(t *testing.T) {
	scraper := &fakeScraper{fn: func(url, _ string) scrape.Result {
		return scrape.Result{
			Profile:    profile.Data{URL: url},
			Tier:       types.TierFailed,
			FailDetail: "Tier 1: HTTP 999",
		}
	}}
	s := New(testSettings(), scraper, &fakeResearcher{}, &fakeGenerator{})

	rec := doGenerate(t, s, types.GenerationRequest{URLs: []string{"https://www.linkedin.com/in/jane"}})

	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeResults(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "https://www.linkedin.com/in/jane", results[0].URL)
	assert.Equal(t, types.TierFailed, results[0].ScrapeTier)
	assert.Equal(t, "Scrape failed: Tier 1: HTTP 999. Please paste profile text manually.", results[0].Error)
	assert.Empty(t, results[0].Name)
	assert.Empty(t, results[0].Opener)
}

func TestGenerateManualProfilesReachScraper(t *testing.T) {
	scraper := &fakeScraper{fn: func(url, manual string) scrape.Result {
		if manual != "" {
			return scrape.Result{
				Profile: profile.Data{URL: url, Name: "Pasted Person"},
				Tier:    types.TierManual,
			}
		}
		return fullResult(url, "Scraped Person")
	}}
	s := New(testSettings(), scraper, &fakeResearcher{}, &fakeGenerator{})

	rec := doGenerate(t, s, types.GenerationRequest{
		URLs: []string{"https://www.linkedin.com/in/jane"},
		ManualProfiles: map[string]string{
			"https://www.linkedin.com/in/jane": "Pasted Person\nFounder",
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeResults(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, types.TierManual, results[0].ScrapeTier)
	assert.Equal(t, "Pasted Person", results[0].Name)

	require.Len(t, scraper.calls, 1)
	assert.Equal(t, "Pasted Person\nFounder", scraper.calls[0].Manual)
}

func TestGenerateGeneratorErrorBecomesRow(t *testing.T) {
	scraper := &fakeScraper{fn: func(url, _ string) scrape.Result {
		return fullResult(url, "Jane")
	}}
	generator := &fakeGenerator{fn: func(profile.Data) (string, error) {
		return "", errors.New("opener generation failed: rate limited")
	}}
	s := New(testSettings(), scraper, &fakeResearcher{}, generator)

	rec := doGenerate(t, s, types.GenerationRequest{URLs: []string{"https://www.linkedin.com/in/jane"}})

	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeResults(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "https://www.linkedin.com/in/jane", results[0].URL)
	assert.Equal(t, "opener generation failed: rate limited", results[0].Error)
	assert.Empty(t, results[0].Name)
	assert.Empty(t, results[0].ScrapeTier)
}

func TestGenerateMissingLLMKey(t *testing.T) {
	cfg := testSettings()
	cfg.OpenAIAPIKey = ""
	s := New(cfg, &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})

	rec := doGenerate(t, s, types.GenerationRequest{URLs: []string{"https://www.linkedin.com/in/jane"}})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "OpenAI API key not configured", decodeDetail(t, rec))
}

func TestGenerateMissingGeminiKey(t *testing.T) {
	cfg := testSettings()
	cfg.LLMProvider = "gemini"
	s := New(cfg, &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})

	rec := doGenerate(t, s, types.GenerationRequest{URLs: []string{"https://www.linkedin.com/in/jane"}})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Gemini API key not configured", decodeDetail(t, rec))
}

func TestGenerateBatchTooLarge(t *testing.T) {
	cfg := testSettings()
	cfg.MaxURLsPerBatch = 2
	s := New(cfg, &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})

	rec := doGenerate(t, s, types.GenerationRequest{
		URLs: []string{"https://a.test", "https://b.test", "https://c.test"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Maximum 2 URLs per batch", decodeDetail(t, rec))
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	s := New(testSettings(), &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "Invalid request body")
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty url list", map[string]any{"urls": []string{}}},
		{"missing urls", map[string]any{"tone": "casual"}},
		{"char limit below minimum", map[string]any{"urls": []string{"https://a.test"}, "char_limit": 10}},
		{"char limit above maximum", map[string]any{"urls": []string{"https://a.test"}, "char_limit": 5000}},
		{"unknown research depth", map[string]any{"urls": []string{"https://a.test"}, "research_depth": "exhaustive"}},
	}

	s := New(testSettings(), &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGenerate(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeDetail(t, rec), "Invalid request")
		})
	}
}

func TestGenerateLimitsConcurrency(t *testing.T) {
	var active, peak int64
	scraper := &fakeScraper{fn: func(url, _ string) scrape.Result {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return fullResult(url, "Jane")
	}}
	s := New(testSettings(), scraper, &fakeResearcher{}, &fakeGenerator{})

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://www.linkedin.com/in/p%d", i)
	}
	rec := doGenerate(t, s, types.GenerationRequest{URLs: urls})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(maxConcurrentURLs))
	assert.Len(t, decodeResults(t, rec), 8)
}

func TestCORSPreflight(t *testing.T) {
	s := New(testSettings(), &fakeScraper{}, &fakeResearcher{}, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
