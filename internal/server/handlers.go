package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/marcus/coldopen/internal/research"
	"github.com/marcus/coldopen/internal/types"
)

// maxConcurrentURLs bounds how many profiles are processed at once within a
// batch. Scraping and LLM calls are slow; more parallelism mostly trips
// upstream rate limits.
const maxConcurrentURLs = 3

// maxResponseSnippets caps how many research snippets one result carries
// back to the client.
const maxResponseSnippets = 5

// handleHealth reports service liveness and whether an LLM key is present.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.HealthStatus{
		Status:        "ok",
		LLMConfigured: s.cfg.LLMConfigured(),
	})
}

// handleGenerate runs the scrape, research, and generate chain for every URL
// in the batch. Each URL yields exactly one result row; per-URL failures are
// reported inside the row, never as a request-level error.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.ApplyDefaults()

	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if !s.cfg.LLMConfigured() {
		s.errorResponse(w, http.StatusInternalServerError, s.missingKeyMessage())
		return
	}

	if len(req.URLs) > s.cfg.MaxURLsPerBatch {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d URLs per batch", s.cfg.MaxURLsPerBatch))
		return
	}

	log.Printf("[SERVER] Generating openers for %d URLs (depth=%s, tone=%s)", len(req.URLs), req.ResearchDepth, req.Tone)

	results := make([]types.GenerationResult, len(req.URLs))
	var g errgroup.Group
	g.SetLimit(maxConcurrentURLs)
	for i, url := range req.URLs {
		g.Go(func() error {
			results[i] = s.processURL(r.Context(), url, req)
			return nil
		})
	}
	_ = g.Wait()

	s.jsonResponse(w, http.StatusOK, types.GenerateResponse{Results: results})
}

// processURL resolves one URL into a result row. The row always echoes the
// URL exactly as requested so clients can reconcile responses positionally
// or by key.
func (s *Server) processURL(ctx context.Context, url string, req types.GenerationRequest) (result types.GenerationResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[SERVER] Panic processing %s: %v", url, rec)
			result = types.GenerationResult{URL: url, Error: fmt.Sprint(rec)}
		}
	}()

	res := s.scraper.Scrape(ctx, url, req.ManualProfiles[url])

	if res.Tier == types.TierFailed {
		detail := res.FailDetail
		if detail == "" {
			detail = "All scraping tiers failed"
		}
		return types.GenerationResult{
			URL:        url,
			ScrapeTier: res.Tier,
			Error:      fmt.Sprintf("Scrape failed: %s. Please paste profile text manually.", detail),
		}
	}

	findings := s.researcher.Research(ctx, res.Profile.Name, res.Profile.Headline, req.ResearchDepth)

	opener, err := s.generator.Generate(ctx, res.Profile, findings, types.BatchOptions{
		MustInclude:   req.MustInclude,
		CharLimit:     req.CharLimit,
		Tone:          req.Tone,
		ResearchDepth: req.ResearchDepth,
	})
	if err != nil {
		log.Printf("[SERVER] Error processing %s: %v", url, err)
		return types.GenerationResult{URL: url, Error: err.Error()}
	}

	return types.GenerationResult{
		URL:              url,
		Name:             res.Profile.Name,
		Opener:           opener,
		ResearchSnippets: flattenSnippets(findings),
		ScrapeTier:       res.Tier,
	}
}

// missingKeyMessage names the provider whose key is absent.
func (s *Server) missingKeyMessage() string {
	if s.cfg.LLMProvider == "gemini" {
		return "Gemini API key not configured"
	}
	return "OpenAI API key not configured"
}

// flattenSnippets merges research snippets across queries, keeping query
// order, capped for response size.
func flattenSnippets(findings []research.Result) []string {
	var snippets []string
	for _, r := range findings {
		snippets = append(snippets, r.Snippets...)
	}
	if len(snippets) > maxResponseSnippets {
		snippets = snippets[:maxResponseSnippets]
	}
	return snippets
}
