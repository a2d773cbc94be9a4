package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/marcus/coldopen/internal/config"
	"github.com/marcus/coldopen/internal/llm"
	"github.com/marcus/coldopen/internal/opener"
	"github.com/marcus/coldopen/internal/research"
	"github.com/marcus/coldopen/internal/scrape"
	"github.com/marcus/coldopen/internal/server"
)

var (
	servePort      int
	serveNoBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the generation service",
	Long:  `Start an HTTP server exposing POST /api/generate and GET /api/health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "Disable the headless browser scraping tier")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	scraper := scrape.New(scrape.Options{
		ScraperAPIKey:  cfg.ScraperAPIKey,
		RateLimitDelay: cfg.RateLimitDelay,
		DisableBrowser: serveNoBrowser,
	})

	researcher, err := buildResearcher(cfg)
	if err != nil {
		return err
	}

	generator, closeLLM, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	return server.New(cfg, scraper, researcher, generator).Start()
}

// buildResearcher picks the research backend: Google Custom Search when a
// key and engine ID are configured, the keyless DuckDuckGo HTML endpoint
// otherwise.
func buildResearcher(cfg config.Settings) (*research.Researcher, error) {
	if cfg.GoogleSearchConfigured() {
		g, err := research.NewGoogleSearch(context.Background(), cfg.GoogleSearchAPIKey, cfg.GoogleSearchCX)
		if err != nil {
			return nil, err
		}
		log.Printf("[SERVER] Research backend: Google Custom Search")
		return research.New(g), nil
	}
	log.Printf("[SERVER] Research backend: DuckDuckGo")
	return research.New(research.NewDuckDuckGo("")), nil
}

// buildGenerator creates the opener generator and a cleanup func. Without an
// LLM key the generator is built unconfigured; the service then reports the
// missing key per request instead of refusing to start.
func buildGenerator(cfg config.Settings) (*opener.Generator, func(), error) {
	if !cfg.LLMConfigured() {
		log.Printf("[SERVER] No %s API key set; generation requests will be rejected until one is configured", cfg.LLMProvider)
		return opener.NewGenerator(nil), func() {}, nil
	}

	client, err := llm.NewClient(context.Background(), &llm.Config{
		Provider: llm.Provider(cfg.LLMProvider),
		APIKey:   cfg.LLMKey(),
		Model:    cfg.LLMModel,
		BaseURL:  cfg.OpenAIBaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	log.Printf("[SERVER] LLM backend: %s (%s)", cfg.LLMProvider, client.Model())
	return opener.NewGenerator(client), func() { _ = client.Close() }, nil
}
