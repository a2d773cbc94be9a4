// Package server provides the HTTP API of the opener generation service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/marcus/coldopen/internal/config"
	"github.com/marcus/coldopen/internal/profile"
	"github.com/marcus/coldopen/internal/research"
	"github.com/marcus/coldopen/internal/scrape"
	"github.com/marcus/coldopen/internal/types"
)

// ProfileScraper resolves one URL into profile data, optionally from pasted
// text instead of the network.
type ProfileScraper interface {
	Scrape(ctx context.Context, url, manualText string) scrape.Result
}

// ProspectResearcher gathers web snippets about a prospect.
type ProspectResearcher interface {
	Research(ctx context.Context, name, headline, depth string) []research.Result
}

// OpenerGenerator writes the opener line for a prospect.
type OpenerGenerator interface {
	Generate(ctx context.Context, prof profile.Data, findings []research.Result, opts types.BatchOptions) (string, error)
}

// Server wires the scraper, researcher, and generator behind the HTTP API.
type Server struct {
	httpServer *http.Server
	cfg        config.Settings
	validate   *validator.Validate

	scraper    ProfileScraper
	researcher ProspectResearcher
	generator  OpenerGenerator
}

// New creates a server around the given components.
func New(cfg config.Settings, scraper ProfileScraper, researcher ProspectResearcher, generator OpenerGenerator) *Server {
	s := &Server{
		cfg:        cfg,
		validate:   validator.New(),
		scraper:    scraper,
		researcher: researcher,
		generator:  generator,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // long timeout for scrape and LLM chains
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the configured handler chain. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers. The service is called from browser pages, so
// every origin is allowed.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response. Errors travel as a "detail"
// field, which clients surface directly to the operator.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"detail": message})
}
