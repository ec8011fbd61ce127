package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"
	"news_podcast/internal/models"
	"news_podcast/internal/scraper"
)

// ArticleScraper extracts an article from a page URL.
type ArticleScraper interface {
	Scrape(ctx context.Context, rawURL string) (*models.ScrapedArticle, error)
}

// ScraperAPI exposes an ArticleScraper over HTTP.
type ScraperAPI struct {
	scraper ArticleScraper
	log     *logger.Entry
}

// NewScraperAPI creates the scraper service handlers.
func NewScraperAPI(s ArticleScraper) *ScraperAPI {
	return &ScraperAPI{scraper: s, log: logger.Component("scraper")}
}

// Routes registers the scraper handlers.
func (s *ScraperAPI) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scrape", s.Scrape)
	mux.HandleFunc("GET /health", HealthCheck(nil))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// Scrape extracts the article at the posted URL.
func (s *ScraperAPI) Scrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	article, err := s.scraper.Scrape(r.Context(), req.URL)
	if errors.Is(err, scraper.ErrInvalidURL) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("url", req.URL).Error("Error scraping article")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, article)
}
