package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"news_podcast/internal/config"
	"news_podcast/internal/headlines"
	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"
	"news_podcast/internal/models"
	"news_podcast/internal/render"
)

const scrapeFailed = "Failed to scrape article"

// HeadlinesFetcher returns the raw top-headlines reply for a query.
type HeadlinesFetcher interface {
	Fetch(ctx context.Context, category, pageSize string) (*headlines.Response, error)
}

// Gateway serves the client-facing routes: the headlines passthrough, the
// scrape proxy and the article detail page.
type Gateway struct {
	news       HeadlinesFetcher
	scraperURL string
	client     *http.Client
	log        *logger.Entry
}

// NewGateway creates a Gateway forwarding scrape requests to cfg.ScraperURL.
func NewGateway(news HeadlinesFetcher, cfg config.GatewayConfig) *Gateway {
	return &Gateway{
		news:       news,
		scraperURL: strings.TrimRight(cfg.ScraperURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout()},
		log:        logger.Component("gateway"),
	}
}

// Routes registers the gateway handlers.
func (g *Gateway) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", g.Welcome)
	mux.HandleFunc("GET /api/news", g.GetNews)
	mux.HandleFunc("POST /api/scrapeNews", g.ScrapeNews)
	mux.HandleFunc("GET /article", g.Article)
	mux.HandleFunc("GET /health", HealthCheck(nil))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// Welcome lists the available routes.
func (g *Gateway) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>News Podcast Gateway</title></head>
<body>
	<h1>News Podcast Gateway</h1>
	<ul>
		<li><a href="/api/news?category=business&amp;pageSize=5">/api/news</a> - top headlines (category, pageSize)</li>
		<li>/api/scrapeNews - scrape an article (POST {"url": "..."})</li>
		<li>/article?url=&lt;url&gt; - read a scraped article</li>
		<li><a href="/health">/health</a></li>
		<li><a href="/metrics">/metrics</a></li>
	</ul>
</body>
</html>
`))
}

// GetNews passes the headlines provider's reply through unchanged.
func (g *Gateway) GetNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := g.news.Fetch(r.Context(), q.Get("category"), q.Get("pageSize"))
	if err != nil {
		g.log.WithError(err).Error("Error fetching news")
		writeError(w, http.StatusBadGateway, "Failed to fetch news")
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}

// ScrapeNews forwards {url} to the scraper service and relays its JSON
// answer with the upstream status.
func (g *Gateway) ScrapeNews(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.log.WithError(err).Warn("Error decoding scrape request")
		writeError(w, http.StatusInternalServerError, scrapeFailed)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	status, body, err := g.scrape(r.Context(), req.URL)
	if err != nil {
		g.log.WithError(err).WithField("url", req.URL).Error("Error scraping article")
		writeError(w, http.StatusInternalServerError, scrapeFailed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// Article renders the scraped article at ?url= as an HTML page.
func (g *Gateway) Article(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		http.Error(w, "URL is required", http.StatusBadRequest)
		return
	}

	status, body, err := g.scrape(r.Context(), target)
	if err != nil {
		g.log.WithError(err).WithField("url", target).Error("Error scraping article")
		http.Error(w, scrapeFailed, http.StatusBadGateway)
		return
	}
	if status != http.StatusOK {
		var e models.ErrorResponse
		if json.Unmarshal(body, &e) != nil || e.Error == "" {
			e.Error = scrapeFailed
		}
		http.Error(w, e.Error, http.StatusBadGateway)
		return
	}

	var article models.ScrapedArticle
	if err := json.Unmarshal(body, &article); err != nil {
		http.Error(w, scrapeFailed, http.StatusBadGateway)
		return
	}

	var page bytes.Buffer
	if err := render.HTML(&page, render.NewDetailView(article)); err != nil {
		g.log.WithError(err).Error("Error rendering article")
		http.Error(w, "Failed to render article", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Bytes())
}

// scrape posts target to the scraper service. The returned body is always
// valid JSON.
func (g *Gateway) scrape(ctx context.Context, target string) (int, []byte, error) {
	payload, err := json.Marshal(models.ScrapeRequest{URL: target})
	if err != nil {
		return 0, nil, fmt.Errorf("marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.scraperURL+"/scrape", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("new scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("call scraper: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read scraper response: %w", err)
	}
	if !json.Valid(body) {
		return 0, nil, errors.New("scraper returned invalid JSON")
	}
	return resp.StatusCode, body, nil
}
