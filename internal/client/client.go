// Package client calls the gateway and backend services on behalf of the
// terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"news_podcast/internal/config"
	"news_podcast/internal/middleware"
	"news_podcast/internal/models"

	"github.com/google/uuid"
)

// StatusError is a non-2xx answer. Message is the server's "error" text when
// it sent one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Client talks to the gateway (headlines, scraping) and the backend
// (summaries, explorations).
type Client struct {
	gatewayURL string
	backendURL string
	httpClient *http.Client
}

// New builds a Client from configuration.
func New(cfg config.ClientConfig) *Client {
	return &Client{
		gatewayURL: strings.TrimRight(cfg.GatewayURL, "/"),
		backendURL: strings.TrimRight(cfg.BackendURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Headlines returns the top headlines of category.
func (c *Client) Headlines(ctx context.Context, category models.Category, pageSize int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("category", string(category))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var out models.HeadlinesResponse
	if err := c.do(ctx, http.MethodGet, c.gatewayURL+"/api/news?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.Status == "error" {
		return nil, fmt.Errorf("headlines provider: %s", out.Message)
	}
	return out.Articles, nil
}

// Scrape asks the gateway to scrape articleURL.
func (c *Client) Scrape(ctx context.Context, articleURL string) (*models.ScrapedArticle, error) {
	var out models.ScrapedArticle
	if err := c.do(ctx, http.MethodPost, c.gatewayURL+"/api/scrapeNews", models.ScrapeRequest{URL: articleURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize requests a podcast about articles.
func (c *Client) Summarize(ctx context.Context, articles []models.Article, category models.Category) (models.GenerationResult, error) {
	var out models.SummaryResponse
	req := models.SummarizeRequest{Articles: articles, Category: string(category)}
	if err := c.do(ctx, http.MethodPost, c.backendURL+"/api/summarize", req, &out); err != nil {
		return models.GenerationResult{}, err
	}
	return models.GenerationResult{Text: out.Summary, AudioURL: out.AudioURL, Cached: out.Cached}, nil
}

// Explore requests a podcast about topic.
func (c *Client) Explore(ctx context.Context, topic string) (models.GenerationResult, error) {
	var out models.ExplorationResponse
	if err := c.do(ctx, http.MethodPost, c.backendURL+"/api/explore", models.ExploreRequest{Topic: topic}, &out); err != nil {
		return models.GenerationResult{}, err
	}
	return models.GenerationResult{Text: out.Exploration, AudioURL: out.AudioURL, Cached: out.Cached}, nil
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e models.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &e)
		return &StatusError{Status: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
