// Package headlines fetches top headlines from NewsAPI.
package headlines

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news_podcast/internal/config"
	"news_podcast/internal/models"
)

// ErrMissingAPIKey is returned when no NewsAPI key is configured.
var ErrMissingAPIKey = errors.New("NEWS_API_KEY is not configured")

// Response is an upstream reply kept byte-for-byte so callers can pass it on.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client calls the NewsAPI top-headlines endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	country    string
	httpClient *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.NewsAPIConfig, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		country:    cfg.Country,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch requests the top headlines of category with pageSize entries. Empty
// arguments fall back to business and 5; values are otherwise forwarded as
// given and the provider's answer is returned unchanged, whatever its status.
func (c *Client) Fetch(ctx context.Context, category, pageSize string) (*Response, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if category == "" {
		category = string(models.DefaultCategory)
	}
	if pageSize == "" {
		pageSize = fmt.Sprint(models.DefaultPageSize)
	}

	params := url.Values{}
	params.Set("country", c.country)
	params.Set("category", category)
	params.Set("pageSize", pageSize)
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build headlines request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read headlines: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return &Response{StatusCode: resp.StatusCode, ContentType: contentType, Body: body}, nil
}
