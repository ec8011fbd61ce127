// Package scraper downloads a news page and extracts its title, authors,
// publish date and body text.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"news_podcast/internal/config"
	"news_podcast/internal/models"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

const maxPageBytes = 10 << 20

// ErrInvalidURL is returned for URLs that are not absolute http(s) links.
var ErrInvalidURL = errors.New("invalid article URL")

var (
	authorSeparators = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b|\|)\s*`)
	bylinePrefix     = regexp.MustCompile(`(?i)^\s*(?:by|written by|posted by)[:\s]+`)
	blankRuns        = regexp.MustCompile(`[ \t\x{00a0}]+`)
)

// Scraper fetches and parses article pages.
type Scraper struct {
	client    *http.Client
	userAgent string
	policy    *bluemonday.Policy
}

// New builds a Scraper from configuration.
func New(cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: cfg.Timeout()},
		userAgent: cfg.UserAgent,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Scrape downloads rawURL and extracts the article it contains.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*models.ScrapedArticle, error) {
	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download article: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}

	return s.Extract(body, pageURL)
}

// Extract parses an already downloaded page.
func (s *Scraper) Extract(page []byte, pageURL *url.URL) (*models.ScrapedArticle, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}

	// Readability failing only means we fall back to plain paragraphs.
	article, rErr := readability.FromReader(bytes.NewReader(page), pageURL)

	out := &models.ScrapedArticle{
		Title:       s.extractTitle(doc, article.Title),
		Authors:     s.extractAuthors(doc, article.Byline),
		PublishDate: extractPublishDate(doc),
	}

	if rErr == nil {
		out.Text = normalizeText(article.TextContent)
		out.Summary = s.clean(article.Excerpt)
	}
	if out.Text == "" {
		out.Text = paragraphText(doc)
	}
	if out.Summary == "" {
		out.Summary = s.clean(metaContent(doc, "meta[name='description']", "meta[property='og:description']"))
	}

	return out, nil
}

func (s *Scraper) extractTitle(doc *goquery.Document, readable string) string {
	if og := metaContent(doc, "meta[property='og:title']", "meta[name='twitter:title']"); og != "" {
		return s.clean(og)
	}
	if t := s.clean(readable); t != "" {
		return t
	}
	return s.clean(doc.Find("title").First().Text())
}

func (s *Scraper) extractAuthors(doc *goquery.Document, byline string) []string {
	var raw []string
	doc.Find("meta[name='author'], meta[property='article:author'], meta[name='parsely-author'], meta[name='byl']").Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok {
			raw = append(raw, v)
		}
	})
	doc.Find("[rel='author'], [itemprop='author'] [itemprop='name']").Each(func(_ int, sel *goquery.Selection) {
		raw = append(raw, sel.Text())
	})
	raw = append(raw, byline)

	seen := map[string]struct{}{}
	var authors []string
	for _, value := range raw {
		value = bylinePrefix.ReplaceAllString(s.clean(value), "")
		for _, name := range authorSeparators.Split(value, -1) {
			name = strings.TrimSpace(name)
			// profile URLs in article:author are not names
			if name == "" || strings.HasPrefix(name, "http") {
				continue
			}
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			authors = append(authors, name)
		}
	}
	return authors
}

func extractPublishDate(doc *goquery.Document) string {
	raw := metaContent(doc,
		"meta[property='article:published_time']",
		"meta[name='pubdate']",
		"meta[name='publishdate']",
		"meta[name='date']",
		"meta[itemprop='datePublished']",
	)
	if raw == "" {
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			raw = strings.TrimSpace(v)
		}
	}
	if raw == "" {
		return ""
	}
	if t, ok := models.ParseDate(raw); ok {
		return t.Format(time.RFC3339)
	}
	return raw
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if v, ok := doc.Find(selector).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func paragraphText(doc *goquery.Document) string {
	scope := doc.Find("article").First()
	if scope.Length() == 0 {
		scope = doc.Find("body")
	}
	var paragraphs []string
	scope.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if p := strings.TrimSpace(blankRuns.ReplaceAllString(sel.Text(), " ")); p != "" {
			paragraphs = append(paragraphs, p)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func normalizeText(text string) string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(blankRuns.ReplaceAllString(line, " ")); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// clean strips any markup and collapses whitespace.
func (s *Scraper) clean(value string) string {
	value = html.UnescapeString(s.policy.Sanitize(value))
	return strings.TrimSpace(blankRuns.ReplaceAllString(value, " "))
}
