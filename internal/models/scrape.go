package models

// ScrapeRequest is the body accepted by the scrape routes.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ScrapedArticle is the extracted article returned by the scraper service.
// Every field may be missing when the page does not expose it.
type ScrapedArticle struct {
	Title       string   `json:"title,omitempty"`
	Text        string   `json:"text,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	PublishDate string   `json:"publish_date,omitempty"`
	Summary     string   `json:"summary,omitempty"`
}

// ErrorResponse is the JSON error body shared by all services.
type ErrorResponse struct {
	Error string `json:"error"`
}
