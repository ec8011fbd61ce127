package browser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"

	"news_podcast/internal/client"
	"news_podcast/internal/config"
	"news_podcast/internal/models"
	"news_podcast/internal/orchestrator"
	"news_podcast/internal/render"
	"news_podcast/internal/server"

	"github.com/stretchr/testify/require"
)

func stubStart(t *testing.T) *[]string {
	t.Helper()
	var opened []string
	orig := start
	start = func(name string, args ...string) error {
		opened = append(opened, args[len(args)-1])
		return nil
	}
	t.Cleanup(func() { start = orig })
	return &opened
}

func newViewer(t *testing.T) *Viewer {
	t.Helper()
	v, err := NewViewer()
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return v
}

// pagePath turns an opened file:// URL back into a path.
func pagePath(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "file", u.Scheme)
	return u.Path
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	opened := stubStart(t)

	testCases := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tc := range testCases {
		err := Open(tc.url)
		if tc.wantErr {
			require.Error(t, err, tc.url)
		} else {
			require.NoError(t, err, tc.url)
		}
	}
	require.Equal(t, []string{"https://example.com", "http://example.com"}, *opened)
}

func TestViewerRendersGivenView(t *testing.T) {
	opened := stubStart(t)
	v := newViewer(t)

	view := render.NewDetailView(models.ScrapedArticle{
		Title:   "Rates <held>",
		Authors: []string{"Jane Doe"},
		Text:    "First paragraph.",
	})
	require.NoError(t, v.ShowArticle("https://a", view))
	require.Len(t, *opened, 1)

	page, err := os.ReadFile(pagePath(t, (*opened)[0]))
	require.NoError(t, err)
	require.Contains(t, string(page), "Rates &lt;held&gt;")
	require.Contains(t, string(page), "Jane Doe")
	require.Contains(t, string(page), "First paragraph.")

	require.NoError(t, v.Close())
	_, err = os.Stat(pagePath(t, (*opened)[0]))
	require.True(t, os.IsNotExist(err))
	require.Error(t, v.ShowArticle("https://a", view))
}

func TestScrapeInBrowserHitsScraperOnce(t *testing.T) {
	opened := stubStart(t)

	var hits atomic.Int32
	scraperSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: "blocked"})
			return
		}
		json.NewEncoder(w).Encode(models.ScrapedArticle{Title: "Only once", Text: "Body text."})
	}))
	defer scraperSrv.Close()

	gw := server.NewGateway(nil, config.GatewayConfig{ScraperURL: scraperSrv.URL, TimeoutSeconds: 5})
	gatewaySrv := httptest.NewServer(gw.Routes())
	defer gatewaySrv.Close()

	c := client.New(config.ClientConfig{GatewayURL: gatewaySrv.URL, BackendURL: gatewaySrv.URL, TimeoutSeconds: 5})
	ctrl := orchestrator.New(orchestrator.Deps{Scraper: c, Viewer: newViewer(t)})

	ctrl.Scrape(context.Background(), "https://news.example/story")

	require.Equal(t, int32(1), hits.Load())
	require.Equal(t, orchestrator.ScrapeStatus{}, ctrl.Snapshot().Scrapes["https://news.example/story"])
	require.Len(t, *opened, 1)

	page, err := os.ReadFile(pagePath(t, (*opened)[0]))
	require.NoError(t, err)
	require.Contains(t, string(page), "Only once")
	require.Contains(t, string(page), "Body text.")
}
