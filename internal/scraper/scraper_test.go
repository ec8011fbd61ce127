package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"news_podcast/internal/config"
	"news_podcast/internal/scraper"

	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback title | Daily Planet</title>
	<meta property="og:title" content="Markets rally on &amp; off">
	<meta name="author" content="Lois Lane and Clark Kent">
	<meta property="article:author" content="https://planet.example/staff/lois">
	<meta property="article:published_time" content="2024-03-05T09:30:00Z">
	<meta name="description" content="Stocks closed higher.">
</head>
<body>
	<nav><a href="/">Home</a></nav>
	<article>
		<h1>Markets rally</h1>
		<p class="byline">By <b>Lois Lane</b></p>
		<p>Stocks closed higher on Tuesday as investors cheered strong earnings from technology companies across the board.</p>
		<p>Analysts said the rally could continue into next week if inflation data comes in below expectations, though risks remain.</p>
		<p>Bond yields fell slightly while the dollar was little changed against a basket of major currencies during the session.</p>
	</article>
</body>
</html>`

func newScraper() *scraper.Scraper {
	return scraper.New(config.ScraperConfig{UserAgent: "test-agent", TimeoutSeconds: 5})
}

func TestExtract(t *testing.T) {
	pageURL, _ := url.Parse("https://planet.example/markets")

	article, err := newScraper().Extract([]byte(articlePage), pageURL)
	require.NoError(t, err)

	require.Equal(t, "Markets rally on & off", article.Title)
	require.Equal(t, []string{"Lois Lane", "Clark Kent"}, article.Authors[:2])
	require.Equal(t, "2024-03-05T09:30:00Z", article.PublishDate)
	require.Contains(t, article.Text, "Stocks closed higher on Tuesday")
	require.Contains(t, article.Text, "Bond yields fell slightly")
	require.NotContains(t, article.Text, "<p>")
	require.NotEmpty(t, article.Summary)
}

func TestExtract_MissingMetadata(t *testing.T) {
	pageURL, _ := url.Parse("https://example.com/bare")
	page := `<html><head><title>Bare page</title></head><body><p>Only one paragraph here.</p></body></html>`

	article, err := newScraper().Extract([]byte(page), pageURL)
	require.NoError(t, err)
	require.Equal(t, "Bare page", article.Title)
	require.Empty(t, article.Authors)
	require.Empty(t, article.PublishDate)
	require.Contains(t, article.Text, "Only one paragraph here.")
}

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articlePage))
	}))
	defer server.Close()

	s := newScraper()

	t.Run("ok", func(t *testing.T) {
		article, err := s.Scrape(context.Background(), server.URL+"/markets")
		require.NoError(t, err)
		require.Equal(t, "Markets rally on & off", article.Title)
	})

	t.Run("upstream 404", func(t *testing.T) {
		_, err := s.Scrape(context.Background(), server.URL+"/missing")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("invalid url", func(t *testing.T) {
		for _, raw := range []string{"", "not a url", "ftp://example.com/x", "file:///etc/passwd"} {
			_, err := s.Scrape(context.Background(), raw)
			require.ErrorIs(t, err, scraper.ErrInvalidURL, raw)
		}
	})
}

func TestExtract_AuthorsDeduplicated(t *testing.T) {
	pageURL, _ := url.Parse("https://example.com/a")
	page := `<html><head><meta name="author" content="By Jane Roe"><meta name="parsely-author" content="jane roe"></head><body><p>x</p></body></html>`

	article, err := newScraper().Extract([]byte(page), pageURL)
	require.NoError(t, err)
	require.Len(t, article.Authors, 1)
	require.True(t, strings.EqualFold("Jane Roe", article.Authors[0]))
}
