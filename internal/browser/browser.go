// Package browser opens article pages in the system web browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"news_podcast/internal/render"
)

// start launches a command without waiting for it. Replaced in tests.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open launches the default browser on rawURL. Only http and https URLs are
// accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return launch(rawURL)
}

func launch(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return start("open", target)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return start("xdg-open", target)
	}
}

// fileURL returns the file:// URL of an absolute path.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// Viewer renders scraped articles to HTML pages in a private directory and
// opens them in a browser tab.
type Viewer struct {
	mu  sync.Mutex
	dir string
}

// NewViewer creates the page directory under the system temp dir.
func NewViewer() (*Viewer, error) {
	dir, err := os.MkdirTemp("", "news-podcast-articles-")
	if err != nil {
		return nil, fmt.Errorf("create article dir: %w", err)
	}
	return &Viewer{dir: dir}, nil
}

// ShowArticle writes view as an HTML page and opens it.
func (v *Viewer) ShowArticle(_ string, view render.DetailView) error {
	v.mu.Lock()
	dir := v.dir
	v.mu.Unlock()
	if dir == "" {
		return errors.New("article viewer is closed")
	}

	f, err := os.CreateTemp(dir, "article-*.html")
	if err != nil {
		return fmt.Errorf("create article page: %w", err)
	}
	if err := render.HTML(f, view); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("render article page: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write article page: %w", err)
	}

	path, err := filepath.Abs(f.Name())
	if err != nil {
		return err
	}
	return launch(fileURL(path))
}

// Close removes the rendered pages.
func (v *Viewer) Close() error {
	v.mu.Lock()
	dir := v.dir
	v.dir = ""
	v.mu.Unlock()
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
