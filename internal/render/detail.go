// Package render turns a scraped article into a placeholder-filled detail
// view, as an HTML document for browsers or plain text for the terminal.
package render

import (
	"html/template"
	"io"
	"strings"

	"news_podcast/internal/models"
)

// Placeholders shown for missing article fields.
const (
	NoTitle       = "No Title Available"
	DocumentTitle = "Scraped Article"
	Unknown       = "Unknown"
	NoContent     = "No content available"
)

const dateLayout = "January 2, 2006"

// DetailView is a scraped article with every field filled in.
type DetailView struct {
	DocumentTitle string
	Title         string
	Authors       string
	PublishDate   string
	Body          string
}

// NewDetailView applies the placeholder rules to a scraped article.
func NewDetailView(a models.ScrapedArticle) DetailView {
	v := DetailView{
		DocumentTitle: DocumentTitle,
		Title:         NoTitle,
		Authors:       Unknown,
		PublishDate:   Unknown,
		Body:          NoContent,
	}

	if title := strings.TrimSpace(a.Title); title != "" {
		v.Title = title
		v.DocumentTitle = title
	}

	var authors []string
	for _, name := range a.Authors {
		if name = strings.TrimSpace(name); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) > 0 {
		v.Authors = strings.Join(authors, ", ")
	}

	v.PublishDate = formatDate(a.PublishDate)

	switch {
	case strings.TrimSpace(a.Text) != "":
		v.Body = strings.TrimSpace(a.Text)
	case strings.TrimSpace(a.Summary) != "":
		v.Body = strings.TrimSpace(a.Summary)
	}
	return v
}

func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return Unknown
	}
	if t, ok := models.ParseDate(raw); ok {
		return t.Format(dateLayout)
	}
	return raw
}

// Paragraphs splits Body on blank lines.
func (v DetailView) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(v.Body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var page = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.DocumentTitle}}</title>
<style>
body { font-family: Georgia, serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; color: #222; }
h1 { font-size: 2rem; margin-bottom: .5rem; }
.meta { color: #666; font-size: .9rem; margin-bottom: 2rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
<p><strong>Authors:</strong> {{.Authors}}</p>
<p><strong>Published:</strong> {{.PublishDate}}</p>
</div>
<article>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</article>
</body>
</html>
`))

// HTML writes v as a standalone HTML document.
func HTML(w io.Writer, v DetailView) error {
	return page.Execute(w, v)
}

// Text renders v for a terminal pane.
func Text(v DetailView) string {
	var b strings.Builder
	b.WriteString(v.Title)
	b.WriteString("\n\nAuthors: ")
	b.WriteString(v.Authors)
	b.WriteString("\nPublished: ")
	b.WriteString(v.PublishDate)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(v.Paragraphs(), "\n\n"))
	return b.String()
}
