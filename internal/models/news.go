package models

import "slices"

// Category is one of the headline sections the UI offers.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryScience       Category = "science"
	CategoryTechnology    Category = "technology"
	CategoryHealth        Category = "health"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{
	CategoryBusiness,
	CategoryScience,
	CategoryTechnology,
	CategoryHealth,
	CategorySports,
	CategoryEntertainment,
}

// PageSizes lists the selectable number of headlines per query.
var PageSizes = []int{5, 10, 15}

const (
	DefaultCategory = CategoryBusiness
	DefaultPageSize = 5
)

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// Source identifies the publisher of an Article.
type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Article is one headline as returned by the headlines provider. URL is the
// unique key.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Content     string `json:"content,omitempty"`
}

// HeadlinesResponse is the top-headlines payload.
type HeadlinesResponse struct {
	Status       string    `json:"status,omitempty"`
	TotalResults int       `json:"totalResults,omitempty"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
}
