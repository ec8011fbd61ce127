package models

// Kind separates the two generation workflows.
type Kind string

const (
	KindSummary     Kind = "summary"
	KindExploration Kind = "exploration"
)

// SummarizeRequest asks the backend for a podcast about the current headlines.
type SummarizeRequest struct {
	Articles []Article `json:"articles"`
	Category string    `json:"category"`
}

// ExploreRequest asks the backend for a podcast about a free-text topic.
type ExploreRequest struct {
	Topic string `json:"topic"`
}

// SummaryResponse is the body of a successful summarize call.
type SummaryResponse struct {
	Summary  string `json:"summary"`
	AudioURL string `json:"audio_url,omitempty"`
	Cached   bool   `json:"cached"`
}

// ExplorationResponse is the body of a successful explore call.
type ExplorationResponse struct {
	Exploration string `json:"exploration"`
	AudioURL    string `json:"audio_url,omitempty"`
	Cached      bool   `json:"cached"`
}

// GenerationResult is a generated script with its optional audio locator and
// whether it came from the cache.
type GenerationResult struct {
	Text     string
	AudioURL string
	Cached   bool
}
