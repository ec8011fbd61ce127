// Package orchestrator owns the client view state: headline queries, the
// exploration mode, summary and exploration generation, audio playback and
// article scraping. State changes are pure functions; Controller performs the
// network calls and feeds their results back through them.
package orchestrator

import (
	"maps"
	"strings"

	"news_podcast/internal/models"
)

// Mode is the active exploration workflow.
type Mode int

const (
	ModeNews Mode = iota
	ModeTopic
)

func (m Mode) String() string {
	if m == ModeTopic {
		return "topic"
	}
	return "news"
}

// Phase is the headline fetch lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// NoticeKind classifies a user notification.
type NoticeKind string

const (
	NoticeCached    NoticeKind = "cached"
	NoticeGenerated NoticeKind = "generated"
	NoticeError     NoticeKind = "error"
)

// Notice is a one-off message for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Query identifies a headlines request.
type Query struct {
	Category models.Category
	PageSize int
}

// ScrapeStatus tracks the scrape action of one article.
type ScrapeStatus struct {
	Loading bool
	Err     string
}

// FetchCmd asks the controller to load headlines for Query. Seq tags the
// response so older answers can be discarded.
type FetchCmd struct {
	Seq   uint64
	Query Query
}

// PlayerOp is what the player must do after a playback toggle.
type PlayerOp int

const (
	OpNone PlayerOp = iota
	OpPlay
	OpPause
)

// State is a snapshot of the whole view.
type State struct {
	Mode     Mode
	Category models.Category
	PageSize int

	Mounted  bool
	Phase    Phase
	Articles []models.Article
	// Seq is the sequence number of the latest headline request.
	Seq uint64
	// Fetched is the query of the latest headline request.
	Fetched Query

	Topic         string
	IsSummarizing bool
	IsExploring   bool
	Summary       models.GenerationResult
	Exploration   models.GenerationResult

	// AudioURL is the source the player is bound to.
	AudioURL  string
	IsPlaying bool
	// AudioSeq counts audio bindings. The player follows only the latest.
	AudioSeq uint64

	Notice  *Notice
	Scrapes map[string]ScrapeStatus
}

// Initial returns the state before mount: news mode, business, five headlines.
func Initial() State {
	return State{
		Mode:     ModeNews,
		Category: models.DefaultCategory,
		PageSize: models.DefaultPageSize,
		Scrapes:  map[string]ScrapeStatus{},
	}
}

// Query returns the current headline query.
func (s State) Query() Query {
	return Query{Category: s.Category, PageSize: s.PageSize}
}

// CanSummarize reports whether Summarize would issue a request.
func (s State) CanSummarize() bool {
	return s.Mode == ModeNews && len(s.Articles) > 0 && !s.IsSummarizing
}

// CanExplore reports whether Explore would issue a request.
func (s State) CanExplore() bool {
	return s.Mode == ModeTopic && strings.TrimSpace(s.Topic) != "" && !s.IsExploring
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	s.Scrapes = maps.Clone(s.Scrapes)
	if s.Scrapes == nil {
		s.Scrapes = map[string]ScrapeStatus{}
	}
	if s.Notice != nil {
		n := *s.Notice
		s.Notice = &n
	}
	return s
}

// settle starts every transition: an error phase lasts for one snapshot only.
func settle(s State) State {
	s = s.Clone()
	if s.Phase == PhaseError {
		s.Phase = PhaseIdle
	}
	return s
}

func fetch(s State) (State, *FetchCmd) {
	s.Seq++
	s.Fetched = s.Query()
	s.Phase = PhaseLoading
	return s, &FetchCmd{Seq: s.Seq, Query: s.Fetched}
}

// Mount loads the first headlines.
func Mount(s State) (State, *FetchCmd) {
	s = settle(s)
	s.Mounted = true
	return fetch(s)
}

// SetCategory selects a category. Only a change while in news mode fetches.
func SetCategory(s State, c models.Category) (State, *FetchCmd) {
	if !c.Valid() || c == s.Category {
		return s, nil
	}
	s = settle(s)
	s.Category = c
	return refetch(s)
}

// SetPageSize selects how many headlines to load.
func SetPageSize(s State, n int) (State, *FetchCmd) {
	if !models.ValidPageSize(n) || n == s.PageSize {
		return s, nil
	}
	s = settle(s)
	s.PageSize = n
	return refetch(s)
}

func refetch(s State) (State, *FetchCmd) {
	if !s.Mounted || s.Mode != ModeNews {
		return s, nil
	}
	return fetch(s)
}

// SetMode switches workflow. Results and audio are kept; returning to news
// fetches when the query changed while in topic mode.
func SetMode(s State, m Mode) (State, *FetchCmd) {
	if m == s.Mode {
		return s, nil
	}
	s = settle(s)
	s.Mode = m
	if m == ModeNews && s.Mounted && s.Fetched != s.Query() {
		return fetch(s)
	}
	return s, nil
}

// HeadlinesLoaded applies the answer to request seq. It reports false when
// the answer is stale and was dropped.
func HeadlinesLoaded(s State, seq uint64, articles []models.Article, err error) (State, bool) {
	if seq != s.Seq {
		return s, false
	}
	s = s.Clone()
	if err != nil {
		s.Phase = PhaseError
		return s, true
	}
	s.Phase = PhaseReady
	s.Articles = articles
	return s, true
}

// SetTopic records the free-text topic.
func SetTopic(s State, topic string) State {
	s = settle(s)
	s.Topic = topic
	return s
}

// StartSummarize marks a summary request as running. It reports false when
// summarizing is not possible.
func StartSummarize(s State) (State, bool) {
	if !s.CanSummarize() {
		return s, false
	}
	s = settle(s)
	s.IsSummarizing = true
	return s, true
}

// SummaryDone applies a summary answer. On failure the previous summary and
// audio are kept.
func SummaryDone(s State, res models.GenerationResult, err error) State {
	s = settle(s)
	s.IsSummarizing = false
	if err != nil {
		s.Notice = &Notice{Kind: NoticeError, Message: failureMessage("Failed to generate summary", err)}
		return s
	}
	s.Summary = res
	s = bindAudio(s, res.AudioURL)
	s.Notice = generationNotice(res.Cached, "summary")
	return s
}

// StartExplore marks an exploration request as running and returns the
// trimmed topic.
func StartExplore(s State) (State, string, bool) {
	if !s.CanExplore() {
		return s, "", false
	}
	s = settle(s)
	s.IsExploring = true
	return s, strings.TrimSpace(s.Topic), true
}

// ExplorationDone applies an exploration answer.
func ExplorationDone(s State, res models.GenerationResult, err error) State {
	s = settle(s)
	s.IsExploring = false
	if err != nil {
		s.Notice = &Notice{Kind: NoticeError, Message: failureMessage("Failed to generate exploration", err)}
		return s
	}
	s.Exploration = res
	s = bindAudio(s, res.AudioURL)
	s.Notice = generationNotice(res.Cached, "exploration")
	return s
}

func bindAudio(s State, url string) State {
	s.AudioURL = url
	s.IsPlaying = false
	s.AudioSeq++
	return s
}

func generationNotice(cached bool, what string) *Notice {
	if cached {
		return &Notice{Kind: NoticeCached, Message: "Used cached " + what}
	}
	return &Notice{Kind: NoticeGenerated, Message: "Generated new " + what}
}

// TogglePlayback flips playback of the bound audio. Without audio nothing
// happens.
func TogglePlayback(s State) (State, PlayerOp) {
	if s.AudioURL == "" {
		return s, OpNone
	}
	s = settle(s)
	s.IsPlaying = !s.IsPlaying
	if s.IsPlaying {
		return s, OpPlay
	}
	return s, OpPause
}

// PlaybackFailed records a player error.
func PlaybackFailed(s State, err error) State {
	s = settle(s)
	s.IsPlaying = false
	s.Notice = &Notice{Kind: NoticeError, Message: failureMessage("Playback failed", err)}
	return s
}

// StartScrape marks url as being scraped. It reports false when a scrape of
// url is already running.
func StartScrape(s State, url string) (State, bool) {
	if url == "" || s.Scrapes[url].Loading {
		return s, false
	}
	s = settle(s)
	s.Scrapes[url] = ScrapeStatus{Loading: true}
	return s, true
}

// ScrapeDone clears the loading flag of url and records errMsg, if any.
func ScrapeDone(s State, url, errMsg string) State {
	s = settle(s)
	s.Scrapes[url] = ScrapeStatus{Err: errMsg}
	return s
}

// DismissNotice clears the notification.
func DismissNotice(s State) State {
	s = settle(s)
	s.Notice = nil
	return s
}
