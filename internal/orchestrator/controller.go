package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"news_podcast/internal/client"
	"news_podcast/internal/logger"
	"news_podcast/internal/models"
	"news_podcast/internal/render"
)

const scrapeFailed = "Failed to scrape article"

// HeadlinesClient loads top headlines.
type HeadlinesClient interface {
	Headlines(ctx context.Context, category models.Category, pageSize int) ([]models.Article, error)
}

// ScrapeClient extracts an article.
type ScrapeClient interface {
	Scrape(ctx context.Context, articleURL string) (*models.ScrapedArticle, error)
}

// SummaryClient generates podcast scripts.
type SummaryClient interface {
	Summarize(ctx context.Context, articles []models.Article, category models.Category) (models.GenerationResult, error)
	Explore(ctx context.Context, topic string) (models.GenerationResult, error)
}

// Player plays one audio source at a time.
type Player interface {
	Load(url string) error
	Play() error
	Pause() error
	Stop() error
}

// Viewer shows a scraped article.
type Viewer interface {
	ShowArticle(articleURL string, view render.DetailView) error
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Headlines HeadlinesClient
	Scraper   ScrapeClient
	Summaries SummaryClient
	Player    Player
	Viewer    Viewer
}

// Controller owns the single State value. Calls block for the duration of
// their network request; they run outside the lock so other actions stay
// responsive.
type Controller struct {
	mu       sync.Mutex
	state    State
	deps     Deps
	onChange func(State)
	log      *logger.Entry

	// playerMu orders player calls; boundSeq is the AudioSeq last applied.
	playerMu sync.Mutex
	boundSeq uint64
}

// New creates a Controller in the initial state.
func New(deps Deps) *Controller {
	return &Controller{
		state: Initial(),
		deps:  deps,
		log:   logger.Component("orchestrator"),
	}
}

// OnChange registers fn to receive a snapshot after every state change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// update applies fn under the lock and notifies the listener.
func (c *Controller) update(fn func(State) State) State {
	c.mu.Lock()
	c.state = fn(c.state)
	snapshot, listener := c.state.Clone(), c.onChange
	c.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}
	return snapshot
}

// Mount loads the initial headlines.
func (c *Controller) Mount(ctx context.Context) {
	var cmd *FetchCmd
	c.update(func(s State) State {
		s, cmd = Mount(s)
		return s
	})
	c.runFetch(ctx, cmd)
}

// SetCategory changes the headline category.
func (c *Controller) SetCategory(ctx context.Context, category models.Category) error {
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", category)
	}
	var cmd *FetchCmd
	c.update(func(s State) State {
		s, cmd = SetCategory(s, category)
		return s
	})
	c.runFetch(ctx, cmd)
	return nil
}

// SetPageSize changes the number of headlines.
func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	if !models.ValidPageSize(n) {
		return fmt.Errorf("unsupported page size %d", n)
	}
	var cmd *FetchCmd
	c.update(func(s State) State {
		s, cmd = SetPageSize(s, n)
		return s
	})
	c.runFetch(ctx, cmd)
	return nil
}

// SetMode switches between headline browsing and topic exploration.
func (c *Controller) SetMode(ctx context.Context, m Mode) {
	var cmd *FetchCmd
	c.update(func(s State) State {
		s, cmd = SetMode(s, m)
		return s
	})
	c.runFetch(ctx, cmd)
}

func (c *Controller) runFetch(ctx context.Context, cmd *FetchCmd) {
	if cmd == nil {
		return
	}

	articles, err := c.deps.Headlines.Headlines(ctx, cmd.Query.Category, cmd.Query.PageSize)
	if err != nil {
		c.log.WithError(err).WithField("category", cmd.Query.Category).Error("Error fetching news")
	}

	var applied bool
	c.update(func(s State) State {
		s, applied = HeadlinesLoaded(s, cmd.Seq, articles, err)
		return s
	})
	if !applied {
		c.log.WithField("seq", cmd.Seq).Debug("Dropped stale headlines response")
	}
}

// SetTopic records the exploration topic.
func (c *Controller) SetTopic(topic string) {
	c.update(func(s State) State { return SetTopic(s, topic) })
}

// Summarize requests a podcast about the current headlines.
func (c *Controller) Summarize(ctx context.Context) {
	var (
		ok       bool
		articles []models.Article
		category models.Category
	)
	c.update(func(s State) State {
		s, ok = StartSummarize(s)
		articles, category = s.Articles, s.Category
		return s
	})
	if !ok {
		return
	}

	res, err := c.deps.Summaries.Summarize(ctx, articles, category)
	if err != nil {
		c.log.WithError(err).Error("Error generating summary")
	}
	state := c.update(func(s State) State { return SummaryDone(s, res, err) })
	if err == nil {
		c.rebindPlayer(state.AudioSeq, state.AudioURL)
	}
}

// Explore requests a podcast about the current topic.
func (c *Controller) Explore(ctx context.Context) {
	var (
		ok    bool
		topic string
	)
	c.update(func(s State) State {
		s, topic, ok = StartExplore(s)
		return s
	})
	if !ok {
		return
	}

	res, err := c.deps.Summaries.Explore(ctx, topic)
	if err != nil {
		c.log.WithError(err).Error("Error exploring topic")
	}
	state := c.update(func(s State) State { return ExplorationDone(s, res, err) })
	if err == nil {
		c.rebindPlayer(state.AudioSeq, state.AudioURL)
	}
}

// rebindPlayer points the player at the audio of binding seq. A binding
// older than the one already applied is skipped.
func (c *Controller) rebindPlayer(seq uint64, url string) {
	if c.deps.Player == nil {
		return
	}
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	c.bindLocked(seq, url)
}

// bindLocked applies binding seq unless a newer one is in place. playerMu
// must be held.
func (c *Controller) bindLocked(seq uint64, url string) {
	if seq <= c.boundSeq {
		c.log.WithField("seq", seq).Debug("Skipped stale audio binding")
		return
	}
	c.boundSeq = seq

	var err error
	if url == "" {
		err = c.deps.Player.Stop()
	} else {
		err = c.deps.Player.Load(url)
	}
	if err != nil {
		c.log.WithError(err).Warn("Error loading audio")
	}
}

// TogglePlayback plays or pauses the current audio.
func (c *Controller) TogglePlayback() {
	var (
		op  PlayerOp
		seq uint64
		url string
	)
	c.update(func(s State) State {
		s, op = TogglePlayback(s)
		seq, url = s.AudioSeq, s.AudioURL
		return s
	})
	if op == OpNone || c.deps.Player == nil {
		return
	}

	c.playerMu.Lock()
	// A generation may have been applied without its binding reaching the
	// player yet.
	if seq > c.boundSeq {
		c.bindLocked(seq, url)
	}
	var err error
	if op == OpPlay {
		err = c.deps.Player.Play()
	} else {
		err = c.deps.Player.Pause()
	}
	c.playerMu.Unlock()
	if err != nil {
		c.log.WithError(err).Warn("Playback error")
		c.update(func(s State) State { return PlaybackFailed(s, err) })
	}
}

// Scrape extracts articleURL and hands the result to the viewer. A failure
// is recorded inline for that article.
func (c *Controller) Scrape(ctx context.Context, articleURL string) {
	var ok bool
	c.update(func(s State) State {
		s, ok = StartScrape(s, articleURL)
		return s
	})
	if !ok {
		return
	}

	article, err := c.deps.Scraper.Scrape(ctx, articleURL)
	if err != nil {
		c.log.WithError(err).WithField("url", articleURL).Error("Error scraping article")
		c.update(func(s State) State { return ScrapeDone(s, articleURL, failureText(err, scrapeFailed)) })
		return
	}
	c.update(func(s State) State { return ScrapeDone(s, articleURL, "") })

	if c.deps.Viewer == nil {
		return
	}
	if err := c.deps.Viewer.ShowArticle(articleURL, render.NewDetailView(*article)); err != nil {
		c.log.WithError(err).Warn("Error showing article")
	}
}

// DismissNotice clears the current notification.
func (c *Controller) DismissNotice() {
	c.update(DismissNotice)
}

// failureText is the server's error text, or fallback.
func failureText(err error, fallback string) string {
	var se *client.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}

func failureMessage(prefix string, err error) string {
	var se *client.StatusError
	if errors.As(err, &se) && se.Message != "" && se.Message != prefix {
		return prefix + ": " + se.Message
	}
	return prefix
}
