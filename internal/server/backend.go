package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"news_podcast/internal/cache"
	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"
	"news_podcast/internal/middleware"
	"news_podcast/internal/models"
)

// Generator produces podcast scripts with audio.
type Generator interface {
	Summarize(ctx context.Context, articles []models.Article, category string) (models.GenerationResult, error)
	Explore(ctx context.Context, topic string) (models.GenerationResult, error)
}

// AudioSource returns stored podcast audio.
type AudioSource interface {
	Audio(ctx context.Context, kind models.Kind, key string) ([]byte, error)
}

// Backend serves summarize, explore and the generated audio.
type Backend struct {
	gen     Generator
	audio   AudioSource
	limiter *middleware.RateLimiter
	health  Pinger
	log     *logger.Entry
}

// NewBackend creates a Backend. limiter and health may be nil.
func NewBackend(gen Generator, audio AudioSource, limiter *middleware.RateLimiter, health Pinger) *Backend {
	return &Backend{
		gen:     gen,
		audio:   audio,
		limiter: limiter,
		health:  health,
		log:     logger.Component("backend"),
	}
}

// Routes registers the backend handlers. Generation routes are rate limited.
func (b *Backend) Routes() *http.ServeMux {
	limit := func(h http.HandlerFunc) http.Handler {
		if b.limiter == nil {
			return h
		}
		return b.limiter.Middleware(h)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/summarize", limit(b.Summarize))
	mux.Handle("POST /api/explore", limit(b.Explore))
	mux.HandleFunc("GET /audio/{kind}/{key}", b.Audio)
	mux.HandleFunc("GET /health", HealthCheck(b.health))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// Summarize turns the posted articles into a podcast script.
func (b *Backend) Summarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Articles) == 0 || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "Articles and category are required")
		return
	}

	res, err := b.gen.Summarize(r.Context(), req.Articles, req.Category)
	if err != nil {
		b.log.WithError(err).WithField("category", req.Category).Error("Error generating summary")
		writeError(w, http.StatusInternalServerError, "Failed to generate summary")
		return
	}

	writeJSON(w, http.StatusOK, models.SummaryResponse{
		Summary:  res.Text,
		AudioURL: res.AudioURL,
		Cached:   res.Cached,
	})
}

// Explore turns a free-text topic into a podcast script.
func (b *Backend) Explore(w http.ResponseWriter, r *http.Request) {
	var req models.ExploreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "Topic is required")
		return
	}

	res, err := b.gen.Explore(r.Context(), req.Topic)
	if err != nil {
		b.log.WithError(err).WithField("topic", req.Topic).Error("Error generating exploration")
		writeError(w, http.StatusInternalServerError, "Failed to generate exploration")
		return
	}

	writeJSON(w, http.StatusOK, models.ExplorationResponse{
		Exploration: res.Text,
		AudioURL:    res.AudioURL,
		Cached:      res.Cached,
	})
}

// Audio streams a stored MP3.
func (b *Backend) Audio(w http.ResponseWriter, r *http.Request) {
	kind := models.Kind(r.PathValue("kind"))
	if kind != models.KindSummary && kind != models.KindExploration {
		http.NotFound(w, r)
		return
	}

	audio, err := b.audio.Audio(r.Context(), kind, r.PathValue("key"))
	if errors.Is(err, cache.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		b.log.WithError(err).Error("Error reading audio")
		http.Error(w, "Failed to read audio", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}
