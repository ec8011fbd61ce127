// Package podcast generates two-host podcast scripts and audio for headline
// summaries and free-topic explorations, reusing recent results from the
// cache.
package podcast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"news_podcast/internal/cache"
	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"
	"news_podcast/internal/models"
)

// ErrScript is returned when the script writer fails.
var ErrScript = errors.New("failed to generate script")

// Completer produces a chat completion for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Narrator turns a script into MP3 audio.
type Narrator interface {
	Narrate(ctx context.Context, script string) ([]byte, error)
}

// Service runs the summarize and explore workflows.
type Service struct {
	cache      *cache.Manager
	writer     Completer
	researcher Completer
	narrator   Narrator
	log        *logger.Entry
}

// NewService wires the generation workflow.
func NewService(c *cache.Manager, writer, researcher Completer, narrator Narrator) *Service {
	return &Service{
		cache:      c,
		writer:     writer,
		researcher: researcher,
		narrator:   narrator,
		log:        logger.Component("podcast"),
	}
}

// Summarize returns a podcast script about articles, keyed by category.
func (s *Service) Summarize(ctx context.Context, articles []models.Article, category string) (models.GenerationResult, error) {
	key := cache.Key(category)
	if res, ok := s.cached(ctx, models.KindSummary, key); ok {
		return res, nil
	}

	script, err := s.write(ctx, models.KindSummary, summaryPrompt(articles, category))
	if err != nil {
		return models.GenerationResult{}, err
	}

	s.cache.Save(ctx, models.KindSummary, key, script)
	return models.GenerationResult{
		Text:     script,
		AudioURL: s.voice(ctx, models.KindSummary, key, script),
	}, nil
}

// Explore returns a podcast script about the recent research on topic.
func (s *Service) Explore(ctx context.Context, topic string) (models.GenerationResult, error) {
	topic = strings.TrimSpace(topic)
	key := cache.Key(topic)
	if res, ok := s.cached(ctx, models.KindExploration, key); ok {
		return res, nil
	}

	research := s.research(ctx, topic)
	script, err := s.write(ctx, models.KindExploration, explorationPrompt(topic, research))
	if err != nil {
		return models.GenerationResult{}, err
	}

	s.cache.Save(ctx, models.KindExploration, key, script)
	return models.GenerationResult{
		Text:     script,
		AudioURL: s.voice(ctx, models.KindExploration, key, script),
	}, nil
}

func (s *Service) cached(ctx context.Context, kind models.Kind, key string) (models.GenerationResult, bool) {
	text, ok := s.cache.Lookup(ctx, kind, key)
	if !ok {
		return models.GenerationResult{}, false
	}
	s.log.WithFields(logger.Fields{"kind": kind, "key": key}).Info("Using cached result")
	return models.GenerationResult{
		Text:     text,
		AudioURL: s.cache.AudioURL(ctx, kind, key),
		Cached:   true,
	}, true
}

func (s *Service) write(ctx context.Context, kind models.Kind, prompt string) (string, error) {
	defer observe(kind, "script", time.Now())

	script, err := s.writer.Complete(ctx, writerSystemPrompt, prompt)
	if err != nil {
		s.log.WithField("kind", kind).Errorf("Error generating script: %v", err)
		return "", fmt.Errorf("%w: %v", ErrScript, err)
	}
	return script, nil
}

func (s *Service) research(ctx context.Context, topic string) string {
	defer observe(models.KindExploration, "research", time.Now())

	summary, err := s.researcher.Complete(ctx, researcherSystemPrompt, researchPrompt(topic))
	if err != nil {
		s.log.WithField("topic", topic).Warnf("Error searching research API: %v", err)
		return fallbackResearch(topic)
	}
	return summary
}

// voice narrates script and stores the audio. On failure the stored audio of
// key is cleared and "" is returned.
func (s *Service) voice(ctx context.Context, kind models.Kind, key, script string) string {
	defer observe(kind, "audio", time.Now())

	audio, err := s.narrator.Narrate(ctx, script)
	if err != nil {
		s.log.WithFields(logger.Fields{"kind": kind, "key": key}).Warnf("Error generating audio: %v", err)
		s.cache.SaveAudio(ctx, kind, key, nil)
		return ""
	}
	if !s.cache.SaveAudio(ctx, kind, key, audio) {
		return ""
	}
	return s.cache.AudioURL(ctx, kind, key)
}

func observe(kind models.Kind, stage string, start time.Time) {
	metrics.GenerationDuration.WithLabelValues(string(kind), stage).Observe(time.Since(start).Seconds())
}
