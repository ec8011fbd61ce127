// Package cache keeps generated podcast scripts and their audio for a short
// time so repeated requests for the same category or topic are not
// regenerated.
package cache

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"
	"news_podcast/internal/models"
)

// ErrNotFound is returned by a Store when nothing is stored under a key.
var ErrNotFound = errors.New("cache entry not found")

// Entry is a stored script and the time it was generated.
type Entry struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists scripts and audio. Freshness is decided by Manager, not by
// the store.
type Store interface {
	GetText(ctx context.Context, kind models.Kind, key string) (*Entry, error)
	PutText(ctx context.Context, kind models.Kind, key string, entry Entry) error
	GetAudio(ctx context.Context, kind models.Kind, key string) ([]byte, error)
	// PutAudio with empty audio removes any stored audio.
	PutAudio(ctx context.Context, kind models.Kind, key string, audio []byte) error
	HasAudio(ctx context.Context, kind models.Kind, key string) (bool, error)
}

// Manager applies the freshness window on top of a Store and builds the
// public audio locators.
type Manager struct {
	store     Store
	ttl       time.Duration
	publicURL string
	now       func() time.Time
	log       *logger.Entry
}

// NewManager wraps store; entries older than ttl are treated as missing.
func NewManager(store Store, ttl time.Duration, publicURL string) *Manager {
	return &Manager{
		store:     store,
		ttl:       ttl,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
		log:       logger.Component("cache"),
	}
}

// Key normalizes a category or topic into a cache key: lower case with
// single spaces.
func Key(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Lookup returns the fresh script stored under key. Store errors are logged
// and reported as a miss.
func (m *Manager) Lookup(ctx context.Context, kind models.Kind, key string) (string, bool) {
	entry, err := m.store.GetText(ctx, kind, key)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.CacheLookups.WithLabelValues(string(kind), "miss").Inc()
		return "", false
	case err != nil:
		metrics.CacheLookups.WithLabelValues(string(kind), "error").Inc()
		m.log.WithField("kind", kind).Warnf("Error retrieving from cache: %v", err)
		return "", false
	}

	if m.now().Sub(entry.CreatedAt) > m.ttl {
		metrics.CacheLookups.WithLabelValues(string(kind), "stale").Inc()
		return "", false
	}
	metrics.CacheLookups.WithLabelValues(string(kind), "hit").Inc()
	return entry.Text, true
}

// Save stores a freshly generated script.
func (m *Manager) Save(ctx context.Context, kind models.Kind, key, text string) {
	if err := m.store.PutText(ctx, kind, key, Entry{Text: text, CreatedAt: m.now().UTC()}); err != nil {
		m.log.WithField("kind", kind).Warnf("Error caching %s: %v", kind, err)
	}
}

// SaveAudio stores audio for key, or clears it when audio is empty so a new
// script never points at the audio of an older one.
func (m *Manager) SaveAudio(ctx context.Context, kind models.Kind, key string, audio []byte) bool {
	if err := m.store.PutAudio(ctx, kind, key, audio); err != nil {
		m.log.WithField("kind", kind).Warnf("Error caching audio: %v", err)
		return false
	}
	return len(audio) > 0
}

// AudioURL returns the public locator of the audio stored under key, or ""
// when there is none.
func (m *Manager) AudioURL(ctx context.Context, kind models.Kind, key string) string {
	ok, err := m.store.HasAudio(ctx, kind, key)
	if err != nil {
		m.log.WithField("kind", kind).Warnf("Error generating audio URL: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return m.audioURL(kind, key)
}

func (m *Manager) audioURL(kind models.Kind, key string) string {
	return m.publicURL + "/audio/" + string(kind) + "/" + url.PathEscape(key)
}

// Audio returns stored audio bytes.
func (m *Manager) Audio(ctx context.Context, kind models.Kind, key string) ([]byte, error) {
	return m.store.GetAudio(ctx, kind, key)
}
