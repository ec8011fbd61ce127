package cache

import (
	"context"
	"sync"

	"news_podcast/internal/models"
)

type memoryKey struct {
	kind models.Kind
	key  string
}

// MemoryStore keeps everything in process memory. Used for local runs and
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	texts map[memoryKey]Entry
	audio map[memoryKey][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		texts: make(map[memoryKey]Entry),
		audio: make(map[memoryKey][]byte),
	}
}

func (s *MemoryStore) GetText(_ context.Context, kind models.Kind, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.texts[memoryKey{kind, key}]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (s *MemoryStore) PutText(_ context.Context, kind models.Kind, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[memoryKey{kind, key}] = entry
	return nil
}

func (s *MemoryStore) GetAudio(_ context.Context, kind models.Kind, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	audio, ok := s.audio[memoryKey{kind, key}]
	if !ok {
		return nil, ErrNotFound
	}
	return audio, nil
}

func (s *MemoryStore) PutAudio(_ context.Context, kind models.Kind, key string, audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(audio) == 0 {
		delete(s.audio, memoryKey{kind, key})
		return nil
	}
	s.audio[memoryKey{kind, key}] = append([]byte(nil), audio...)
	return nil
}

func (s *MemoryStore) HasAudio(_ context.Context, kind models.Kind, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.audio[memoryKey{kind, key}]
	return ok, nil
}
