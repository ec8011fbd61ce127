package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"news_podcast/internal/config"
	"news_podcast/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "podcast"

// RedisStore keeps scripts as JSON and audio as raw bytes. Keys expire after
// retention, which should be well above the freshness window.
type RedisStore struct {
	client    redis.UniversalClient
	retention time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisClient opens a client for cfg and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewRedisStore(client redis.UniversalClient, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func redisKey(kind models.Kind, key, part string) string {
	return fmt.Sprintf("%s:%s:%s:%s", redisPrefix, kind, key, part)
}

func (s *RedisStore) GetText(ctx context.Context, kind models.Kind, key string) (*Entry, error) {
	raw, err := s.client.Get(ctx, redisKey(kind, key, "text")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cached entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) PutText(ctx context.Context, kind models.Kind, key string, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(kind, key, "text"), raw, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) GetAudio(ctx context.Context, kind models.Kind, key string) ([]byte, error) {
	audio, err := s.client.Get(ctx, redisKey(kind, key, "audio")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get audio: %w", err)
	}
	return audio, nil
}

func (s *RedisStore) PutAudio(ctx context.Context, kind models.Kind, key string, audio []byte) error {
	k := redisKey(kind, key, "audio")
	if len(audio) == 0 {
		if err := s.client.Del(ctx, k).Err(); err != nil {
			return fmt.Errorf("redis del audio: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, k, audio, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set audio: %w", err)
	}
	return nil
}

func (s *RedisStore) HasAudio(ctx context.Context, kind models.Kind, key string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(kind, key, "audio")).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
