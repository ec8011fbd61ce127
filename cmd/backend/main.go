// Command backend generates podcast summaries and explorations with audio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news_podcast/internal/cache"
	"news_podcast/internal/config"
	"news_podcast/internal/db"
	"news_podcast/internal/llm"
	"news_podcast/internal/logger"
	"news_podcast/internal/middleware"
	"news_podcast/internal/podcast"
	"news_podcast/internal/server"
	"news_podcast/internal/speech"

	"github.com/spf13/cobra"
)

const (
	upstreamTimeout = 60 * time.Second
	// Redis keys outlive the freshness window so audio stays playable.
	redisRetention = 24 * time.Hour
	pruneInterval  = time.Minute
	limiterIdle    = 10 * time.Minute
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "backend",
		Short:         "Podcast generation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(config.Path(configPath))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.json")

	logger.Init()
	defer logger.Log.Info("Application stopped")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Log.WithError(err).Error("Backend failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, health, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	manager := cache.NewManager(store, cfg.Backend.CacheTTL(), cfg.Backend.PublicURL)

	tts := speech.NewElevenLabs(cfg.Speech, upstreamTimeout)
	narrator := speech.NewNarrator(tts, cfg.Speech.HostAVoice, cfg.Speech.HostBVoice, cfg.Speech.Concurrency)

	svc := podcast.NewService(
		manager,
		llm.NewChatClient(cfg.Writer, upstreamTimeout),
		llm.NewChatClient(cfg.Researcher, upstreamTimeout),
		narrator,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	limiter.TrustProxies(cfg.RateLimit.TrustedProxies...)
	go limiter.StartPruning(ctx, pruneInterval, limiterIdle)

	backend := server.NewBackend(svc, manager, limiter, health)
	return server.Run(ctx, "backend", cfg.Backend.Addr, backend.Routes())
}

// openStore connects the configured cache backend. The returned pinger is
// nil for the in-memory store.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, server.Pinger, func(), error) {
	log := logger.Component("backend").WithField("store", cfg.Backend.CacheStore)

	switch cfg.Backend.CacheStore {
	case config.StorePostgres:
		database, err := db.NewDB(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, nil, fmt.Errorf("migrate cache schema: %w", err)
		}
		log.Info("Using Postgres cache")
		return database, database, database.Close, nil

	case config.StoreRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		store := cache.NewRedisStore(client, redisRetention)
		log.Info("Using Redis cache")
		return store, store, func() { client.Close() }, nil

	default:
		log.Info("Using in-memory cache")
		return cache.NewMemoryStore(), nil, func() {}, nil
	}
}
