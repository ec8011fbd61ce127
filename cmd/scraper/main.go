// Command scraper extracts article text and metadata for the gateway.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"news_podcast/internal/config"
	"news_podcast/internal/logger"
	"news_podcast/internal/scraper"
	"news_podcast/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "scraper",
		Short:         "Article scraping service",
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

			api := server.NewScraperAPI(scraper.New(cfg.Scraper))
			return server.Run(cmd.Context(), "scraper", cfg.Scraper.Addr, api.Routes())
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.json")

	logger.Init()
	defer logger.Log.Info("Application stopped")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Log.WithError(err).Error("Scraper failed")
		stop()
		os.Exit(1)
	}
}
