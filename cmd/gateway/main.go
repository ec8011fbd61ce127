// Command gateway serves headlines, the scrape proxy and article pages.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"news_podcast/internal/config"
	"news_podcast/internal/headlines"
	"news_podcast/internal/logger"
	"news_podcast/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Headlines and article gateway",
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

			news := headlines.NewClient(cfg.NewsAPI, cfg.Gateway.Timeout())
			gw := server.NewGateway(news, cfg.Gateway)
			return server.Run(cmd.Context(), "gateway", cfg.Gateway.Addr, gw.Routes())
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.json")

	logger.Init()
	defer logger.Log.Info("Application stopped")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Log.WithError(err).Error("Gateway failed")
		stop()
		os.Exit(1)
	}
}
