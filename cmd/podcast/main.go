// Command podcast is the terminal client: browse headlines, scrape
// articles, and listen to generated podcast summaries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"news_podcast/internal/browser"
	"news_podcast/internal/client"
	"news_podcast/internal/config"
	"news_podcast/internal/logger"
	"news_podcast/internal/orchestrator"
	"news_podcast/internal/player"
	"news_podcast/internal/tui"

	"github.com/spf13/cobra"
)

var version = "dev"

type options struct {
	configPath string
	logPath    string
	useBrowser bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	root := &cobra.Command{
		Use:           "podcast",
		Short:         "News headlines and two-host podcast summaries in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	root.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to config.json")
	root.Flags().StringVar(&opts.logPath, "log-file", filepath.Join(os.TempDir(), "news-podcast.log"), "where to write logs")
	root.Flags().BoolVar(&opts.useBrowser, "browser", false, "open scraped articles in the web browser")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadConfig(config.Path(opts.configPath))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init()
	logFile, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)

	c := client.New(cfg.Client)
	audio := player.NewCommand(cfg.Client.PlayerCommand)
	defer audio.Stop()

	deps := orchestrator.Deps{
		Headlines: c,
		Scraper:   c,
		Summaries: c,
		Player:    audio,
	}

	var pane *tui.PaneViewer
	if opts.useBrowser {
		viewer, err := browser.NewViewer()
		if err != nil {
			return err
		}
		defer viewer.Close()
		deps.Viewer = viewer
	} else {
		pane = tui.NewPaneViewer()
		deps.Viewer = pane
	}

	logger.Log.WithField("version", version).Info("Starting terminal client")
	return tui.Run(ctx, orchestrator.New(deps), pane)
}
