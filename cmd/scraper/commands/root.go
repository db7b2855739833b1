package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vlr-scraper/internal/api"
	"vlr-scraper/internal/constants"
	fxmodules "vlr-scraper/internal/fx"
	"vlr-scraper/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	refresh bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "scraper",
	Short:        "scraper crawls vlr.gg and stores teams, players, events and matches.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "Re-fetch teams and events that are already stored.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", constants.CrawlTimeout, "Give up on the crawl after this long.")
}

func ExecuteContext(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps is what every crawl command needs from the container.
type deps struct {
	crawler *service.Crawler
	client  *api.VLRClient
	logger  zerolog.Logger
}

// runCrawl starts the scraper container, runs fn with a crawl deadline and
// stops the container again.
func runCrawl(cmd *cobra.Command, fn func(ctx context.Context, d deps) error) error {
	return runCrawlWith(cmd, fx.Options(), fn)
}

func runCrawlWith(cmd *cobra.Command, extra fx.Option, fn func(ctx context.Context, d deps) error) error {
	var (
		d     deps
		sqlDB *sql.DB
	)
	app := fx.New(
		fxmodules.ScraperModule,
		fx.NopLogger,
		fx.Populate(&d.crawler, &d.client, &d.logger, &sqlDB),
		extra,
	)
	if err := app.Err(); err != nil {
		return err
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		app.Stop(stopCtx)
		if sqlDB != nil {
			sqlDB.Close()
		}
	}()

	startCtx, cancel := context.WithTimeout(cmd.Context(), constants.ShutdownTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	d.crawler = d.crawler.WithRefresh(refresh)

	ctx, cancelCrawl := context.WithTimeout(cmd.Context(), timeout)
	defer cancelCrawl()

	start := time.Now()
	err := fn(ctx, d)

	stats := d.client.Stats()
	d.logger.Info().
		Int("requests", stats.Requests).
		Int("failures", stats.Failures).
		Int("pages", stats.Pages).
		Dur("elapsed", time.Since(start)).
		Msg("fetch summary")
	return err
}
