package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmoret/travelwire/app/api"
	"github.com/dmoret/travelwire/app/cfg"
	"github.com/dmoret/travelwire/app/database"
	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/report"
	"github.com/dmoret/travelwire/app/scrape"
	"github.com/dmoret/travelwire/app/source"
	"github.com/dmoret/travelwire/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	if c.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Travelwire server", "version", c.Version)

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", c.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", c.DBPath, "schema_version", version, "dirty", dirty)

	configCache := source.NewConfigCache(c.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", c.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	itemRepo := database.NewItemRepository(db)
	snapshotRepo := database.NewSnapshotRepository(db)

	fetcher := scrape.NewFetcher(&http.Client{}, c.UserAgent)
	rssScraper := scrape.NewRSSScraper()
	htmlScraper := scrape.NewHTMLScraper()
	summaryExtractor := scrape.NewSummaryExtractor()

	tokenizer := metrics.NewTokenizer(configCache.GetExtraStopwords()...)
	aggregator := metrics.NewAggregator(tokenizer)

	markdownGen := report.NewMarkdownGenerator()
	dashboardGen, err := report.NewDashboardGenerator()
	if err != nil {
		slog.Error("Failed to initialize dashboard generator", "error", err)
		os.Exit(1)
	}

	scheduler := tasks.NewScheduler(configCache, itemRepo, snapshotRepo, fetcher,
		rssScraper, htmlScraper, summaryExtractor, aggregator, markdownGen, dashboardGen)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", c.WorkerCount,
		"interval", c.SchedulerInterval, "metrics_interval", c.MetricsInterval)

	apiHandler := api.NewHandler(itemRepo, snapshotRepo, configCache, markdownGen, dashboardGen, scheduler)
	server := api.NewServer(apiHandler, c.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
