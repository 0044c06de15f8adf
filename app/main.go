package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedsink/app/api"
	"feedsink/app/cfg"
	"feedsink/app/database"
	"feedsink/app/feed"
	"feedsink/app/fetch"
	"feedsink/app/pipeline"
	"feedsink/app/registry"
	"feedsink/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was requested.
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("Starting feedsink", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort,
		appCfg.DBUser, appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "schema_version", version, "dirty", dirty)

	sources := registry.NewRegistry(appCfg.FeedsDir)
	if err := sources.Run(); err != nil {
		slog.Error("Failed to load feed sources", "dir", appCfg.FeedsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Feed sources loaded", "count", sources.Count(), "dir", appCfg.FeedsDir)

	metaRepo := database.NewMetadataRepository(db)
	itemRepo := database.NewItemRepository(db)
	jobRepo := database.NewJobRepository(db)

	// Register every source up front so metadata rows exist before the
	// first scheduler pass.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	for _, src := range sources.GetSources() {
		if err := metaRepo.Ensure(startupCtx, src.GetID(), src.GetUpdateInterval()); err != nil {
			slog.Warn("Failed to register feed metadata", "feed", src.GetID(), "error", err)
		}
	}
	startupCancel()

	fetcher := fetch.NewClient(fetch.Options{
		Timeout:       time.Duration(appCfg.FetchTimeout) * time.Second,
		MaxRedirects:  appCfg.MaxRedirects,
		SkipTLSVerify: appCfg.SkipTLSVerify,
		UserAgent:     appCfg.UserAgent,
	})

	parser := feed.NewParser()
	persister := pipeline.NewPersister(itemRepo, logger)
	errorHandler := pipeline.NewErrorHandler(metaRepo, logger)
	processor := pipeline.NewProcessor(fetcher, parser, persister, errorHandler, metaRepo, logger)

	scheduler := tasks.NewScheduler(sources, processor, metaRepo, jobRepo, db)
	scheduler.Start()
	defer scheduler.Stop()
	sources.Bind(scheduler)
	slog.Info("Scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	handler := api.NewHandler(sources, metaRepo, itemRepo, scheduler)
	engine := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer.
	slog.Info("Shutdown complete")
}
