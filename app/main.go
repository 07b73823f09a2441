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

	"techdigest/app/api"
	"techdigest/app/categorize"
	"techdigest/app/cfg"
	"techdigest/app/chat"
	"techdigest/app/database"
	"techdigest/app/digest"
	"techdigest/app/email"
	"techdigest/app/ingest"
	"techdigest/app/llm"
	"techdigest/app/sources"
	"techdigest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Tech Digest server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	configCache := sources.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetSourceCount())

	categoryRepo := database.NewCategoryRepository(db)
	articleRepo := database.NewArticleRepository(db)
	userRepo := database.NewUserRepository(db)
	subRepo := database.NewSubscriptionRepository(db)
	logRepo := database.NewDigestLogRepository(db)

	categoryCache := categorize.NewCategoryCache(categoryRepo)
	if err := categoryCache.Reload(); err != nil {
		slog.Error("Failed to load categories", "error", err)
		os.Exit(1)
	}
	slog.Info("Categories loaded", "count", categoryCache.Count())

	categorizer := categorize.NewCategorizer(categoryCache, articleRepo)
	syncer := ingest.NewSyncer(articleRepo, categorizer, categoryCache)

	emailSender := email.NewSender()
	if !emailSender.Enabled() {
		slog.Warn("SMTP transport not configured, digests will be logged but not delivered")
	}

	gate := digest.NewGate(logRepo)
	selector := digest.NewSelector(userRepo, subRepo, articleRepo, categoryCache, categorizer)
	orchestrator := digest.NewOrchestrator(gate, selector, emailSender, userRepo, logRepo, categorizer, categoryCache)

	llmClient := llm.NewClient()
	if !llmClient.Enabled() {
		slog.Warn("LLM not configured, summaries and chat are disabled")
	}
	chatService := chat.NewService(articleRepo, llmClient)

	httpClient := &http.Client{Timeout: 60 * time.Second}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, articleRepo, syncer, orchestrator, llmClient, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(categoryRepo, articleRepo, userRepo, subRepo, logRepo,
		categoryCache, selector, orchestrator, chatService, configCache)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Tech Digest server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Tech Digest server shutdown complete")
}
