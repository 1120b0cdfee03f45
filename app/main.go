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

	"github.com/lysyi3m/bundle-desk/app/api"
	"github.com/lysyi3m/bundle-desk/app/cfg"
	"github.com/lysyi3m/bundle-desk/app/database"
	"github.com/lysyi3m/bundle-desk/app/insights"
	"github.com/lysyi3m/bundle-desk/app/settings"
	"github.com/lysyi3m/bundle-desk/app/sitemeta"
	"github.com/lysyi3m/bundle-desk/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown
		return
	}

	os.Exit(run(appConfig))
}

func run(appConfig *cfg.Cfg) int {
	setupLogger(appConfig.Debug)

	slog.Info("Starting Bundle Desk", "version", appConfig.Version, "bundle_dir", appConfig.BundleDir)

	reportSettings, err := settings.Load(appConfig.SettingsPath)
	if err != nil {
		slog.Error("Failed to load report settings", "path", appConfig.SettingsPath, "error", err)
		return 1
	}

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appConfig.DBPath, "error", err)
		return 1
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return 1
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "schema_version", version, "dirty", dirty)

	runRepo := database.NewTaskRunRepository(db)

	pipelines := tasks.Pipelines{
		Records:   appConfig.RecordsPaths(),
		Latest:    appConfig.LatestPaths(),
		Insights:  appConfig.InsightsPaths(),
		Generator: insights.NewGenerator(reportSettings),
	}

	interval := appConfig.SchedulerInterval
	if appConfig.RunOnce {
		interval = 0
	}

	scheduler := tasks.NewScheduler(pipelines.SessionTasks, runRepo, appConfig.WorkerCount, interval)
	scheduler.Start()
	defer scheduler.Stop()

	if appConfig.RunOnce {
		return runOnce(scheduler)
	}

	extractor := sitemeta.NewExtractor(nil, appConfig.UserAgent)
	handler := api.NewHandler(runRepo, scheduler, extractor, api.Paths{
		Bundle:   appConfig.BundlePath,
		Showcase: appConfig.ShowcasePath,
		Report:   pipelines.Insights.Report,
	})
	server := api.NewServer(handler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port, "periodic_interval", interval.String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
		exitCode = 1
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return exitCode
}

// runOnce regenerates every data file once and reports failure through the exit code
func runOnce(scheduler *tasks.Scheduler) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := scheduler.RunSession(ctx)
	if err != nil {
		slog.Error("End session failed", "error", err)
		return 1
	}

	for _, taskType := range tasks.SessionTaskTypes {
		result := session.Results[taskType]
		if result.Success {
			fmt.Fprintf(os.Stdout, "%s: %s\n", taskType, result.Stdout)
		} else {
			fmt.Fprintf(os.Stderr, "%s failed: %s\n", taskType, result.Error)
		}
	}

	if !session.Success() {
		return 1
	}
	return 0
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
