package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/cache"
	"github.com/ligafc/liga-engine/internal/config"
	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/database"
	"github.com/ligafc/liga-engine/internal/fantasy"
	server "github.com/ligafc/liga-engine/internal/http"
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/metrics"
	"github.com/ligafc/liga-engine/internal/modules"
	"github.com/ligafc/liga-engine/internal/projection"
	"github.com/ligafc/liga-engine/internal/pubsub"
	"github.com/ligafc/liga-engine/internal/schedule"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	moduleCfg := modules.DefaultConfig()
	if err := moduleCfg.Validate(); err != nil {
		log.Fatalf("Invalid module configuration: %s", err)
	}

	participants := league.New(db)
	fixtures := schedule.NewStore(db)
	snapshots := consolidation.NewStore(db)
	events := ledger.NewStore(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	upstream := fantasy.NewClient(cfg.Upstream.BaseURL)
	scores := fantasy.NewScoreService(upstream)
	pubsubClient := pubsub.New(cfg.ProjectID)

	aggregator := ledger.NewAggregator(cfg.League.ID, cfg.League.Season, participants, snapshots, events)
	ledgerCache := cache.NewService(cfg.League.ID, cfg.League.Season, cache.NewStore(db), aggregator, metricsSvc, pubsubClient)
	consolidator := consolidation.New(
		cfg.League.ID, cfg.League.Season, moduleCfg,
		participants, fixtures, snapshots,
		scores, upstream, ledgerCache, metricsSvc, pubsubClient,
	)
	projectionSvc := projection.NewService(cfg.League.ID, consolidator, projection.DefaultTTL, metricsSvc)

	s := server.NewServer(
		participants,
		fixtures,
		snapshots,
		consolidator,
		projectionSvc,
		ledgerCache,
		aggregator,
		events,
		metricsSvc,
		metricsHandler,
		cfg,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port, "leagueID", cfg.League.ID, "season", cfg.League.Season)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
