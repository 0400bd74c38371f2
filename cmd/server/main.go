package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/JustJay7/court-case-lookup/internal/cache"
	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/internal/metrics"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/internal/server"
	"github.com/JustJay7/court-case-lookup/internal/store"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(database.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	})
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		log.Info("Database migrations completed successfully")
		return
	}

	records := cache.NewCache(cfg.CacheSize, cfg.CacheTTL)
	caseStore := store.New(db, records)

	loader, err := scraper.NewLoader(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize page loader", "error", err)
	}
	registry := scraper.NewDefaultRegistry(cfg, loader, log)

	m := metrics.New(prometheus.DefaultRegisterer)

	service := lookup.NewService(caseStore, registry, m, log, lookup.Options{
		HistoryLimit: cfg.HistoryLimit,
	})

	var closers []io.Closer
	closers = append(closers, loader)
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB)
	}

	srv := server.New(cfg, service, log, server.Options{
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Closers:  closers,
	})

	log.Info("Starting Court Case Lookup",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DatabaseDriver,
		"fetch_mode", cfg.FetchMode,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
