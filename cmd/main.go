package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	_ "time/tzdata"

	"github.com/cicconee/marine-forecast/internal/config"
	"github.com/cicconee/marine-forecast/internal/forecast"
	"github.com/cicconee/marine-forecast/internal/notify"
	"github.com/cicconee/marine-forecast/internal/nws"
	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/cicconee/marine-forecast/internal/refresh"
	"github.com/cicconee/marine-forecast/internal/server"
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var envFile string

func main() {
	flag.StringVar(&envFile, "env", ".env", "the dotenv file to read configuration from")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalln(err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalln(err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	loader := &zone.Loader{Files: cfg.ZoneFiles(), Logger: logger}
	catalog, err := loader.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("loading zone geometry: %w", err)
	}

	finder, err := zone.NewDefaultFinder()
	if err != nil {
		return fmt.Errorf("creating time zone finder: %w", err)
	}
	resolver := zone.NewResolver(catalog, finder, logger)

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	var checks []server.HealthCheck

	var store forecast.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		ps := forecast.NewPostgresStore(db)
		if err := ps.Migrate(ctx); err != nil {
			return err
		}
		store = ps
		checks = append(checks, server.HealthCheck{Name: "postgres", Check: db.PingContext})
	} else {
		logger.Warn("DATABASE_URL not set, forecasts are kept in memory")
		store = forecast.NewMemoryStore()
	}

	client := &nws.Client{
		HTTP:      nws.NewRetryingHTTP(cfg.FetchRetries, cfg.FetchTimeout, logger),
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	}

	cache := forecast.NewCache(store, client, metrics, logger)

	if cfg.RedisURL != "" {
		ephemeral, err := forecast.NewRedisEphemeral(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer ephemeral.Close()

		cache.Ephemeral = ephemeral
		checks = append(checks, server.HealthCheck{Name: "redis", Check: ephemeral.Ping})
	} else {
		cache.Ephemeral = forecast.NewMemoryEphemeral(cache.Clock)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()

		cache.Notifier = publisher
	}

	srv := server.Server{
		Router:          chi.NewRouter(),
		Addr:            cfg.HTTPAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
		Forecasts:       forecast.New(resolver, cache, logger),
		Scheduler: &refresh.Scheduler{
			Cache:    cache,
			Store:    store,
			Zones:    resolver,
			Skip:     nws.Skipped,
			Workers:  cfg.InitWorkers,
			Interval: cfg.RefreshInterval,
			Clock:    cache.Clock,
			Logger:   logger,
			Metrics:  metrics,
		},
		Metrics:      metrics,
		HealthChecks: checks,
	}

	return srv.Start()
}
