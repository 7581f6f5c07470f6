package main

import (
	"errors"
	"fmt"
	"myBrandStore/business/performance"
	"myBrandStore/internal/repository/badgerdb"
	"myBrandStore/internal/repository/catalog"
	"myBrandStore/internal/repository/events"
	"myBrandStore/internal/repository/notification"
	psqlRepo "myBrandStore/internal/repository/postgres"
	redisRepo "myBrandStore/internal/repository/redis"
	"myBrandStore/internal/repository/telemetry"
	"myBrandStore/pkg/config"
	"myBrandStore/pkg/database"
	badgerOpen "myBrandStore/pkg/database/badgerdb"
	redisClient "myBrandStore/pkg/database/redis"
	"myBrandStore/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"gorm.io/gorm"
)

type dependencies struct {
	metricsRepo performance.MetricsRepository
	telemetry   performance.TelemetrySink
	catalog     performance.CatalogService
	notifier    performance.NotificationRepository

	closers []func() error
}

func newDependencies(cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{}

	var db *gorm.DB
	if cfg.UsesPostgres() {
		var err error
		db, err = database.InitPostgres(cfg)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, func() error { return database.ClosePostgres(db) })

		if err := psqlRepo.AutoMigrate(db); err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database connected successfully")
	}

	if err := deps.initMetricsStore(cfg, db); err != nil {
		deps.Close()
		return nil, err
	}

	if err := deps.initTelemetry(cfg, db); err != nil {
		deps.Close()
		return nil, err
	}

	switch cfg.Catalog.Mode {
	case config.CatalogHTTP:
		deps.catalog = catalog.NewCatalogRepository(catalog.Config{
			BaseURL:     cfg.Catalog.BaseURL,
			APIKey:      cfg.Catalog.APIKey,
			Timeout:     cfg.Catalog.Timeout,
			MaxRetries:  cfg.Catalog.MaxRetries,
			BaseBackoff: cfg.Catalog.BaseBackoff,
			RateLimit:   cfg.Catalog.RateLimit,
		})
	case config.CatalogPostgres:
		deps.catalog = psqlRepo.NewCatalogRepository(db)
	}

	// Init notification from mailjet
	if cfg.Mailjet.MailjetBaseUrl != "" {
		deps.notifier = notification.NewMailjetRepository(
			notification.MailjetConfig{
				MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
				MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
				MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
				MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
				MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
			},
		)
	}

	return deps, nil
}

func (d *dependencies) initMetricsStore(cfg *config.Config, db *gorm.DB) error {
	switch cfg.Store.Backend {
	case config.StoreBadger:
		bdb, err := badgerOpen.Open(cfg.Store.BadgerPath)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { return badgerOpen.Close(bdb) })
		d.metricsRepo = badgerdb.NewMetricsRepository(bdb, cfg.Store.Key)

	case config.StoreRedis:
		client, err := redisClient.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { return redisClient.CloseRedisClient(client) })
		d.metricsRepo = redisRepo.NewMetricsRepository(client, cfg.Store.Key)

	case config.StorePostgres:
		d.metricsRepo = psqlRepo.NewMetricsRepository(db, cfg.Store.Key)
	}

	logger.Info("Metrics store ready", "backend", cfg.Store.Backend)
	return nil
}

func (d *dependencies) initTelemetry(cfg *config.Config, db *gorm.DB) error {
	var sinks performance.MultiSink

	if cfg.Telemetry.HTTPURL != "" {
		sinks = append(sinks, telemetry.NewHTTPSink(cfg.Telemetry.HTTPURL, cfg.Telemetry.Timeout))
	}

	if cfg.Telemetry.NatsURL != "" {
		pub, err := events.NewNatsPublisher(cfg.Telemetry.NatsURL, watermill.NewSlogLogger(logger.Slog()))
		if err != nil {
			return err
		}
		publisher := events.NewTelemetryPublisher(pub, cfg.Telemetry.NatsTopic)
		d.closers = append(d.closers, publisher.Close)
		sinks = append(sinks, publisher)
	}

	if cfg.Telemetry.PostgresLog {
		sinks = append(sinks, psqlRepo.NewTelemetryRepository(db))
	}

	if len(sinks) > 0 {
		d.telemetry = sinks
	}

	logger.Info("Telemetry sinks ready", "count", len(sinks))
	return nil
}

// Close releases resources in reverse order of acquisition.
func (d *dependencies) Close() {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil

	if err := errors.Join(errs...); err != nil {
		logger.Error("Failed to close dependencies", "error", err)
	}
}
