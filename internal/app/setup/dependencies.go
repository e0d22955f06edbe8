package setup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/client"
	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/cache"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/fee"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/gateway"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/logger"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/metrics"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/migrate"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const serviceName = "purchase-service"

type Dependencies struct {
	Config        *config.PurchaseConfig
	DB            *gorm.DB
	Registry      *prometheus.Registry
	Metrics       *metrics.PurchaseMetrics
	Publisher     *kafka.KafkaPublisher
	Subscriber    domain.SubscriberPort
	CatalogClient *client.CatalogClient
	Gateway       *gateway.SnapClient
	FeeCalculator *fee.DistanceFeeCalculator
	AuditLogger   *logger.PGAuditLogger
	GatewayZone   *time.Location
	Repositories  *Repositories
}

type Repositories struct {
	PurchaseRepo domain.PurchaseRepository
}

func InitializeDependencies(cfg *config.PurchaseConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)
	if cfg.PurchaseDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.PurchaseDB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	catalogClient, err := client.NewCatalogClient(
		fmt.Sprintf("%s:%s", cfg.CatalogService.Host, cfg.CatalogService.Port),
		cfg.CatalogService.Timeout,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}

	var purchaseRepo domain.PurchaseRepository = repository.NewDefaultPurchaseRepository(db)
	if cfg.Redis.Enabled {
		purchaseRepo = cache.NewCachedPurchaseRepository(purchaseRepo, cache.NewRedisCache(cfg.Redis.Addr, serviceName), cfg.Redis.TTL)
	}

	deps := &Dependencies{
		Config:        cfg,
		DB:            db,
		Registry:      registry,
		Metrics:       metrics.NewPurchaseMetrics(registry),
		CatalogClient: catalogClient,
		Gateway:       gateway.NewSnapClient(cfg.Gateway),
		FeeCalculator: fee.NewDistanceFeeCalculator(cfg.Fee),
		AuditLogger:   logger.NewPGAuditLogger(db),
		GatewayZone:   loadLocation(cfg.Gateway.TimeZone),
		Repositories:  &Repositories{PurchaseRepo: purchaseRepo},
	}

	if cfg.KafkaService.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		deps.Publisher = kafka.NewKafkaPublisher(brokers, cfg.KafkaService.PurchaseTopic)
		deps.Subscriber = kafka.NewDefaultKafkaSubscriber(brokers)
	} else {
		slog.Warn("kafka is not configured, purchase events will not be published")
	}

	return deps, nil
}

// Close releases the outbound connections. The database pool goes last.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			slog.Error("failed to close kafka publisher", "error", err)
		}
	}
	if err := d.CatalogClient.Close(); err != nil {
		slog.Error("failed to close catalog client", "error", err)
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown gateway time zone, falling back to UTC", "time_zone", name, "error", err)
		return time.UTC
	}
	return loc
}
