// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/cart"
	"github.com/your-org/eventhub-storefront/internal/domain/catalog"
	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
	"github.com/your-org/eventhub-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/eventhub-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http"
	"github.com/your-org/eventhub-storefront/internal/interfaces/http/routes"
	"github.com/your-org/eventhub-storefront/internal/pkg/logger"
	"github.com/your-org/eventhub-storefront/internal/pkg/pdf"
	"github.com/your-org/eventhub-storefront/internal/pkg/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.WithFields(logrus.Fields{
		"version":      cfg.App.Version,
		"environment":  cfg.App.Environment,
		"catalog_mode": cfg.Catalog.Mode,
	}).Infof("🚀 Starting %s", cfg.App.Name)

	fixture, err := loadFixture(cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load event fixture")
	}

	// Cart snapshots and order handoff live in Redis when it is enabled
	var (
		redisConn   *redis.Client
		redisClient *goredis.Client
		cartKV      cart.KV
		handoff     checkout.Handoff
	)
	if cfg.Redis.Enabled {
		redisConn, err = redis.NewConnection(cfg, appLogger)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisConn.Close()

		redisClient = redisConn.GetClient()
		cartKV = redis.NewCartKV(redisClient, cfg.Cart.SnapshotTTL)
		handoff = redis.NewOrderHandoff(redisClient, cfg.Checkout.HandoffTTL)
	} else {
		appLogger.Warn("Redis disabled, using in-memory carts and order handoff")
		cartKV = cart.NewMemoryKV()
		handoff = checkout.NewMemoryHandoff(cfg.Checkout.HandoffTTL)
	}

	// Mock API repository
	var (
		eventRepo event.Repository
		db        *postgres.DB
	)
	if cfg.UsesPostgres() {
		db, err = postgres.NewConnection(cfg, appLogger)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		migration := postgres.NewMigration(db.GetDB(), appLogger)
		if err := migration.RunAutoMigrations(); err != nil {
			appLogger.WithError(err).Fatal("Database migration failed")
		}
		if err := migration.CreateIndexes(); err != nil {
			appLogger.WithError(err).Warn("Index creation failed")
		}
		if cfg.Mock.SeedOnStart {
			if err := migration.SeedEvents(fixture); err != nil {
				appLogger.WithError(err).Warn("Event seeding failed")
			}
		}

		eventRepo = postgres.NewEventRepository(db.GetDB())
	} else {
		eventRepo = event.NewMemoryRepository(fixture)
	}

	source, err := catalog.NewSource(cfg.Catalog, fixture)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to configure catalog source")
	}

	services := &routes.Services{
		MockResolver: catalog.NewResolver(eventRepo),
		Catalog:      catalog.NewService(source, appLogger),
		Cart:         cart.NewService(cartKV, cfg, appLogger),
		Checkout:     checkout.NewService(handoff, cfg, appLogger),
		PDF:          pdf.NewService(cfg),
		Sessions:     session.NewManager(cfg),
		Logger:       appLogger,
	}

	server := http.NewServer(cfg, services, redisClient, appLogger)
	if redisConn != nil {
		server.AddHealthCheck("redis", redisConn)
	}
	if db != nil {
		server.AddHealthCheck("database", db)
	}

	appLogger.Info("✅ All systems operational!")

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("✅ Server shutdown completed")
}

func loadFixture(cfg *config.Config) ([]event.Event, error) {
	if cfg.Mock.FixturePath != "" {
		return event.LoadFixture(cfg.Mock.FixturePath)
	}
	return event.DefaultFixture()
}
