package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/fashion-catalog/internal/api"
	"github.com/example/fashion-catalog/internal/api/middleware"
	"github.com/example/fashion-catalog/internal/auth"
	"github.com/example/fashion-catalog/internal/command"
	"github.com/example/fashion-catalog/internal/config"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/infrastructure/kafka"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/projection"
	"github.com/example/fashion-catalog/internal/query"
	"github.com/example/fashion-catalog/internal/seed"
	"github.com/example/fashion-catalog/internal/upload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const uploadPrefix = "/uploads"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}
	if cfg.DevSecret() {
		log.Println("[API] WARNING: JWT_SECRET is not set, using the development secret")
	}

	log.Println("[API] ========================================")
	log.Println("[API] Fashion Catalog - CQRS Mode")
	log.Println("[API] ========================================")
	cfg.Print()

	var (
		eventStore store.EventStoreInterface
		readStore  store.ReadStoreInterface
		wg         sync.WaitGroup
	)

	if cfg.MockMode() {
		log.Println("[API] Using in-memory stores (mock data)")
		if cfg.UsesKafka() {
			log.Println("[API] Kafka brokers ignored in mock mode")
		}
		readStore = store.NewReadStore()
		eventStore = store.NewEventStore(projection.NewProjector(readStore))
	} else {
		db := openPostgres(ctx, cfg)
		defer db.Close()

		readStore = store.NewPostgresReadStore(db)
		projector := projection.NewProjector(readStore)

		var publisher store.Publisher = projector
		if cfg.UsesKafka() {
			producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
			defer producer.Close()
			publisher = producer
		}

		pgEventStore := store.NewPostgresEventStore(db, publisher)
		eventStore = pgEventStore

		// Replay existing events so read models survive schema resets
		log.Println("[API] Replaying events from PostgreSQL...")
		if n, err := projector.Replay(ctx, pgEventStore); err != nil {
			log.Printf("[API] Replay failed: %v", err)
		} else {
			log.Printf("[API] Event replay completed (%d events)", n)
		}

		if cfg.UsesKafka() && cfg.EmbeddedProjector {
			consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup)
			defer consumer.Close()

			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Println("[API] Starting Kafka consumer (async projection)...")
				if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
					log.Printf("[API] Projector error: %v", err)
				}
			}()
		}
	}

	cmdHandler := command.NewHandler(
		product.NewService(eventStore),
		category.NewService(eventStore),
		brand.NewService(eventStore),
		settings.NewService(eventStore),
		readStore,
	)
	queryHandler := query.NewHandler(readStore)

	if cfg.Seed {
		seeded, err := seed.Seed(ctx, cmdHandler, queryHandler)
		if err != nil {
			log.Fatalf("[API] Seeding catalog: %v", err)
		}
		if seeded {
			log.Println("[API] Seeded empty catalog with sample data")
		}
	}

	admin, err := auth.NewAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		log.Fatalf("[API] Admin account: %v", err)
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Printf("[API] Upload dir %s unavailable, uploads fall back to data URLs: %v", cfg.UploadDir, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handlers := api.NewHandlers(cmdHandler, queryHandler, upload.NewStore(cfg.UploadDir, uploadPrefix, cfg.UploadTimeout))
	authHandlers := api.NewAuthHandlers(admin, jwtService, cfg.SecureCookies)
	router := api.NewRouter(handlers, authHandlers, jwtService, api.RouterConfig{
		UploadDir:      cfg.UploadDir,
		UploadPrefix:   uploadPrefix + "/",
		Metrics:        middleware.NewMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown: %v", err)
	}

	wg.Wait()
}

func openPostgres(ctx context.Context, cfg config.Config) *sql.DB {
	if cfg.RunMigrations {
		if err := store.MigrateUp(cfg.DatabaseURL, false); err != nil {
			log.Fatalf("[API] Migrations failed: %v", err)
		}
	}

	db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("[API] Connected to PostgreSQL")
	return db
}
