package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/fashion-catalog/internal/config"
	"github.com/example/fashion-catalog/internal/infrastructure/kafka"
	"github.com/example/fashion-catalog/internal/infrastructure/store"
	"github.com/example/fashion-catalog/internal/projection"
)

// Standalone projector: consumes catalog events from Kafka and keeps the
// PostgreSQL read tables current. Run it next to an API started with
// EMBEDDED_PROJECTOR=false.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("[Projector] Invalid configuration: %v", err)
	}
	if cfg.DatabaseURL == "" || !cfg.UsesKafka() {
		log.Fatal("[Projector] DATABASE_URL and KAFKA_BROKERS are required")
	}

	log.Println("[Projector] ========================================")
	log.Println("[Projector] Fashion Catalog - CQRS Projector")
	log.Println("[Projector] ========================================")
	log.Printf("[Projector] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Projector] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Projector] Group: %s", cfg.KafkaGroup)

	db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Projector] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("[Projector] Connected to PostgreSQL (Read DB)")

	projector := projection.NewProjector(store.NewPostgresReadStore(db))

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup)
	defer consumer.Close()

	go func() {
		log.Printf("[Projector] Listening to topic: %s", cfg.KafkaTopic)
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Projector] Consumer error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Projector] Shutting down...")
	cancel()
}
