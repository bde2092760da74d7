package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendtrack/internal/config"
	"attendtrack/internal/journal"
	"attendtrack/internal/queue"
	"attendtrack/internal/store"
)

// Worker drains the Redis journal queue into Postgres.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend != "redis" {
		log.Fatalf("worker needs QUEUE_BACKEND=redis; the memory queue is consumed by the API process")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("worker needs DATABASE_URL")
	}

	db, err := store.NewDB(ctx, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	repo := journal.NewRepository(db.Client)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("journal migration failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Printf("WARNING: redis not reachable at %s, will keep retrying", cfg.RedisAddr)
	}

	q := queue.NewRedisQueue(redisClient.Client, "")
	log.Println("worker started, waiting for journal events...")
	if err := journal.Run(ctx, q, repo); err != nil {
		log.Fatalf("journal consumer failed: %v", err)
	}
	log.Println("worker stopped")
}
