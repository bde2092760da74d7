package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendtrack/internal/api"
	"attendtrack/internal/config"
	"attendtrack/internal/journal"
	"attendtrack/internal/metrics"
	"attendtrack/internal/queue"
	"attendtrack/internal/session"
	"attendtrack/internal/store"
)

func main() {
	cfg := config.Load()
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]func(context.Context) bool{}

	var redisClient *store.Redis
	if cfg.SessionBackend == "redis" || cfg.QueueBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()
		checks["redis"] = redisClient.Healthy
	}

	var sessions session.Store
	if cfg.SessionBackend == "redis" {
		sessions = session.NewRedisStore(redisClient.Client, "", cfg.SessionTTL)
	} else {
		sessions = session.NewInMemory(cfg.SessionTTL)
	}

	var repo *journal.Repository
	if cfg.DatabaseURL != "" {
		db, err := store.NewDB(ctx, cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			log.Printf("warning: db not reachable: %v", err)
		}
		if db != nil {
			defer db.Close()
			checks["db"] = db.Healthy
			repo = journal.NewRepository(db.Client)
			if err == nil {
				if err := repo.Migrate(ctx); err != nil {
					log.Printf("warning: journal migration failed: %v", err)
				}
			}
		}
	}

	var publisher *journal.Publisher
	if cfg.JournalEnabled {
		var q queue.Queue
		if cfg.QueueBackend == "redis" {
			q = queue.NewRedisQueue(redisClient.Client, "")
		} else {
			// nobody else can read an in-process queue, so consume it here
			q = queue.NewInMemory(256)
			var sink journal.Sink = journal.LogSink{}
			if repo != nil {
				sink = repo
			}
			go func() {
				if err := journal.Run(ctx, q, sink); err != nil {
					log.Printf("journal consumer stopped: %v", err)
				}
			}()
		}
		publisher = journal.NewPublisher(q)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := api.Deps{
		Config:   cfg,
		Sessions: sessions,
		Journal:  publisher,
		Metrics:  m,
		Checks:   checks,
	}
	if repo != nil {
		deps.Events = repo
	}
	r := api.NewServer(deps).Router()
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s (sessions=%s, queue=%s)", cfg.HTTPPort, cfg.SessionBackend, cfg.QueueBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
