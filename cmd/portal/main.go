package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AchilleasB/academy-portal/portal-client/internal/adapters/cli"
	"github.com/AchilleasB/academy-portal/portal-client/internal/adapters/gateway"
	"github.com/AchilleasB/academy-portal/portal-client/internal/adapters/handler"
	"github.com/AchilleasB/academy-portal/portal-client/internal/adapters/messaging"
	"github.com/AchilleasB/academy-portal/portal-client/internal/adapters/repository"
	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/services"
	"github.com/AchilleasB/academy-portal/portal-client/internal/telemetry"
)

// sessionStore is what the tab needs from a session backend.
type sessionStore interface {
	ports.SessionRepository
	ports.HealthChecker
}

func main() {
	if err := run(config.Load()); err != nil {
		log.Fatalf("portal: %v", err)
	}
}

// run owns every deferred cleanup so they complete before main exits.
func run(cfg *config.Config) error {
	vocab, err := config.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return err
	}

	shutdownTracing := telemetry.Setup("portal-client", cfg.Version)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("portal: error flushing traces: %v", err)
		}
	}()

	tabID := uuid.NewString()
	log.Printf("portal: tab %s, session backend %s", tabID, cfg.SessionBackend)

	store, closeStore, err := openSessionStore(cfg, tabID)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher ports.SessionEventPublisher
	if cfg.RabbitMQURL != "" {
		broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.SessionEventsQueue)
		if err != nil {
			log.Printf("portal: WARNING - session events disabled: %v", err)
		} else {
			defer broker.Close()
			publisher = broker
			log.Println("portal: connected to RabbitMQ")
		}
	}

	metrics := gateway.NewMetrics(prometheus.DefaultRegisterer)
	actionClient := gateway.NewActionClient(cfg, vocab, metrics)

	sessions := services.NewSessionService(store, vocab, cli.RedirectPrinter(os.Stdout), publisher, tabID)
	portal := services.NewPortalService(actionClient, sessions, vocab)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		healthHandler := handler.NewHealthHandler(map[string]ports.HealthChecker{
			"portal_api": actionClient,
			"sessions":   store,
		}, cfg.Version)

		mux := http.NewServeMux()
		mux.HandleFunc("/health", healthHandler.Health)
		mux.HandleFunc("/health/ready", healthHandler.Ready)
		mux.HandleFunc("/health/live", healthHandler.Live)
		mux.Handle("/metrics", promhttp.Handler())

		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: otelhttp.NewHandler(mux, "portal-client"),
		}
		go func() {
			log.Printf("portal: serving health and metrics on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("portal: metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell := cli.NewShell(portal, os.Stdin, os.Stdout, vocab)
	shell.StudentPage = cfg.FallbackPage

	done := make(chan error, 1)
	go func() {
		done <- shell.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("portal: received signal %v, closing tab...", sig)
		cancel()
		portal.Logout(context.Background())

	case err := <-done:
		if err != nil {
			log.Printf("portal: input error: %v", err)
		}
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("portal: error shutting down metrics server: %v", err)
		}
	}

	log.Println("portal: tab closed")
	return nil
}

// openSessionStore connects the configured backend. Redis and PostgreSQL
// failures are not fatal at startup; their circuit breakers decide once the
// shell starts using them.
func openSessionStore(cfg *config.Config, tabID string) (sessionStore, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("portal: WARNING - redis not reachable: %v", err)
		} else {
			log.Println("portal: connected to Redis")
		}
		return repository.NewRedisRepository(client, tabID, cfg.SessionTTL), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		repo := repository.NewSQLRepository(db, tabID, cfg.SessionTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Printf("portal: WARNING - could not prepare session table: %v", err)
		}
		return repo, func() {
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cleanupCancel()
			if err := repo.Purge(cleanupCtx); err != nil {
				log.Printf("portal: failed to purge tab rows: %v", err)
			}
			_ = db.Close()
		}, nil

	case config.BackendMemory, "":
		return repository.NewMemoryRepository(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}
