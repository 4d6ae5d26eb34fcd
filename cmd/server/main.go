package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dawn-chorus/teamsync-service/internal/app/outboxops/queries/list_messages"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/scheduler"
	"github.com/dawn-chorus/teamsync-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration from environment variables
	config := loadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("starting teamsync service",
		"spanner_db", config.services.SpannerDB,
		"http_port", config.httpPort,
		"relay_interval", config.relayInterval,
		"reap_interval", config.reapInterval,
	)

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, logger, config.services)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Background jobs
	sched := scheduler.New(logger)
	sched.Add(serviceOpts.Relay, config.relayInterval)
	sched.Add(serviceOpts.Reaper, config.reapInterval)
	sched.Start(ctx)

	// 4. Operational HTTP surface
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/api/v1/outbox", outboxHandler(serviceOpts.ListOutboxMessages))

	httpServer := &http.Server{
		Addr:    ":" + config.httpPort,
		Handler: mux,
	}

	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	// 5. Graceful shutdown
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	sched.Wait()
	return nil
}

// outboxHandler exposes the operator read model: pending, processed, and
// failing outbox rows with their error details.
func outboxHandler(query *list_messages.Query) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &list_messages.Request{}
		if kind := r.URL.Query().Get("kind"); kind != "" {
			req.EventKind = &kind
		}
		if status := r.URL.Query().Get("status"); status != "" {
			req.Status = &status
		}
		if limit := r.URL.Query().Get("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			req.Limit = n
		}

		messages, err := query.Execute(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(messages); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type config struct {
	services services.Config

	httpPort      string
	relayInterval time.Duration
	reapInterval  time.Duration
}

// loadConfig loads configuration from environment variables with defaults.
func loadConfig() config {
	spannerDB := os.Getenv("SPANNER_DATABASE")
	if spannerDB == "" {
		// Default for local development with emulator
		spannerDB = "projects/test-project/instances/dev-instance/databases/teamsync-db"
	}

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return config{
		services: services.Config{
			SpannerDB:       spannerDB,
			SMTPHost:        envOr("SMTP_HOST", "localhost"),
			SMTPPort:        envOr("SMTP_PORT", "1025"),
			MailFrom:        os.Getenv("MAIL_FROM"),
			KafkaBrokers:    brokers,
			RelayBatchSize:  envInt("RELAY_BATCH_SIZE", 100),
			OutboxRetention: envDuration("OUTBOX_RETENTION", 30*24*time.Hour),
		},
		httpPort:      httpPort,
		relayInterval: envDuration("RELAY_INTERVAL", 5*time.Second),
		reapInterval:  envDuration("REAP_INTERVAL", time.Hour),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
