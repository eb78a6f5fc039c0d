// Command analytics starts the standalone chat-analytics aggregation
// service.
//
// It consumes chat events from Kafka, aggregates them in memory (question
// volume, answered/fallback split, latency percentiles, top questions), and
// exposes the result at GET /api/v1/analytics. When PostgreSQL is reachable,
// aggregated snapshots are persisted periodically.
//
// Usage:
//
//	go run ./cmd/analytics [-config configs/development.yaml]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aerovia-labs/faq-service/internal/analytics"
	"github.com/aerovia-labs/faq-service/internal/analytics/store"
	"github.com/aerovia-labs/faq-service/pkg/config"
	"github.com/aerovia-labs/faq-service/pkg/health"
	"github.com/aerovia-labs/faq-service/pkg/kafka"
	"github.com/aerovia-labs/faq-service/pkg/logger"
	"github.com/aerovia-labs/faq-service/pkg/middleware"
	"github.com/aerovia-labs/faq-service/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting analytics service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregator := analytics.NewAggregator(nil)
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ChatEvents, analytics.HandleEvent(aggregator))
	go func() {
		if err := consumer.Start(ctx); err != nil {
			slog.Error("consumer error", "error", err)
		}
	}()
	slog.Info("chat event consumer started", "topic", cfg.Kafka.Topics.ChatEvents)

	var db *postgres.Client
	var snapshots *store.Store
	db, err = postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, snapshot persistence disabled", "error", err)
		db = nil
	} else {
		defer db.Close()
		snapshots = store.New(db)
		snapshots.StartPeriodicSave(ctx, aggregator, cfg.Postgres.SnapshotEvery)
	}

	checker := health.NewChecker("faq-analytics")
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if db == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := db.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	analyticsH := analytics.NewHandler(aggregator)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/analytics", analyticsH.Stats)
	mux.HandleFunc("GET /api/v1/analytics/snapshots", listSnapshotsHandler(snapshots))
	mux.HandleFunc("GET /api/v1/analytics/snapshots/latest", latestSnapshotHandler(snapshots))
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("analytics service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("analytics service stopped")
}

// listSnapshotsHandler serves the persisted snapshot history, newest first.
// The limit query parameter caps the result (default 10, max 100).
func listSnapshotsHandler(snapshots *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snapshots == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot persistence is disabled"})
			return
		}
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if limit > 100 {
			limit = 100
		}
		list, err := snapshots.ListSnapshots(r.Context(), limit)
		if err != nil {
			slog.Error("failed to list snapshots", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list snapshots"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count":     len(list),
			"snapshots": list,
		})
	}
}

// latestSnapshotHandler serves the most recent persisted snapshot.
func latestSnapshotHandler(snapshots *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snapshots == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot persistence is disabled"})
			return
		}
		latest, err := snapshots.LatestSnapshot(r.Context())
		if err != nil {
			slog.Error("failed to load latest snapshot", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load latest snapshot"})
			return
		}
		if latest == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshots captured yet"})
			return
		}
		writeJSON(w, http.StatusOK, latest)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
