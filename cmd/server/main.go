// Command server starts the FAQ chat HTTP service.
//
// It loads the catalogue (compiled-in drone FAQ or a YAML file), wires the
// resolver behind the /api/v1/chat endpoint, and optionally attaches a Redis
// answer cache and a Kafka-backed analytics pipeline. Redis and Kafka are
// best-effort: the service answers questions without them.
//
// Usage:
//
//	go run ./cmd/server [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aerovia-labs/faq-service/internal/analytics"
	"github.com/aerovia-labs/faq-service/internal/chat/cache"
	"github.com/aerovia-labs/faq-service/internal/chat/handler"
	"github.com/aerovia-labs/faq-service/internal/faq"
	"github.com/aerovia-labs/faq-service/internal/match"
	"github.com/aerovia-labs/faq-service/internal/resolver"
	"github.com/aerovia-labs/faq-service/pkg/config"
	"github.com/aerovia-labs/faq-service/pkg/health"
	"github.com/aerovia-labs/faq-service/pkg/kafka"
	"github.com/aerovia-labs/faq-service/pkg/logger"
	"github.com/aerovia-labs/faq-service/pkg/metrics"
	"github.com/aerovia-labs/faq-service/pkg/middleware"
	pkgredis "github.com/aerovia-labs/faq-service/pkg/redis"
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

	catalogue, err := loadCatalogue(cfg.Chat)
	if err != nil {
		slog.Error("failed to load catalogue", "error", err)
		os.Exit(1)
	}
	slog.Info("starting chat service",
		"port", cfg.Server.Port,
		"faq_count", catalogue.Len(),
		"confidence_threshold", cfg.Chat.ConfidenceThreshold,
	)

	res := resolver.New(catalogue, resolver.Config{
		Threshold:       cfg.Chat.ConfidenceThreshold,
		FallbackMessage: cfg.Chat.FallbackMessage,
		Scorer:          match.NewHybrid(cfg.Chat.SimilarityWeight, cfg.Chat.KeywordWeight),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var answerCache *cache.AnswerCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, answer caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		answerCache = cache.New(redisClient, cfg.Redis)
		slog.Info("answer cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.ChatEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.ChatEvents)

	aggregator := analytics.NewAggregator(nil)
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ChatEvents, analytics.HandleEvent(aggregator))
	analyticsH := analytics.NewHandler(aggregator)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			slog.Error("analytics consumer error", "error", err)
		}
	}()

	m := metrics.New()
	m.CatalogueSize.Set(float64(catalogue.Len()))
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	checker := health.NewChecker("faq-service")
	checker.Extra["faq_count"] = catalogue.Len()
	checker.Register("catalogue", func(ctx context.Context) health.ComponentHealth {
		if catalogue.Len() > 0 {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d entries", catalogue.Len())}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "empty catalogue"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(res, answerCache, collector, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/chat", h.Chat)
	mux.HandleFunc("POST /api/v1/chat", h.Chat)
	mux.HandleFunc("GET /api/v1/catalogue", h.Catalogue)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/analytics", analyticsH.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	limiter := middleware.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RateLimit(limiter)(chain)
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
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("chat service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("chat service stopped")
}

// loadCatalogue picks the YAML catalogue file when configured and falls back
// to the compiled-in drone catalogue otherwise.
func loadCatalogue(cfg config.ChatConfig) (*faq.Catalogue, error) {
	if cfg.CataloguePath != "" {
		return faq.LoadFile(cfg.CataloguePath)
	}
	return faq.Drone(), nil
}
