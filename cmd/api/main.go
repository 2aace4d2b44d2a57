package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/openpharm/medscheck-forms/internal/api/router"
	appconfig "github.com/openpharm/medscheck-forms/internal/config"
	"github.com/openpharm/medscheck-forms/internal/extraction"
	"github.com/openpharm/medscheck-forms/internal/forms"
	"github.com/openpharm/medscheck-forms/internal/http/handlers"
	"github.com/openpharm/medscheck-forms/internal/observability/metrics"
	"github.com/openpharm/medscheck-forms/internal/store"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medscheck-forms API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Record storage: Postgres when configured, in-memory otherwise.
	var repo store.RecordRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = store.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory record storage")
		repo = store.NewInMemoryRepository()
	}

	extractionMetrics := metrics.NewExtractionMetrics(nil)

	// Extraction service client. A missing API key selects heuristic-only
	// mode; the server still runs.
	var llm extraction.LLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := extraction.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create extraction client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		llm = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, running heuristic-only extraction")
	}

	extractor := extraction.NewExtractor(llm, extraction.ExtractorConfig{
		MaxTokens:   int32(cfg.ExtractionMaxTokens),
		Temperature: float32(cfg.ExtractionTemperature),
	}, logger, extractionMetrics)

	var cache extraction.CandidateCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()
		cache = store.NewExtractionCache(redisClient, cfg.ExtractionCacheTTL)
	}

	pipeline := extraction.NewPipeline(extractor, forms.NewEngine(), cache, logger, extractionMetrics)
	recordsHandler := handlers.NewRecordsHandler(repo, pipeline, cfg.ExtractionTimeout, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		Records:        recordsHandler,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
