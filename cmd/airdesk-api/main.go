// Package main provides the Airdesk API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/airdesk-ai/airdesk/internal/cache"
	"github.com/airdesk-ai/airdesk/internal/config"
	"github.com/airdesk-ai/airdesk/internal/embedding"
	"github.com/airdesk-ai/airdesk/internal/engine"
	"github.com/airdesk-ai/airdesk/internal/flights"
	"github.com/airdesk-ai/airdesk/internal/intent"
	"github.com/airdesk-ai/airdesk/internal/llm"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
	"github.com/airdesk-ai/airdesk/internal/session"
	"github.com/airdesk-ai/airdesk/internal/storage"
	"github.com/airdesk-ai/airdesk/internal/vectorindex"
)

func main() {
	godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting Airdesk API")

	// Session store
	driver, dsn := databaseDSN(cfg)
	db, err := storage.Open(driver, dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer db.Close()
	if cfg.Database.Driver == "sqlite" && cfg.Database.SQLite.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.SQLite.MaxOpenConns)
	}
	if err := storage.Migrate(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate session store")
	}

	repo := storage.NewSessionRepository(db)
	sessions := session.NewManager(cfg.Conversation.MaxHistory, repo, logger)

	// Cache client
	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using in-memory cache")
			cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
		} else {
			cacheClient = redisClient
		}
	} else {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	defer cacheClient.Close()

	// Policy retrieval. A missing index is not fatal; policy questions
	// then answer from fallback text until `airdesk index` has run.
	var filter *retrieval.Filter
	if index, err := vectorindex.Load(cfg.Retrieval.IndexPath); err != nil {
		logger.Warn().Err(err).Str("path", cfg.Retrieval.IndexPath).
			Msg("Policy index unavailable, retrieval disabled")
	} else {
		embedder := embedding.NewClient(embedding.Config{
			BaseURL:   cfg.Embedding.BaseURL,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
			Timeout:   cfg.Embedding.Timeout,
		})
		opts := []retrieval.FilterOption{
			retrieval.WithResultWindow(cfg.Retrieval.KResults, cfg.Retrieval.SearchK),
		}
		if cfg.Retrieval.CacheResults {
			opts = append(opts, retrieval.WithResponseCache(
				retrieval.NewResponseCache(cacheClient, cfg.Cache.TTL)))
		}
		filter = retrieval.NewFilter(vectorindex.NewSearcher(index, embedder), logger, opts...)
		logger.Info().Int("documents", index.Count()).Msg("Policy index loaded")
	}

	// Language model
	completer := llm.NewClient(llm.Config{
		BaseURL:      cfg.Completion.BaseURL,
		Model:        cfg.Completion.Model,
		Temperature:  cfg.Completion.Temperature,
		MaxTokens:    cfg.Completion.MaxTokens,
		Timeout:      cfg.Completion.Timeout,
		MaxAttempts:  cfg.Completion.MaxAttempts,
		RetryBackoff: cfg.Completion.RetryBackoff,
	}, logger)

	var classifier intent.Classifier
	if cfg.Conversation.UseLLMFallback {
		classifier = llm.NewIntentClassifier(completer)
	}
	detector := intent.NewDetector(classifier, logger)

	flightSrc := flights.NewCachingSource(
		flights.NewMockSource(flights.WithResultsPerDay(cfg.Flights.ResultsPerDay)),
		cfg.Flights.CacheCapacity,
	)

	eng := engine.New(detector, flightSrc, filter, completer, logger)

	// Idle session janitor
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				sessions.Prune(session.DefaultMaxIdle)
			}
		}
	}()

	router := NewRouter(logger, eng, sessions, cfg.Server.ReadTimeout)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

// databaseDSN maps the configured driver to a database/sql driver name
// and connection string.
func databaseDSN(cfg *config.Config) (driver, dsn string) {
	if cfg.Database.Driver == "postgres" {
		return "postgres", cfg.Database.Postgres.DSN
	}
	dsn = fmt.Sprintf("file:%s?_journal_mode=%s",
		cfg.Database.SQLite.Path, cfg.Database.SQLite.JournalMode)
	return "sqlite3", dsn
}
