package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/veritas/internal/api"
	"github.com/Harshitk-cp/veritas/internal/buildconfig"
	"github.com/Harshitk-cp/veritas/internal/config"
	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/llm"
	"github.com/Harshitk-cp/veritas/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	_ = config.Load()

	logger, err := newLogger(config.LogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting veritas", zap.Any("build", buildconfig.VersionInfo()))

	ctx := context.Background()

	// A missing key is not fatal; collaborator routes answer CONFIG_ERROR.
	llmClient, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM collaborator not configured", zap.String("provider", config.LLMProvider()), zap.Error(err))
		llmClient = nil
	}

	rankings, closeStore, err := openRankingStore(ctx, logger)
	if err != nil {
		logger.Fatal("failed to open rankings store", zap.String("store", config.RankingsStore()), zap.Error(err))
	}
	defer closeStore()

	app := api.NewApp(api.Options{
		LLMClient:           llmClient,
		Rankings:            rankings,
		MaxTextLength:       config.MaxTextLength(),
		CollaboratorTimeout: config.CollaboratorTimeout(),
		RateLimitRPS:        config.RateLimitRPS(),
		RateLimitBurst:      config.RateLimitBurst(),
		AllowedOrigins:      config.CORSAllowedOrigins(),
	}, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// openRankingStore picks the rankings backend from RANKINGS_STORE. The
// returned func releases its connections.
func openRankingStore(ctx context.Context, logger *zap.Logger) (domain.RankingStore, func(), error) {
	switch kind := config.RankingsStore(); kind {
	case "memory":
		logger.Info("using in-memory rankings store")
		return store.NewMemoryRankingStore(), func() {}, nil

	case "postgres":
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres rankings store")
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		applied, err := store.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("connected to database", zap.Strings("migrations_applied", applied))
		return store.NewPostgresRankingStore(pool), pool.Close, nil

	case "redis":
		rdb, err := store.NewRedisClient(config.RedisURL())
		if err != nil {
			return nil, nil, err
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("connected to redis")
		return store.NewRedisRankingStore(rdb), func() { _ = rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown RANKINGS_STORE %q", kind)
	}
}
