package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/krushisathi/krushi-sathi/internal/domain/advisory"
	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
	"github.com/krushisathi/krushi-sathi/internal/domain/updates"
	"github.com/krushisathi/krushi-sathi/internal/infra/advisoryrepo"
	"github.com/krushisathi/krushi-sathi/internal/infra/config"
	"github.com/krushisathi/krushi-sathi/internal/infra/imagestore"
	"github.com/krushisathi/krushi-sathi/internal/infra/llm/gemini"
	"github.com/krushisathi/krushi-sathi/internal/infra/ratelimit"
	"github.com/krushisathi/krushi-sathi/internal/infra/weather/openmeteo"
	httpiface "github.com/krushisathi/krushi-sathi/internal/interface/http"
)

func provideAdvisoryConfig(cfg *config.Config) advisory.Config {
	return advisory.Config{
		Model:           cfg.AI.Model,
		FallbackModel:   cfg.AI.FallbackModel,
		Temperature:     cfg.AI.Temperature,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
		Timeout:         cfg.AI.Timeout,
		RequireAI:       cfg.AI.RequireAI,
	}
}

func provideUpdatesConfig(cfg *config.Config) updates.Config {
	return updates.Config{
		DefaultLat: cfg.Updates.DefaultLat,
		DefaultLon: cfg.Updates.DefaultLon,
	}
}

// provideGeminiClient returns nil when no API key is configured; the
// advisory service then serves template advisories instead.
func provideGeminiClient(cfg *config.Config, logger *slog.Logger) advisory.GenerateClient {
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		logger.Warn("ai api key not set, template advisories only")
		return nil
	}
	client, err := gemini.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL)
	if err != nil {
		logger.Error("failed to build gemini client, template advisories only", "error", err)
		return nil
	}
	logger.Info("gemini client enabled", "model", cfg.AI.Model)
	return client
}

func provideWeatherClient(cfg *config.Config) updates.WeatherClient {
	return openmeteo.NewClient(cfg.Updates.WeatherBaseURL)
}

// provideImageStore is optional infrastructure; advisory generation
// never depends on it succeeding.
func provideImageStore(cfg *config.Config, logger *slog.Logger) advisory.ImageStore {
	if !cfg.ImageStore.Enabled {
		return nil
	}
	store, err := imagestore.NewS3Store(
		cfg.ImageStore.Endpoint,
		cfg.ImageStore.AccessKey,
		cfg.ImageStore.SecretKey,
		cfg.ImageStore.Bucket,
		cfg.ImageStore.Region,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize image store, photo archival disabled", "error", err)
		return nil
	}
	logger.Info("image store enabled", "bucket", cfg.ImageStore.Bucket)
	return store
}

// provideArchiveRepository selects the persistence backend. With a DSN
// the postgres repository is used; without one development gets a memory
// repository and production gets a backend that reports 503.
func provideArchiveRepository(cfg *config.Config, logger *slog.Logger) archive.Repository {
	fallback := func() archive.Repository {
		if cfg.Production() {
			logger.Warn("database not configured, saved advisories disabled")
			return advisoryrepo.NewDisabledRepository()
		}
		logger.Info("database not configured, using memory repository")
		return advisoryrepo.NewMemoryRepository()
	}

	dsn := strings.TrimSpace(cfg.Archive.Postgres.DSN)
	if dsn == "" {
		return fallback()
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn", "error", err)
		return fallback()
	}
	if cfg.Archive.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Archive.Postgres.MaxConns
	}
	if cfg.Archive.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Archive.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool", "error", err)
		return fallback()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed", "error", err)
		pool.Close()
		return fallback()
	}
	repo, err := advisoryrepo.NewPostgresRepository(ctx, pool)
	if err != nil {
		logger.Error("failed to prepare advisories schema", "error", err)
		pool.Close()
		return fallback()
	}
	logger.Info("postgres advisory repository enabled")
	return repo
}

// provideLimiter returns nil when rate limiting is disabled; the
// middleware then passes every request through.
func provideLimiter(cfg *config.Config, logger *slog.Logger) ratelimit.Limiter {
	rl := cfg.HTTP.RateLimit
	if !rl.Enabled {
		return nil
	}
	limitCfg := ratelimit.Config{
		Requests:   rl.Requests,
		Window:     rl.Window,
		MaxClients: rl.MaxClients,
	}
	if rl.Valkey.Enabled {
		opt, err := buildValkeyOptions(rl.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, using memory limiter", "error", err)
			return ratelimit.NewMemoryLimiter(limitCfg)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, using memory limiter", "error", err)
			return ratelimit.NewMemoryLimiter(limitCfg)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, using memory limiter", "error", err)
			client.Close()
		} else {
			logger.Info("valkey rate limiter enabled", "addr", rl.Valkey.Addr)
			return ratelimit.NewValkeyLimiter(client, limitCfg, "ratelimit")
		}
	}
	return ratelimit.NewMemoryLimiter(limitCfg)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideHandler(advisorySvc advisory.Service, updatesSvc updates.Service, archiveSvc archive.Service, cfg *config.Config, logger *slog.Logger) *httpiface.Handler {
	features := httpiface.Features{
		AIConfigured: strings.TrimSpace(cfg.AI.APIKey) != "",
		DBConfigured: strings.TrimSpace(cfg.Archive.Postgres.DSN) != "",
	}
	return httpiface.NewHandler(advisorySvc, updatesSvc, archiveSvc, features, cfg.HTTP.PingMessage, logger)
}
