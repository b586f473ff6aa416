package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"invite-redirector/internal/config"
	"invite-redirector/internal/logger"
)

// Open builds the record store selected by cfg.Type. The returned close
// function releases any backend connections.
func Open(ctx context.Context, cfg config.StorageConfig, key string) (*Chain, func() error, error) {
	noop := func() error { return nil }

	var (
		chain   *Chain
		closeFn = noop
	)

	switch cfg.Type {
	case config.StorageFile:
		fs := NewFileStore(cfg.FilePath)
		chain = NewChain(fs, fs)
		logger.Info("Using file storage", "path", cfg.FilePath)

	case config.StorageMemory:
		mem := NewMemoryStore()
		chain = NewChain(mem, mem)
		logger.Info("Using in-memory storage")

	case config.StorageEdgeConfig:
		ec, err := NewEdgeConfigStore(EdgeConfigOptions{
			ConnectionString: cfg.EdgeConfig,
			APIToken:         cfg.APIToken,
			TeamID:           cfg.TeamID,
			Key:              key,
			APIBaseURL:       cfg.APIBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		chain = NewChain(ec, ec.Readers()...)
		logger.Info("Using edge config storage", "team_id", cfg.TeamID, "api_reads", cfg.APIToken != "")

	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		pg := NewPostgresStore(db, key)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		chain = NewChain(pg, pg)
		closeFn = db.Close
		logger.Info("Using postgres storage")

	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		rs := NewRedisStore(rdb, key)
		chain = NewChain(rs, rs)
		closeFn = rdb.Close
		logger.Info("Using redis storage", "addr", cfg.RedisAddr)

	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %q", cfg.Type)
	}

	if cfg.FallbackFile != "" && cfg.Type != config.StorageFile {
		fallback := NewFileStore(cfg.FallbackFile)
		chain.readers = append(chain.readers, fallback)
		chain.WithMirror(fallback)
		logger.Info("Local file fallback enabled", "path", cfg.FallbackFile)
	}

	return chain, closeFn, nil
}
