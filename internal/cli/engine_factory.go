package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/internal/config"
	"github.com/aretw0/bazi/pkg/adapters/memory"
	"github.com/aretw0/bazi/pkg/adapters/redis"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/persistence/middleware"
	"github.com/aretw0/bazi/pkg/ports"
)

// NewEngine assembles an engine from configuration. The returned cleanup
// releases backend connections and is never nil.
func NewEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*bazi.Engine, func() error, error) {
	recorder, cleanup, err := newRecorder(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hooks = append([]domain.LifecycleHooks{createDebugHooks(logger)}, hooks...)
	opts := []bazi.Option{
		bazi.WithLogger(logger),
		bazi.WithMaxInputSize(cfg.Input.MaxSize),
		bazi.WithLifecycleHooks(domain.MergeHooks(hooks...)),
	}
	if recorder != nil {
		recorder, err = protectRecorder(recorder, cfg.History, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, bazi.WithRecorder(recorder))
	}
	return bazi.New(opts...), cleanup, nil
}

func newRecorder(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.ReadingRecorder, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.History.Backend) {
	case config.HistoryMemory:
		logger.Debug("History enabled", "backend", "memory", "limit", cfg.History.Limit)
		return memory.NewStore(memory.WithLimit(cfg.History.Limit)), noop, nil
	case config.HistoryRedis:
		ropts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			ropts = append(ropts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ropts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis history backend unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("History enabled", "backend", "redis", "addr", cfg.Redis.Addr)
		return store, store.Close, nil
	default:
		return nil, noop, nil
	}
}

// protectRecorder applies the redaction and encryption settings. Redaction runs
// first, so an encrypted store holds sealed masks.
func protectRecorder(r ports.ReadingRecorder, cfg config.HistoryConfig, logger *slog.Logger) (ports.ReadingRecorder, error) {
	var mws []middleware.Middleware
	if cfg.Redact {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIFields))
	}
	if cfg.EncryptionKey != "" {
		active, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("history encryption key: %w", err)
		}
		encCfg := middleware.EncryptionConfig{ActiveKey: active}
		for _, k := range cfg.FallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("history fallback key: %w", err)
			}
			encCfg.FallbackKeys = append(encCfg.FallbackKeys, key)
		}
		enc, err := middleware.NewEncryptionMiddleware(encCfg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	if len(mws) > 0 {
		logger.Debug("History protection enabled", "redact", cfg.Redact, "encrypted", cfg.EncryptionKey != "")
	}
	return middleware.Chain(r, mws...), nil
}
