package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/adapters/file"
	"github.com/aretw0/journey/internal/config"
	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/adapters/redis"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/persistence/middleware"
	"github.com/aretw0/journey/pkg/ports"
)

// Options are the settings shared by every command.
type Options struct {
	ConfigPath string
	// StoreKind overrides the configured store when set.
	StoreKind string
	Debug     bool
}

// loadConfig applies the command line overrides to the loaded config.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if opts.StoreKind != "" {
		cfg.Store.Kind = opts.StoreKind
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// createEngine initializes an engine over the configured store. The
// returned func releases the store's connections.
func createEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*journey.Engine, func() error, error) {
	engineOpts := []journey.Option{
		journey.WithLogger(logger),
		journey.WithStepLimit(cfg.Exploration.StepLimit),
		journey.WithMaxScriptSize(cfg.Exploration.MaxScriptBytes),
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		engineOpts = append(engineOpts, journey.WithLifecycleHooks(createDebugHooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, journey.WithLifecycleHooks(h))
	}

	closer := func() error { return nil }
	var store ports.ExplorationStore
	switch cfg.Store.Kind {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.New(cfg.Store.Path)
	case config.StoreRedis:
		rc := cfg.Store.Redis
		storeOpts := []redis.Option{redis.WithPrefix(rc.Prefix)}
		if rc.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(rc.TTL))
		}
		rs := redis.New(rc.Addr, rc.Password, rc.DB, storeOpts...)
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", rc.Addr, err)
		}
		store = rs
		engineOpts = append(engineOpts,
			journey.WithLocker(redis.NewLocker(rs.Client(), rc.Prefix)),
			journey.WithLockTTL(rc.LockTTL),
		)
		closer = rs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	enc, encrypted, err := cfg.Store.Encryption()
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	if encrypted {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(enc))
	}
	engineOpts = append(engineOpts, journey.WithStore(store))

	logger.Debug("Engine ready", "store", cfg.Store.Kind, "encrypted", encrypted)
	return journey.New(engineOpts...), closer, nil
}
