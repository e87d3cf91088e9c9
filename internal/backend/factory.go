package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetapp/internal/cache"
	"budgetapp/internal/ledger"
	"budgetapp/internal/ledger/memory"
	"budgetapp/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createLedger(ctx, config)
	if err != nil {
		return nil, err
	}

	summaryCache, closeCache, err := f.createCache(ctx, config)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &BackendResult{
		Ledger: store,
		Cache:  summaryCache,
		Cleanup: func() error {
			return errors.Join(closeCache(), store.Close())
		},
	}, nil
}

func (f *DefaultFactory) createLedger(ctx context.Context, config Config) (ledger.Ledger, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(ctx, config.Postgres, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres backend", "max_conns", config.Postgres.MaxConns)
		return repo, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCache(ctx context.Context, config Config) (cache.Store, func() error, error) {
	switch config.Cache {
	case RedisCache:
		store, err := cache.NewRedisStore(config.RedisURL, f.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
		// The cache is best-effort; an unreachable Redis only disables it.
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			f.logger.Warn("Redis cache unreachable, summaries will be computed on every request", "error", err)
		} else {
			f.logger.Info("Initialized Redis cache")
		}
		return store, store.Close, nil
	case MemoryCache:
		store := cache.NewLRUStore(config.CacheMaxEntries)
		manager := cache.NewManager(f.logger)
		manager.Register(store)
		interval := config.CleanupInterval
		if interval <= 0 {
			interval = defaultCleanupInterval
		}
		manager.StartCleanup(interval)
		f.logger.Info("Initialized in-memory cache", "max_entries", config.CacheMaxEntries)
		return store, func() error { manager.Stop(); return nil }, nil
	case NoCache:
		f.logger.Info("Summary cache disabled")
		return cache.Nop{}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache type: %s", config.Cache)
	}
}
