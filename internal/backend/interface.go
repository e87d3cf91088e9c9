package backend

import (
	"context"
	"time"

	"budgetapp/internal/cache"
	"budgetapp/internal/ledger"
	"budgetapp/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the ledger, the summary cache and a cleanup function
// releasing both.
type BackendResult struct {
	Ledger  ledger.Ledger
	Cache   cache.Store
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a ledger and cache based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Ledger backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	Postgres storage.PostgresConfig

	// Summary cache
	Cache           CacheType
	RedisURL        string
	CacheMaxEntries int
	CleanupInterval time.Duration
}

// BackendType represents the type of ledger backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// CacheType selects the summary cache implementation.
type CacheType string

const (
	MemoryCache CacheType = "memory"
	RedisCache  CacheType = "redis"
	NoCache     CacheType = "none"
)

func (ct CacheType) IsValid() bool {
	switch ct {
	case MemoryCache, RedisCache, NoCache:
		return true
	default:
		return false
	}
}
