package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogSource yields the raw catalog payload
type CatalogSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Describe() string
}

// CatalogProvider hands out the current catalog snapshot
type CatalogProvider interface {
	Snapshot() (*Catalog, error)
}
