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
	Clear()
}

// ProductCatalog provides read access to the loaded product snapshot.
// Implementations swap the whole snapshot on reload; a slice returned by
// Products is never mutated afterwards.
type ProductCatalog interface {
	Products() []Product
	Facets() FacetValues
	Reload() error
}
