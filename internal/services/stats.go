package services

import (
	"context"

	"greensteps/internal/datastore"
	"greensteps/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceStats struct {
	container     *do.Injector
	postgresDB    *bun.DB
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
}

func NewServiceStats(container *do.Injector) (*ServiceStats, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStats{container, postgresDB, cache, readonlyCache}, nil
}

func (service *ServiceStats) GetPlatformStats(ctx context.Context) (*datastore.PlatformStats, error) {
	callback := func() (*datastore.PlatformStats, error) {
		return datastore.GetPlatformStats(ctx, service.postgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPlatformStats(), CACHE_TTL_5_MINS, callback)
}
