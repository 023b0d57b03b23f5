package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/metrics"
)

// listCache reads lists through the cache. Cache failures are logged and
// fall back to the database; they never fail a request.
//
// Keys carry the resource version read before the fetch. A write that lands
// mid-fetch bumps the version, so the stale list is stored under a key no
// later read asks for.
type listCache[T any] struct {
	resource string
	cache    cache.Cache
	logger   *zap.Logger
}

func newListCache[T any](resource string, c cache.Cache, logger *zap.Logger) *listCache[T] {
	return &listCache[T]{resource: resource, cache: c, logger: logger}
}

// key addresses one list of the resource at a version.
func (l *listCache[T]) key(version int64, scope string) string {
	return fmt.Sprintf("%s:v%d:%s", l.resource, version, scope)
}

func profileScope(p *domain.Profile) string {
	if p == nil {
		return "all"
	}
	return string(*p)
}

func (l *listCache[T]) load(ctx context.Context, scope string, fetch func() ([]T, error)) ([]T, error) {
	version, err := l.cache.Version(ctx, l.resource)
	if err != nil {
		metrics.IncrementCacheLookup(l.resource, "error")
		l.logger.Warn("cache version read failed", zap.String("resource", l.resource), zap.Error(err))
		return l.collect(fetch)
	}

	key := l.key(version, scope)
	if b, ok, err := l.cache.Get(ctx, key); err != nil {
		metrics.IncrementCacheLookup(l.resource, "error")
		l.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var items []T
		if err := json.Unmarshal(b, &items); err == nil {
			metrics.IncrementCacheLookup(l.resource, "hit")
			return items, nil
		}
		l.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else {
		metrics.IncrementCacheLookup(l.resource, "miss")
	}

	items, err := l.collect(fetch)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(items); err == nil {
		if err := l.cache.Set(ctx, key, b); err != nil {
			l.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

func (l *listCache[T]) collect(fetch func() ([]T, error)) ([]T, error) {
	items, err := fetch()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (l *listCache[T]) invalidate(ctx context.Context) {
	if err := l.cache.Bump(ctx, l.resource); err != nil {
		l.logger.Warn("cache invalidation failed", zap.String("resource", l.resource), zap.Error(err))
	}
}
