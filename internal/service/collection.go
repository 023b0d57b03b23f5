package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/metrics"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

// Collection is the CRUD service behind one resource. Profile-scoped
// collections refuse to list without a profile.
type Collection[T any, PT interface {
	*T
	domain.Record
}] struct {
	name   string
	scoped bool
	repo   repository.Repository[T]
	lists  *listCache[T]
	logger *zap.Logger
}

// NewCollection creates the service for the resource called name.
func NewCollection[T any, PT interface {
	*T
	domain.Record
}](name string, scoped bool, repo repository.Repository[T], c cache.Cache, logger *zap.Logger) *Collection[T, PT] {
	return &Collection[T, PT]{
		name:   name,
		scoped: scoped,
		repo:   repo,
		lists:  newListCache[T](name, c, logger),
		logger: logger,
	}
}

// Name is the resource name used in cache keys, metrics and errors.
func (c *Collection[T, PT]) Name() string {
	return c.name
}

// List returns the records of the profile, or every record for resources
// that are not profile-scoped.
func (c *Collection[T, PT]) List(ctx context.Context, profile *domain.Profile) ([]T, error) {
	filter := repository.Filter{}
	if c.scoped {
		if err := requireProfile(profile); err != nil {
			return nil, err
		}
		filter.Profile = profile
	}
	items, err := c.lists.load(ctx, profileScope(filter.Profile), func() ([]T, error) {
		return c.repo.List(ctx, filter)
	})
	if err != nil {
		c.logger.Error("listing records failed", zap.String("resource", c.name), zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}
	return items, nil
}

// Get returns one record or ErrNotFound.
func (c *Collection[T, PT]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	rec, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(c.name, id, err)
	}
	return rec, nil
}

// Create validates and stores a new record. Any client-supplied identity
// or timestamps are discarded.
func (c *Collection[T, PT]) Create(ctx context.Context, rec *T) (*T, error) {
	base := PT(rec).Base()
	*base = domain.Model{}
	if err := PT(rec).Validate(); err != nil {
		return nil, err
	}
	if err := c.repo.Create(ctx, rec); err != nil {
		c.logger.Error("creating record failed", zap.String("resource", c.name), zap.Error(err))
		return nil, fmt.Errorf("failed to create %s: %w", c.name, err)
	}
	c.written(ctx, "create")
	return rec, nil
}

// Update loads the record, lets apply change it and saves the result.
// The id and creation time survive whatever apply does.
func (c *Collection[T, PT]) Update(ctx context.Context, id uuid.UUID, apply func(*T) error) (*T, error) {
	rec, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	kept := *PT(rec).Base()
	if err := apply(rec); err != nil {
		return nil, err
	}
	base := PT(rec).Base()
	base.ID = kept.ID
	base.CreatedAt = kept.CreatedAt
	if err := PT(rec).Validate(); err != nil {
		return nil, err
	}
	if err := c.repo.Update(ctx, rec); err != nil {
		c.logger.Error("updating record failed", zap.String("resource", c.name), zap.Stringer("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update %s: %w", c.name, notFound(c.name, id, err))
	}
	c.written(ctx, "update")
	return rec, nil
}

// Delete removes a record. Deleting a missing record is ErrNotFound.
func (c *Collection[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return notFound(c.name, id, err)
	}
	c.written(ctx, "delete")
	return nil
}

func (c *Collection[T, PT]) written(ctx context.Context, op string) {
	metrics.IncrementRecordWrite(c.name, op)
	c.lists.invalidate(ctx)
}

// KeyedCollection is the service behind resources written by upsert on a
// natural key: one row per key, the latest write wins.
type KeyedCollection[T any, PT interface {
	*T
	domain.Keyed
}] struct {
	*Collection[T, PT]
	keyed repository.KeyedRepository[T]
}

func NewKeyedCollection[T any, PT interface {
	*T
	domain.Keyed
}](name string, scoped bool, repo repository.KeyedRepository[T], c cache.Cache, logger *zap.Logger) *KeyedCollection[T, PT] {
	return &KeyedCollection[T, PT]{
		Collection: NewCollection[T, PT](name, scoped, repo, c, logger),
		keyed:      repo,
	}
}

// Upsert stores rec, replacing the record with the same natural key, and
// returns the stored record.
func (c *KeyedCollection[T, PT]) Upsert(ctx context.Context, rec *T) (*T, error) {
	*PT(rec).Base() = domain.Model{}
	if err := PT(rec).Validate(); err != nil {
		return nil, err
	}
	stored, err := c.keyed.Upsert(ctx, rec)
	if err != nil {
		c.logger.Error("upserting record failed",
			zap.String("resource", c.name),
			zap.String("key", PT(rec).NaturalKey()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save %s: %w", c.name, err)
	}
	c.written(ctx, "upsert")
	return stored, nil
}
