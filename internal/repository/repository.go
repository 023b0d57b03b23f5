package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// ErrMissingReference is returned when a write points at a row that does
// not exist (foreign key violation).
var ErrMissingReference = errors.New("referenced record does not exist")

// pgForeignKeyViolation is the Postgres SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

// Filter narrows a List call.
type Filter struct {
	Profile *domain.Profile
}

// ForProfile is a Filter on one persona.
func ForProfile(p domain.Profile) Filter {
	return Filter{Profile: &p}
}

// Repository defines the data operations shared by every entity.
type Repository[T any] interface {
	Create(ctx context.Context, rec *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, f Filter) ([]T, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// KeyedRepository adds upsert on the record's natural key.
type KeyedRepository[T any] interface {
	Repository[T]
	// Upsert inserts rec, or overwrites the row holding the same natural
	// key, and returns the stored row.
	Upsert(ctx context.Context, rec *T) (*T, error)
}

// gormRepository implements Repository using GORM
type gormRepository[T any] struct {
	db    *gorm.DB
	order string
}

// NewGormRepository creates a GORM repository listing rows in the given
// order (an SQL ORDER BY clause, empty for creation order).
func NewGormRepository[T any](db *gorm.DB, order string) Repository[T] {
	return newGormRepository[T](db, order)
}

func newGormRepository[T any](db *gorm.DB, order string) *gormRepository[T] {
	if order == "" {
		order = "created_at"
	}
	return &gormRepository[T]{db: db, order: order}
}

// Create adds a new record to the database
func (r *gormRepository[T]) Create(ctx context.Context, rec *T) error {
	return translate(r.db.WithContext(ctx).Create(rec).Error)
}

// FindByID retrieves a record by primary key. A missing row yields
// gorm.ErrRecordNotFound.
func (r *gormRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// List retrieves every record matching f
func (r *gormRepository[T]) List(ctx context.Context, f Filter) ([]T, error) {
	var recs []T
	q := r.db.WithContext(ctx).Order(r.order)
	if f.Profile != nil {
		q = q.Where("profile = ?", *f.Profile)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Update writes every field of an existing record. Unlike Save it never
// falls back to an insert: a missing row yields gorm.ErrRecordNotFound.
func (r *gormRepository[T]) Update(ctx context.Context, rec *T) error {
	result := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete permanently removes a record by id. A missing row yields
// gorm.ErrRecordNotFound.
func (r *gormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var zero T
	result := r.db.WithContext(ctx).Delete(&zero, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// gormKeyedRepository implements KeyedRepository with INSERT ... ON CONFLICT.
type gormKeyedRepository[T any, PT interface {
	*T
	domain.Keyed
}] struct {
	*gormRepository[T]
}

// NewGormKeyedRepository creates a GORM repository whose writes upsert on
// the natural key declared by the record type.
func NewGormKeyedRepository[T any, PT interface {
	*T
	domain.Keyed
}](db *gorm.DB, order string) KeyedRepository[T] {
	return &gormKeyedRepository[T, PT]{gormRepository: newGormRepository[T](db, order)}
}

func (r *gormKeyedRepository[T, PT]) Upsert(ctx context.Context, rec *T) (*T, error) {
	keyed := PT(rec)
	keys := keyed.ConflictColumns()

	columns := make([]clause.Column, len(keys))
	for i, k := range keys {
		columns[i] = clause.Column{Name: k}
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   columns,
		DoUpdates: clause.AssignmentColumns(keyed.UpsertColumns()),
	}).Create(rec).Error
	if err != nil {
		return nil, translate(err)
	}

	// The row may predate this call, so read back the stored identity.
	var stored T
	if err := r.db.WithContext(ctx).Where(rec, toInterfaces(keys)...).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func toInterfaces(keys []string) []interface{} {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

// translate maps driver errors onto repository errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrMissingReference
	}
	return err
}
