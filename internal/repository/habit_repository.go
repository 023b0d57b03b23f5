package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// HabitEntryRepository is the entry store read by the habit analytics.
type HabitEntryRepository interface {
	KeyedRepository[domain.HabitEntry]
	// ListByHabit returns every entry of one habit, oldest first.
	ListByHabit(ctx context.Context, habitID uuid.UUID) ([]domain.HabitEntry, error)
	// ListByProfile returns the entries of every habit owned by the profile.
	ListByProfile(ctx context.Context, p domain.Profile) ([]domain.HabitEntry, error)
}

type gormHabitEntryRepository struct {
	KeyedRepository[domain.HabitEntry]
	db *gorm.DB
}

func NewGormHabitEntryRepository(db *gorm.DB) HabitEntryRepository {
	return &gormHabitEntryRepository{
		KeyedRepository: NewGormKeyedRepository[domain.HabitEntry](db, "date"),
		db:              db,
	}
}

func (r *gormHabitEntryRepository) ListByHabit(ctx context.Context, habitID uuid.UUID) ([]domain.HabitEntry, error) {
	var entries []domain.HabitEntry
	err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("date").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormHabitEntryRepository) ListByProfile(ctx context.Context, p domain.Profile) ([]domain.HabitEntry, error) {
	var entries []domain.HabitEntry
	err := r.db.WithContext(ctx).
		Joins("JOIN habits ON habits.id = habit_entries.habit_id").
		Where("habits.profile = ?", p).
		Order("habit_entries.date").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// gormHabitRepository deletes a habit together with the entries it owns.
type gormHabitRepository struct {
	Repository[domain.Habit]
	db *gorm.DB
}

func NewGormHabitRepository(db *gorm.DB) Repository[domain.Habit] {
	return &gormHabitRepository{
		Repository: NewGormRepository[domain.Habit](db, "sort_order, created_at"),
		db:         db,
	}
}

func (r *gormHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&domain.HabitEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Habit{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
