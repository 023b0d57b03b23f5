package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/metrics"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

const habitEntriesResource = "habit-entries"

// EntryQuery selects habit entries by owner profile or by habit.
// Exactly one of the two must be set.
type EntryQuery struct {
	Profile *domain.Profile
	HabitID *uuid.UUID
}

// HabitService manages habits, their daily entries and the streak and
// completion analytics derived from them.
type HabitService struct {
	*Collection[domain.Habit, *domain.Habit]
	entries    repository.HabitEntryRepository
	entryLists *listCache[domain.HabitEntry]
	opts       analytics.Options
}

func NewHabitService(habits repository.Repository[domain.Habit], entries repository.HabitEntryRepository, c cache.Cache, opts analytics.Options, logger *zap.Logger) *HabitService {
	return &HabitService{
		Collection: NewCollection[domain.Habit]("habits", true, habits, c, logger),
		entries:    entries,
		entryLists: newListCache[domain.HabitEntry](habitEntriesResource, c, logger),
		opts:       opts,
	}
}

// Delete removes the habit and every entry it owns.
func (s *HabitService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Collection.Delete(ctx, id); err != nil {
		return err
	}
	s.entryLists.invalidate(ctx)
	return nil
}

// ListEntries returns entries oldest first.
func (s *HabitService) ListEntries(ctx context.Context, q EntryQuery) ([]domain.HabitEntry, error) {
	switch {
	case q.HabitID != nil && q.Profile != nil:
		return nil, fmt.Errorf("%w: use either profile or habit_id, not both", ErrInvalid)
	case q.HabitID != nil:
		if _, err := s.Get(ctx, *q.HabitID); err != nil {
			return nil, err
		}
		entries, err := s.entries.ListByHabit(ctx, *q.HabitID)
		if err != nil {
			return nil, fmt.Errorf("failed to list habit entries: %w", err)
		}
		if entries == nil {
			entries = []domain.HabitEntry{}
		}
		return entries, nil
	default:
		if err := requireProfile(q.Profile); err != nil {
			return nil, err
		}
		return s.profileEntries(ctx, *q.Profile)
	}
}

func (s *HabitService) profileEntries(ctx context.Context, p domain.Profile) ([]domain.HabitEntry, error) {
	entries, err := s.entryLists.load(ctx, string(p), func() ([]domain.HabitEntry, error) {
		return s.entries.ListByProfile(ctx, p)
	})
	if err != nil {
		s.logger.Error("listing habit entries failed", zap.Stringer("profile", p), zap.Error(err))
		return nil, fmt.Errorf("failed to list habit entries: %w", err)
	}
	return entries, nil
}

// UpsertEntry records whether the habit was completed on the entry's date.
// Writing the same habit and date again overwrites the completion flag.
func (s *HabitService) UpsertEntry(ctx context.Context, e *domain.HabitEntry) (*domain.HabitEntry, error) {
	e.Model = domain.Model{}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, e.HabitID); err != nil {
		return nil, err
	}
	stored, err := s.entries.Upsert(ctx, e)
	if err != nil {
		// The habit can vanish between the lookup and the write.
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, notFound(s.name, e.HabitID, err)
		}
		s.logger.Error("upserting habit entry failed", zap.String("key", e.NaturalKey()), zap.Error(err))
		return nil, fmt.Errorf("failed to save habit entry: %w", err)
	}
	metrics.IncrementRecordWrite(habitEntriesResource, "upsert")
	s.entryLists.invalidate(ctx)
	return stored, nil
}

// Stats computes streak and completion for one habit as of today.
func (s *HabitService) Stats(ctx context.Context, id uuid.UUID, today domain.Date) (*analytics.HabitStats, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByHabit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit entries: %w", err)
	}
	stats := s.opts.HabitStats(*h, entries, today)
	return &stats, nil
}

// ProfileStats computes the stats of every habit of the profile.
func (s *HabitService) ProfileStats(ctx context.Context, p domain.Profile, today domain.Date) ([]analytics.HabitStats, error) {
	habits, err := s.List(ctx, &p)
	if err != nil {
		return nil, err
	}
	entries, err := s.profileEntries(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.opts.ProfileHabitStats(habits, entries, today), nil
}

// Update changes a habit. Moving a habit to another profile moves its
// entries with it, so cached entry lists are dropped too.
func (s *HabitService) Update(ctx context.Context, id uuid.UUID, apply func(*domain.Habit) error) (*domain.Habit, error) {
	h, err := s.Collection.Update(ctx, id, apply)
	if err != nil {
		return nil, err
	}
	s.entryLists.invalidate(ctx)
	return h, nil
}
