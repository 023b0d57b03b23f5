// Package repotest provides in-memory repositories for tests of the
// layers above the database.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

// Memory is an in-memory repository.Repository keeping insertion order.
// ListErr, when set, fails every List call.
type Memory[T any, PT interface {
	*T
	domain.Record
}] struct {
	mu      sync.Mutex
	rows    []T
	ListErr error
}

func (r *Memory[T, PT]) Create(_ context.Context, rec *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	base := PT(rec).Base()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now()
	base.CreatedAt, base.UpdatedAt = now, now
	r.rows = append(r.rows, *rec)
	return nil
}

func (r *Memory[T, PT]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		found := r.rows[i]
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Memory[T, PT]) List(_ context.Context, f repository.Filter) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []T
	for i := range r.rows {
		if f.Profile != nil {
			if p, ok := any(PT(&r.rows[i])).(domain.Profiled); ok && p.ProfileTag() != *f.Profile {
				continue
			}
		}
		out = append(out, r.rows[i])
	}
	return out, nil
}

func (r *Memory[T, PT]) Update(_ context.Context, rec *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(PT(rec).Base().ID)
	if i < 0 {
		return gorm.ErrRecordNotFound
	}
	PT(rec).Base().UpdatedAt = time.Now()
	r.rows[i] = *rec
	return nil
}

func (r *Memory[T, PT]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return gorm.ErrRecordNotFound
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
	return nil
}

func (r *Memory[T, PT]) index(id uuid.UUID) int {
	for i := range r.rows {
		if PT(&r.rows[i]).Base().ID == id {
			return i
		}
	}
	return -1
}

func (r *Memory[T, PT]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// MemoryKeyed upserts on the record's natural key.
type MemoryKeyed[T any, PT interface {
	*T
	domain.Keyed
}] struct {
	Memory[T, PT]
}

func (r *MemoryKeyed[T, PT]) Upsert(ctx context.Context, rec *T) (*T, error) {
	r.mu.Lock()
	key := PT(rec).NaturalKey()
	for i := range r.rows {
		if PT(&r.rows[i]).NaturalKey() == key {
			kept := *PT(&r.rows[i]).Base()
			r.rows[i] = *rec
			base := PT(&r.rows[i]).Base()
			base.ID, base.CreatedAt, base.UpdatedAt = kept.ID, kept.CreatedAt, time.Now()
			stored := r.rows[i]
			r.mu.Unlock()
			return &stored, nil
		}
	}
	r.mu.Unlock()
	if err := r.Create(ctx, rec); err != nil {
		return nil, err
	}
	stored := *rec
	return &stored, nil
}

// MemoryHabitEntries resolves entry ownership through the habit store.
type MemoryHabitEntries struct {
	MemoryKeyed[domain.HabitEntry, *domain.HabitEntry]
	habits *Memory[domain.Habit, *domain.Habit]
}

func (r *MemoryHabitEntries) Upsert(ctx context.Context, e *domain.HabitEntry) (*domain.HabitEntry, error) {
	if _, err := r.habits.FindByID(ctx, e.HabitID); err != nil {
		return nil, repository.ErrMissingReference
	}
	return r.MemoryKeyed.Upsert(ctx, e)
}

func (r *MemoryHabitEntries) ListByHabit(ctx context.Context, habitID uuid.UUID) ([]domain.HabitEntry, error) {
	all, err := r.List(ctx, repository.Filter{})
	if err != nil {
		return nil, err
	}
	var out []domain.HabitEntry
	for _, e := range all {
		if e.HabitID == habitID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryHabitEntries) ListByProfile(ctx context.Context, p domain.Profile) ([]domain.HabitEntry, error) {
	owned, err := r.habits.List(ctx, repository.ForProfile(p))
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool, len(owned))
	for _, h := range owned {
		ids[h.ID] = true
	}
	all, err := r.List(ctx, repository.Filter{})
	if err != nil {
		return nil, err
	}
	var out []domain.HabitEntry
	for _, e := range all {
		if ids[e.HabitID] {
			out = append(out, e)
		}
	}
	return out, nil
}

// Stores exposes the memory stores that tests reach into directly.
type Stores struct {
	Todos   *Memory[domain.Todo, *domain.Todo]
	Habits  *Memory[domain.Habit, *domain.Habit]
	Entries *MemoryHabitEntries
	Logs    *MemoryKeyed[domain.DailyLog, *domain.DailyLog]
	Ratings *MemoryKeyed[domain.Rating, *domain.Rating]
	DSA     *MemoryKeyed[domain.DSAProgress, *domain.DSAProgress]
	Courses *Memory[domain.Course, *domain.Course]
}

// NewRepositories returns every store backed by memory.
func NewRepositories() (*repository.Repositories, *Stores) {
	m := &Stores{
		Todos:   &Memory[domain.Todo, *domain.Todo]{},
		Habits:  &Memory[domain.Habit, *domain.Habit]{},
		Logs:    &MemoryKeyed[domain.DailyLog, *domain.DailyLog]{},
		Ratings: &MemoryKeyed[domain.Rating, *domain.Rating]{},
		DSA:     &MemoryKeyed[domain.DSAProgress, *domain.DSAProgress]{},
		Courses: &Memory[domain.Course, *domain.Course]{},
	}
	m.Entries = &MemoryHabitEntries{habits: m.Habits}
	return &repository.Repositories{
		Todos:            m.Todos,
		Habits:           m.Habits,
		HabitEntries:     m.Entries,
		DailyLogs:        m.Logs,
		Ratings:          m.Ratings,
		Contests:         &Memory[domain.ContestLog, *domain.ContestLog]{},
		DSAProgress:      m.DSA,
		Blind75:          &Memory[domain.Blind75Item, *domain.Blind75Item]{},
		Resume:           &Memory[domain.ResumeSection, *domain.ResumeSection]{},
		Courses:          m.Courses,
		Certificates:     &Memory[domain.Certificate, *domain.Certificate]{},
		Projects:         &Memory[domain.Project, *domain.Project]{},
		Skills:           &Memory[domain.Skill, *domain.Skill]{},
		CaseStudies:      &Memory[domain.CaseStudy, *domain.CaseStudy]{},
		Guesstimates:     &Memory[domain.Guesstimate, *domain.Guesstimate]{},
		CaseCompetitions: &Memory[domain.CaseCompetition, *domain.CaseCompetition]{},
	}, m
}

var _ repository.HabitEntryRepository = (*MemoryHabitEntries)(nil)
