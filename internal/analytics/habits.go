package analytics

import (
	"github.com/google/uuid"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// Options tunes the habit analytics.
type Options struct {
	Rule     StreakRule
	Lookback int
	Window   int
}

// DefaultOptions matches the behaviour of the habit tracker page.
func DefaultOptions() Options {
	return Options{Rule: StreakRelaxed, Lookback: DefaultStreakLookback, Window: DefaultCompletionWindow}
}

// DayStatus is one cell of the completion grid.
type DayStatus struct {
	Date      domain.Date `json:"date"`
	Completed bool        `json:"completed"`
	IsToday   bool        `json:"is_today"`
}

// HabitStats is the analytics row shown next to a habit.
type HabitStats struct {
	HabitID           uuid.UUID   `json:"habit_id"`
	Name              string      `json:"name"`
	Streak            int         `json:"streak"`
	CompletionPercent int         `json:"completion_percent"`
	CompletedToday    bool        `json:"completed_today"`
	Window            []DayStatus `json:"window"`
}

// HabitStats computes the stats of one habit from its own entries.
func (o Options) HabitStats(h domain.Habit, entries []domain.HabitEntry, today domain.Date) HabitStats {
	done := CompletedDays(entries)
	window := LastNDays(today, o.Window)
	cells := make([]DayStatus, len(window))
	for i, d := range window {
		cells[i] = DayStatus{Date: d, Completed: done[d], IsToday: d == today}
	}
	return HabitStats{
		HabitID:           h.ID,
		Name:              h.Name,
		Streak:            Streak(entries, today, o.Rule, o.Lookback),
		CompletionPercent: CompletionPercent(entries, window),
		CompletedToday:    done[today],
		Window:            cells,
	}
}

// ProfileHabitStats computes stats for every habit, in habit order.
// Entries may belong to any habit; those of unknown habits are ignored.
func (o Options) ProfileHabitStats(habits []domain.Habit, entries []domain.HabitEntry, today domain.Date) []HabitStats {
	byHabit := GroupEntries(entries)
	stats := make([]HabitStats, 0, len(habits))
	for _, h := range habits {
		stats = append(stats, o.HabitStats(h, byHabit[h.ID], today))
	}
	return stats
}

// GroupEntries splits entries by habit.
func GroupEntries(entries []domain.HabitEntry) map[uuid.UUID][]domain.HabitEntry {
	byHabit := make(map[uuid.UUID][]domain.HabitEntry)
	for _, e := range entries {
		byHabit[e.HabitID] = append(byHabit[e.HabitID], e)
	}
	return byHabit
}
