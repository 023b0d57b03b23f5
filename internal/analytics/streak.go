// Package analytics computes habit streaks, windowed completion and the
// page rollups. Every function is pure: inputs are already-fetched
// records and an explicit "today".
package analytics

import (
	"fmt"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

const (
	// DefaultStreakLookback bounds how many days a streak walk inspects.
	DefaultStreakLookback = 30
	// DefaultCompletionWindow is the number of trailing days in the completion percent.
	DefaultCompletionWindow = 10
	// WeeklyWindow is the trailing window of the weekly rollups.
	WeeklyWindow = 7
)

// StreakRule selects how a missing entry on today is treated.
type StreakRule string

const (
	// StreakRelaxed lets the walk start from yesterday when today is not
	// completed yet, so the streak survives until yesterday is missed too.
	StreakRelaxed StreakRule = "relaxed"
	// StreakStrict requires today to be completed.
	StreakStrict StreakRule = "strict"
)

// ParseStreakRule maps a config value to a rule. Empty means relaxed.
func ParseStreakRule(s string) (StreakRule, error) {
	switch StreakRule(s) {
	case "", StreakRelaxed:
		return StreakRelaxed, nil
	case StreakStrict:
		return StreakStrict, nil
	default:
		return "", fmt.Errorf("unknown streak rule %q (want %q or %q)", s, StreakRelaxed, StreakStrict)
	}
}

// CompletedDays indexes the completed entries by day. Incomplete entries
// are dropped; duplicates collapse.
func CompletedDays(entries []domain.HabitEntry) map[domain.Date]bool {
	done := make(map[domain.Date]bool, len(entries))
	for _, e := range entries {
		if e.Completed {
			done[e.Date] = true
		}
	}
	return done
}

// CurrentStreak counts consecutive completed days ending at today, with
// the relaxed rule and the default lookback.
func CurrentStreak(entries []domain.HabitEntry, today domain.Date) int {
	return Streak(entries, today, StreakRelaxed, DefaultStreakLookback)
}

// Streak walks backward from today counting completed days. It stops at
// the first day without a completed entry or after lookback days.
func Streak(entries []domain.HabitEntry, today domain.Date, rule StreakRule, lookback int) int {
	if lookback <= 0 || len(entries) == 0 {
		return 0
	}
	done := CompletedDays(entries)

	day := today
	if !done[day] && rule != StreakStrict {
		day = day.AddDays(-1)
	}
	streak := 0
	for streak < lookback && done[day] {
		streak++
		day = day.AddDays(-1)
	}
	return streak
}
