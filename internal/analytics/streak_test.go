package analytics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

var habitID = uuid.MustParse("7b0e5c1e-4a57-4d43-9c55-0a1f2f3b9a10")

func entry(date string, completed bool) domain.HabitEntry {
	return domain.HabitEntry{HabitID: habitID, Date: domain.MustParseDate(date), Completed: completed}
}

// completedRun returns n completed entries ending at end.
func completedRun(end domain.Date, n int) []domain.HabitEntry {
	entries := make([]domain.HabitEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, domain.HabitEntry{HabitID: habitID, Date: end.AddDays(-i), Completed: true})
	}
	return entries
}

func TestCurrentStreakEmpty(t *testing.T) {
	today := domain.MustParseDate("2024-05-03")
	assert.Equal(t, 0, CurrentStreak(nil, today))
	assert.Equal(t, 0, CompletionPercent(nil, LastNDays(today, DefaultCompletionWindow)))
}

func TestCurrentStreakFallsBackToYesterday(t *testing.T) {
	entries := []domain.HabitEntry{
		entry("2024-05-01", true),
		entry("2024-05-02", true),
		entry("2024-05-03", false),
	}
	today := domain.MustParseDate("2024-05-03")

	assert.Equal(t, 2, CurrentStreak(entries, today))
	assert.Equal(t, 67, CompletionPercent(entries, LastNDays(today, 3)))
}

func TestCurrentStreakStopsAtGapBeforeToday(t *testing.T) {
	entries := []domain.HabitEntry{
		entry("2024-04-29", true),
		entry("2024-04-30", true),
		entry("2024-05-02", true),
	}
	assert.Equal(t, 1, CurrentStreak(entries, domain.MustParseDate("2024-05-02")))
}

func TestCurrentStreakZeroWhenTodayAndYesterdayMissed(t *testing.T) {
	entries := []domain.HabitEntry{entry("2024-04-30", true)}
	assert.Equal(t, 0, CurrentStreak(entries, domain.MustParseDate("2024-05-02")))
}

func TestCurrentStreakIsBoundedByLookback(t *testing.T) {
	today := domain.MustParseDate("2024-05-31")
	entries := completedRun(today, 45)
	assert.Equal(t, DefaultStreakLookback, CurrentStreak(entries, today))

	// With today missed the walk starts at yesterday and is still bounded.
	assert.Equal(t, DefaultStreakLookback, CurrentStreak(entries, today.AddDays(1)))
}

func TestCurrentStreakCoversLastKDays(t *testing.T) {
	today := domain.MustParseDate("2024-03-02")
	for k := 1; k <= DefaultStreakLookback; k++ {
		assert.GreaterOrEqual(t, CurrentStreak(completedRun(today, k), today), k, "k=%d", k)
	}
}

func TestCompletingTodayExtendsStreakByOne(t *testing.T) {
	today := domain.MustParseDate("2024-05-10")
	history := completedRun(today.AddDays(-1), 4)

	before := CurrentStreak(append(history, domain.HabitEntry{HabitID: habitID, Date: today}), today)
	after := CurrentStreak(append(history, domain.HabitEntry{HabitID: habitID, Date: today, Completed: true}), today)

	assert.Equal(t, 4, before)
	assert.Equal(t, before+1, after)
}

func TestStreakStrictRequiresToday(t *testing.T) {
	entries := []domain.HabitEntry{entry("2024-05-01", true), entry("2024-05-02", true)}
	today := domain.MustParseDate("2024-05-03")

	assert.Equal(t, 0, Streak(entries, today, StreakStrict, DefaultStreakLookback))
	assert.Equal(t, 2, Streak(entries, today, StreakRelaxed, DefaultStreakLookback))
	assert.Equal(t, 2, Streak(entries, today.AddDays(-1), StreakStrict, DefaultStreakLookback))
}

func TestStreakNonPositiveLookback(t *testing.T) {
	today := domain.MustParseDate("2024-05-03")
	assert.Equal(t, 0, Streak(completedRun(today, 3), today, StreakRelaxed, 0))
}

func TestStreakIsIdempotent(t *testing.T) {
	today := domain.MustParseDate("2024-05-03")
	entries := append(completedRun(today, 5), entry("2024-04-20", true))

	first := CurrentStreak(entries, today)
	second := CurrentStreak(entries, today)
	assert.Equal(t, first, second)
	assert.Len(t, entries, 6, "input must not be mutated")
}

func TestCompletedDaysIgnoresIncompleteDuplicates(t *testing.T) {
	done := CompletedDays([]domain.HabitEntry{
		entry("2024-05-01", true),
		entry("2024-05-01", true),
		entry("2024-05-02", false),
	})
	assert.Len(t, done, 1)
	assert.True(t, done[domain.MustParseDate("2024-05-01")])
}

func TestParseStreakRule(t *testing.T) {
	rule, err := ParseStreakRule("")
	require.NoError(t, err)
	assert.Equal(t, StreakRelaxed, rule)

	rule, err = ParseStreakRule("strict")
	require.NoError(t, err)
	assert.Equal(t, StreakStrict, rule)

	_, err = ParseStreakRule("lenient")
	assert.Error(t, err)
}
