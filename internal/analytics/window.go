package analytics

import (
	"math"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// LastNDays returns the n dates ending at today, oldest first.
// n <= 0 yields an empty window.
func LastNDays(today domain.Date, n int) []domain.Date {
	if n <= 0 {
		return nil
	}
	days := make([]domain.Date, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDays(i - (n - 1))
	}
	return days
}

// CompletionPercent is the share of window days that have a completed
// entry, rounded to the nearest integer. An empty window yields 0.
func CompletionPercent(entries []domain.HabitEntry, window []domain.Date) int {
	if len(window) == 0 {
		return 0
	}
	done := CompletedDays(entries)
	completed := 0
	for _, d := range window {
		if done[d] {
			completed++
		}
	}
	return Percent(completed, len(window))
}

// Percent returns round(100*part/total), or 0 when total is not positive.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// Average returns round(sum/count), or 0 when count is not positive.
func Average(sum, count int) int {
	if count <= 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// SumWhere folds value over the items that keep accepts. A nil keep
// accepts everything.
func SumWhere[T any](items []T, value func(T) int, keep func(T) bool) int {
	total := 0
	for _, item := range items {
		if keep == nil || keep(item) {
			total += value(item)
		}
	}
	return total
}

// CountWhere counts the items that keep accepts.
func CountWhere[T any](items []T, keep func(T) bool) int {
	return SumWhere(items, func(T) int { return 1 }, keep)
}

// DateSet returns a membership predicate over dates.
func DateSet(dates []domain.Date) func(domain.Date) bool {
	set := make(map[domain.Date]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return func(d domain.Date) bool {
		_, ok := set[d]
		return ok
	}
}
