package analytics

import (
	"github.com/google/uuid"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// DailyLogSummary is the header of the daily logs page.
type DailyLogSummary struct {
	WeeklyTotal  int `json:"weekly_total"`
	AllTimeTotal int `json:"all_time_total"`
	DailyAverage int `json:"daily_average"`
	LoggedDays   int `json:"logged_days"`
}

// SummarizeDailyLogs totals the questions of the last 7 days and of all time.
func SummarizeDailyLogs(logs []domain.DailyLog, today domain.Date) DailyLogSummary {
	inWeek := DateSet(LastNDays(today, WeeklyWindow))
	total := func(l domain.DailyLog) int { return l.Total() }

	allTime := SumWhere(logs, total, nil)
	return DailyLogSummary{
		WeeklyTotal:  SumWhere(logs, total, func(l domain.DailyLog) bool { return inWeek(l.Date) }),
		AllTimeTotal: allTime,
		DailyAverage: Average(allTime, len(logs)),
		LoggedDays:   len(logs),
	}
}

// DSASummary is the header of the DSA progress page.
type DSASummary struct {
	Solved         int `json:"solved"`
	Total          int `json:"total"`
	OverallPercent int `json:"overall_percent"`
	EasyPercent    int `json:"easy_percent"`
	MediumPercent  int `json:"medium_percent"`
	HardPercent    int `json:"hard_percent"`
}

func SummarizeDSA(p domain.DSAProgress) DSASummary {
	return DSASummary{
		Solved:         p.Solved(),
		Total:          p.Total(),
		OverallPercent: Percent(p.Solved(), p.Total()),
		EasyPercent:    Percent(p.EasySolved, p.EasyTotal),
		MediumPercent:  Percent(p.MediumSolved, p.MediumTotal),
		HardPercent:    Percent(p.HardSolved, p.HardTotal),
	}
}

type CourseProgress struct {
	CourseID         uuid.UUID `json:"course_id"`
	CourseName       string    `json:"course_name"`
	Platform         string    `json:"platform"`
	CompletedContent int       `json:"completed_content"`
	TotalContent     int       `json:"total_content"`
	Percent          int       `json:"percent"`
}

func CoursesProgress(courses []domain.Course) []CourseProgress {
	out := make([]CourseProgress, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseProgress{
			CourseID:         c.ID,
			CourseName:       c.CourseName,
			Platform:         c.Platform,
			CompletedContent: c.CompletedContent,
			TotalContent:     c.TotalContent,
			Percent:          Percent(c.CompletedContent, c.TotalContent),
		})
	}
	return out
}

// pendingTodoPreview is how many open todos the dashboard lists.
const pendingTodoPreview = 5

// DashboardInput is everything the dashboard reads for one profile.
type DashboardInput struct {
	Profile domain.Profile
	Todos   []domain.Todo
	Habits  []domain.Habit
	Entries []domain.HabitEntry
	Logs    []domain.DailyLog
	DSA     *domain.DSAProgress
	Courses []domain.Course
}

type Dashboard struct {
	Profile              domain.Profile `json:"profile"`
	Today                domain.Date    `json:"today"`
	CompletedTodos       int            `json:"completed_todos"`
	TotalTodos           int            `json:"total_todos"`
	PendingTodos         []domain.Todo  `json:"pending_todos"`
	HabitsCompletedToday int            `json:"habits_completed_today"`
	TotalHabits          int            `json:"total_habits"`
	WeeklyQuestions      int            `json:"weekly_questions"`
	TotalQuestions       int            `json:"total_questions"`
	DSAProgressPercent   int            `json:"dsa_progress_percent"`
	CoursesInProgress    int            `json:"courses_in_progress"`
}

// BuildDashboard reduces the profile's records into the dashboard cards.
// DSA progress is tracked for piyush only.
func BuildDashboard(in DashboardInput, today domain.Date) Dashboard {
	logs := SummarizeDailyLogs(in.Logs, today)

	d := Dashboard{
		Profile:        in.Profile,
		Today:          today,
		CompletedTodos: CountWhere(in.Todos, func(t domain.Todo) bool { return t.Completed }),
		TotalTodos:     len(in.Todos),
		PendingTodos:   []domain.Todo{},
		HabitsCompletedToday: CountWhere(in.Entries, func(e domain.HabitEntry) bool {
			return e.Completed && e.Date == today
		}),
		TotalHabits:       len(in.Habits),
		WeeklyQuestions:   logs.WeeklyTotal,
		TotalQuestions:    logs.AllTimeTotal,
		CoursesInProgress: CountWhere(in.Courses, func(c domain.Course) bool { return c.InProgress() }),
	}
	for _, t := range in.Todos {
		if len(d.PendingTodos) == pendingTodoPreview {
			break
		}
		if !t.Completed {
			d.PendingTodos = append(d.PendingTodos, t)
		}
	}
	if in.Profile == domain.ProfilePiyush && in.DSA != nil {
		d.DSAProgressPercent = Percent(in.DSA.Solved(), in.DSA.Total())
	}
	return d
}
