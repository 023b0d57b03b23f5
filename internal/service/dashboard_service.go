package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// DashboardService assembles the overview cards of one profile.
type DashboardService struct {
	todos   *Collection[domain.Todo, *domain.Todo]
	habits  *HabitService
	logs    *DailyLogService
	dsa     *DSAService
	courses *CourseService
}

func NewDashboardService(todos *Collection[domain.Todo, *domain.Todo], habits *HabitService, logs *DailyLogService, dsa *DSAService, courses *CourseService) *DashboardService {
	return &DashboardService{todos: todos, habits: habits, logs: logs, dsa: dsa, courses: courses}
}

// Build reads the profile's records concurrently and reduces them into
// the dashboard. Any failed read fails the whole dashboard.
func (s *DashboardService) Build(ctx context.Context, p domain.Profile, today domain.Date) (*analytics.Dashboard, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in := analytics.DashboardInput{Profile: p}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Todos, err = s.todos.List(gctx, &p)
		return err
	})
	g.Go(func() (err error) {
		in.Habits, err = s.habits.List(gctx, &p)
		return err
	})
	g.Go(func() (err error) {
		in.Entries, err = s.habits.ListEntries(gctx, EntryQuery{Profile: &p})
		return err
	})
	g.Go(func() (err error) {
		in.Logs, err = s.logs.List(gctx, &p)
		return err
	})
	g.Go(func() (err error) {
		in.Courses, err = s.courses.List(gctx, &p)
		return err
	})
	if p == domain.ProfilePiyush {
		g.Go(func() (err error) {
			in.DSA, err = s.dsa.Current(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := analytics.BuildDashboard(in, today)
	return &d, nil
}
