package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

// Services is every service the HTTP layer calls.
type Services struct {
	Todos            *Collection[domain.Todo, *domain.Todo]
	Habits           *HabitService
	DailyLogs        *DailyLogService
	Ratings          *KeyedCollection[domain.Rating, *domain.Rating]
	Contests         *Collection[domain.ContestLog, *domain.ContestLog]
	DSA              *DSAService
	Blind75          *Collection[domain.Blind75Item, *domain.Blind75Item]
	Resume           *Collection[domain.ResumeSection, *domain.ResumeSection]
	Courses          *CourseService
	Certificates     *Collection[domain.Certificate, *domain.Certificate]
	Projects         *Collection[domain.Project, *domain.Project]
	Skills           *Collection[domain.Skill, *domain.Skill]
	CaseStudies      *Collection[domain.CaseStudy, *domain.CaseStudy]
	Guesstimates     *Collection[domain.Guesstimate, *domain.Guesstimate]
	CaseCompetitions *Collection[domain.CaseCompetition, *domain.CaseCompetition]
	Dashboard        *DashboardService
	Clock            *Clock
}

// New wires the services over the given stores. A nil cache disables
// caching.
func New(repos *repository.Repositories, c cache.Cache, opts analytics.Options, clock *Clock, logger *zap.Logger) *Services {
	if c == nil {
		c = cache.Noop{}
	}
	s := &Services{
		Todos:            NewCollection[domain.Todo]("todos", true, repos.Todos, c, logger),
		Habits:           NewHabitService(repos.Habits, repos.HabitEntries, c, opts, logger),
		DailyLogs:        NewDailyLogService(repos.DailyLogs, c, logger),
		Ratings:          NewKeyedCollection[domain.Rating]("ratings", false, repos.Ratings, c, logger),
		Contests:         NewCollection[domain.ContestLog]("contests", false, repos.Contests, c, logger),
		DSA:              NewDSAService(repos.DSAProgress, c, logger),
		Blind75:          NewCollection[domain.Blind75Item]("blind75", false, repos.Blind75, c, logger),
		Resume:           NewCollection[domain.ResumeSection]("resume", false, repos.Resume, c, logger),
		Courses:          NewCourseService(repos.Courses, c, logger),
		Certificates:     NewCollection[domain.Certificate]("certificates", true, repos.Certificates, c, logger),
		Projects:         NewCollection[domain.Project]("projects", true, repos.Projects, c, logger),
		Skills:           NewCollection[domain.Skill]("skills", true, repos.Skills, c, logger),
		CaseStudies:      NewCollection[domain.CaseStudy]("case-studies", false, repos.CaseStudies, c, logger),
		Guesstimates:     NewCollection[domain.Guesstimate]("guesstimates", false, repos.Guesstimates, c, logger),
		CaseCompetitions: NewCollection[domain.CaseCompetition]("competitions", false, repos.CaseCompetitions, c, logger),
		Clock:            clock,
	}
	s.Dashboard = NewDashboardService(s.Todos, s.Habits, s.DailyLogs, s.DSA, s.Courses)
	return s
}

// Clock tells the calendar day in the tracker's time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock for loc. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Today is the current calendar day in the clock's zone.
func (c *Clock) Today() domain.Date {
	return domain.DateOf(c.now().In(c.loc))
}

// Resolve parses an explicit YYYY-MM-DD day, falling back to Today when
// s is empty.
func (c *Clock) Resolve(s string) (domain.Date, error) {
	if s == "" {
		return c.Today(), nil
	}
	return domain.ParseDate(s)
}
