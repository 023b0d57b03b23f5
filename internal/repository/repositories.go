package repository

import (
	"gorm.io/gorm"

	"github.com/Tomlord1122/tracker-backend/internal/domain"
)

// Repositories bundles the store of every entity.
type Repositories struct {
	Todos            Repository[domain.Todo]
	Habits           Repository[domain.Habit]
	HabitEntries     HabitEntryRepository
	DailyLogs        KeyedRepository[domain.DailyLog]
	Ratings          KeyedRepository[domain.Rating]
	Contests         Repository[domain.ContestLog]
	DSAProgress      KeyedRepository[domain.DSAProgress]
	Blind75          Repository[domain.Blind75Item]
	Resume           Repository[domain.ResumeSection]
	Courses          Repository[domain.Course]
	Certificates     Repository[domain.Certificate]
	Projects         Repository[domain.Project]
	Skills           Repository[domain.Skill]
	CaseStudies      Repository[domain.CaseStudy]
	Guesstimates     Repository[domain.Guesstimate]
	CaseCompetitions Repository[domain.CaseCompetition]
}

// NewGormRepositories wires every store to one GORM handle, with the list
// order each page expects.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Todos:            NewGormRepository[domain.Todo](db, "created_at DESC"),
		Habits:           NewGormHabitRepository(db),
		HabitEntries:     NewGormHabitEntryRepository(db),
		DailyLogs:        NewGormKeyedRepository[domain.DailyLog](db, "date DESC"),
		Ratings:          NewGormKeyedRepository[domain.Rating](db, "platform"),
		Contests:         NewGormRepository[domain.ContestLog](db, "date DESC, created_at DESC"),
		DSAProgress:      NewGormKeyedRepository[domain.DSAProgress](db, ""),
		Blind75:          NewGormRepository[domain.Blind75Item](db, ""),
		Resume:           NewGormRepository[domain.ResumeSection](db, "sort_order, created_at"),
		Courses:          NewGormRepository[domain.Course](db, ""),
		Certificates:     NewGormRepository[domain.Certificate](db, "date DESC"),
		Projects:         NewGormRepository[domain.Project](db, ""),
		Skills:           NewGormRepository[domain.Skill](db, ""),
		CaseStudies:      NewGormRepository[domain.CaseStudy](db, "date DESC"),
		Guesstimates:     NewGormRepository[domain.Guesstimate](db, ""),
		CaseCompetitions: NewGormRepository[domain.CaseCompetition](db, ""),
	}
}
