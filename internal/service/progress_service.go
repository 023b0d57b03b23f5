package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

// DSAService keeps the single A2Z sheet progress record.
type DSAService struct {
	*KeyedCollection[domain.DSAProgress, *domain.DSAProgress]
}

func NewDSAService(repo repository.KeyedRepository[domain.DSAProgress], c cache.Cache, logger *zap.Logger) *DSAService {
	return &DSAService{
		KeyedCollection: NewKeyedCollection[domain.DSAProgress]("dsa-progress", false, repo, c, logger),
	}
}

// Current returns the stored progress, or all zeros before the first save.
func (s *DSAService) Current(ctx context.Context) (*domain.DSAProgress, error) {
	rows, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &domain.DSAProgress{}, nil
	}
	return &rows[0], nil
}

func (s *DSAService) Summary(ctx context.Context) (analytics.DSASummary, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return analytics.DSASummary{}, err
	}
	return analytics.SummarizeDSA(*p), nil
}

// CourseService manages courses and their completion percentages.
type CourseService struct {
	*Collection[domain.Course, *domain.Course]
}

func NewCourseService(repo repository.Repository[domain.Course], c cache.Cache, logger *zap.Logger) *CourseService {
	return &CourseService{
		Collection: NewCollection[domain.Course]("courses", true, repo, c, logger),
	}
}

func (s *CourseService) Progress(ctx context.Context, p domain.Profile) ([]analytics.CourseProgress, error) {
	courses, err := s.List(ctx, &p)
	if err != nil {
		return nil, err
	}
	return analytics.CoursesProgress(courses), nil
}
